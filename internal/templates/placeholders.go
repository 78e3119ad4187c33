package templates

import (
	"strconv"
	"strings"
)

// match is one placeholder occurrence. open and close are the rune indexes of its braces.
type match struct {
	open  int
	close int
	name  string
}

// scan finds placeholders left to right without overlap. A placeholder is a
// single '{', a name, and a single '}', with a character on each side that
// is not the same brace. The neighbouring characters belong to the match, so
// "{{x}}" is never a placeholder and "{a}{b}" only matches "{a}".
func scan(runes []rune) []match {
	var matches []match
	i := 0
	for i+4 <= len(runes) {
		if runes[i] == '{' || runes[i+1] != '{' {
			i++
			continue
		}
		j := i + 2
		for j < len(runes) && isNameRune(runes[j]) {
			j++
		}
		if j == i+2 || j+1 >= len(runes) || runes[j] != '}' || runes[j+1] == '}' {
			i++
			continue
		}
		matches = append(matches, match{open: i + 1, close: j, name: string(runes[i+2 : j])})
		i = j + 2
	}
	return matches
}

func isNameRune(r rune) bool {
	return r != '{' && r != '}' && r != '\n'
}

// Placeholders returns the distinct placeholder names in body in first-seen order.
func Placeholders(body string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range scan([]rune(body)) {
		if !seen[m.name] {
			seen[m.name] = true
			names = append(names, m.name)
		}
	}
	return names
}

// Rewrite replaces every placeholder whose name is in labels with its number.
// Everything else, including unknown placeholders, is copied unchanged.
func Rewrite(body string, labels map[string]int) string {
	runes := []rune(body)
	var sb strings.Builder
	sb.Grow(len(body))
	last := 0
	for _, m := range scan(runes) {
		label, ok := labels[m.name]
		if !ok {
			continue
		}
		sb.WriteString(string(runes[last:m.open]))
		sb.WriteString(strconv.Itoa(label))
		last = m.close + 1
	}
	sb.WriteString(string(runes[last:]))
	return sb.String()
}
