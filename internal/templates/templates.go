// Package templates holds the runtime conversion routines that are merged
// into generated programs, and the label placeholder rewriting they need.
package templates

import (
	"embed"
	"errors"
	"fmt"
)

// Template names
const (
	IntToFloat    = "int_to_float"
	FloatToString = "float_to_string"
	StringToFloat = "string_to_float"
	Input         = "input"
)

var ErrUnknownTemplate = errors.New("unknown template")

//go:embed asm/*.asm
var assets embed.FS

// LabelAllocator hands out fresh, globally unique label numbers.
type LabelAllocator interface {
	NextLabel() int
}

// Names lists every available template.
func Names() []string {
	return []string{IntToFloat, FloatToString, StringToFloat, Input}
}

// Load returns the raw body of the named template.
func Load(name string) (string, error) {
	data, err := assets.ReadFile("asm/" + name + ".asm")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	return string(data), nil
}

// Merge loads the named template and rewrites its label placeholders
// with fresh labels from alloc, assigned in first-seen order.
func Merge(name string, alloc LabelAllocator) (string, error) {
	body, err := Load(name)
	if err != nil {
		return "", err
	}
	labels := make(map[string]int)
	for _, placeholder := range Placeholders(body) {
		labels[placeholder] = alloc.NextLabel()
	}
	return Rewrite(body, labels), nil
}
