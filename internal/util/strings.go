package util

import (
	"strconv"
	"strings"
)

// NasmBytes renders s as the operand list of a NASM "db" directive followed by a NUL terminator.
// Printable ASCII runs are kept as quoted strings; every other byte (including '"') is written as a number.
// e.g. "Hi\n" -> `"Hi", 10, 0`
func NasmBytes(s string) string {
	var parts []string
	var run strings.Builder

	flush := func() {
		if run.Len() > 0 {
			parts = append(parts, `"`+run.String()+`"`)
			run.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		b := s[i]
		if b >= 0x20 && b < 0x7f && b != '"' {
			run.WriteByte(b)
			continue
		}
		flush()
		parts = append(parts, strconv.Itoa(int(b)))
	}
	flush()

	parts = append(parts, "0")
	return strings.Join(parts, ", ")
}
