package types

import "fmt"

// VariableType is the static type of a Medusa value.
type VariableType int

const (
	Integer VariableType = iota
	Float
	Text
)

func (t VariableType) String() string {
	switch t {
	case Integer:
		return "int"
	case Float:
		return "float"
	case Text:
		return "string"
	default:
		return fmt.Sprintf("VariableType(%d)", int(t))
	}
}

// IsNumeric returns true for types that support arithmetic.
func (t VariableType) IsNumeric() bool {
	return t == Integer || t == Float
}

// FromKeyword maps a type keyword ("int", "float", "string") to its type.
func FromKeyword(keyword string) (VariableType, bool) {
	switch keyword {
	case "int":
		return Integer, true
	case "float":
		return Float, true
	case "string":
		return Text, true
	}
	return 0, false
}

// All lists every variable type in declaration order.
var All = []VariableType{Integer, Float, Text}
