package types

import "fmt"

const (
	WORD_SIZE = 8
	// TEXT_BUFFER_SIZE is the fixed storage reserved for each string variable, terminator included.
	TEXT_BUFFER_SIZE = 1000
	// TEXT_HEAP_SIZE is the minimum heap allocation for a temporary string value.
	TEXT_HEAP_SIZE = 256
)

func StorageSize(typ VariableType) int {
	switch typ {
	case Integer, Float:
		return WORD_SIZE
	case Text:
		return TEXT_BUFFER_SIZE
	}
	panic(fmt.Sprintf("unknown type %s", typ))
}
