package codegen

import "github.com/medusa-lang/medusa/internal/types"

type Symbol struct {
	Name string
	Type types.VariableType
}

// SymbolTable maps variable names to types and remembers declaration order.
type SymbolTable struct {
	order []string
	types map[string]types.VariableType
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{types: make(map[string]types.VariableType)}
}

// Declare records name with typ. Redeclaring a name updates its type but
// keeps its original position. It returns true if the name already existed.
func (st *SymbolTable) Declare(name string, typ types.VariableType) bool {
	_, exists := st.types[name]
	if !exists {
		st.order = append(st.order, name)
	}
	st.types[name] = typ
	return exists
}

func (st *SymbolTable) Lookup(name string) (types.VariableType, bool) {
	typ, ok := st.types[name]
	return typ, ok
}

func (st *SymbolTable) Len() int {
	return len(st.order)
}

// Symbols returns every variable in declaration order.
func (st *SymbolTable) Symbols() []Symbol {
	result := make([]Symbol, 0, len(st.order))
	for _, name := range st.order {
		result = append(result, Symbol{Name: name, Type: st.types[name]})
	}
	return result
}
