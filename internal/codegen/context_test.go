package codegen

import (
	"testing"

	"github.com/medusa-lang/medusa/internal/types"
	"github.com/nalgeon/be"
)

func TestCounters(t *testing.T) {
	c := NewContext(Options{})
	be.Equal(t, c.NextLabel(), 0)
	be.Equal(t, c.NextLabel(), 1)
	be.Equal(t, c.NextSlot(), 0)
	be.Equal(t, c.NextLabel(), 2)
	be.Equal(t, c.NextSlot(), 1)
}

func TestDeclare(t *testing.T) {
	c := NewContext(Options{})
	be.Err(t, c.Declare("b", types.Integer), nil)
	be.Err(t, c.Declare("a", types.Text), nil)

	typ, ok := c.Lookup("a")
	be.True(t, ok)
	be.Equal(t, typ, types.Text)
	_, ok = c.Lookup("missing")
	be.True(t, !ok)

	err := c.Declare("b", types.Float)
	be.Err(t, err, ErrRedeclared)
	typ, _ = c.Lookup("b")
	be.Equal(t, typ, types.Integer)

	be.Equal(t, c.Symbols(), []Symbol{{"b", types.Integer}, {"a", types.Text}})
}

func TestDeclareAllowRedeclaration(t *testing.T) {
	c := NewContext(Options{AllowRedeclaration: true})
	be.Err(t, c.Declare("b", types.Integer), nil)
	be.Err(t, c.Declare("a", types.Text), nil)
	be.Err(t, c.Declare("b", types.Float), nil)

	be.Equal(t, c.Symbols(), []Symbol{{"b", types.Float}, {"a", types.Text}})
}

func TestSymbolTable(t *testing.T) {
	st := NewSymbolTable()
	be.Equal(t, st.Len(), 0)
	be.True(t, !st.Declare("x", types.Integer))
	be.True(t, st.Declare("x", types.Float))
	be.Equal(t, st.Len(), 1)
	be.Equal(t, st.Symbols(), []Symbol{{"x", types.Float}})
}
