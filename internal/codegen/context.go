package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/medusa-lang/medusa/internal/codegen/asm"
	"github.com/medusa-lang/medusa/internal/types"
)

type Options struct {
	// AllowRedeclaration makes a second declaration of a name silently replace its type.
	AllowRedeclaration bool
	// Logger receives debug output such as postfix sequences. May be nil.
	Logger *log.Logger
}

// Context is the state of a single compilation.
type Context struct {
	labelIndex int
	slotIndex  int
	text       strings.Builder
	data       strings.Builder
	symbols    *SymbolTable
	opts       Options
	logger     *log.Logger
}

func NewContext(opts Options) *Context {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Context{
		symbols: NewSymbolTable(),
		opts:    opts,
		logger:  logger,
	}
}

// NextLabel returns a fresh label number. Numbers start at 0 and never repeat.
func (c *Context) NextLabel() int {
	label := c.labelIndex
	c.labelIndex++
	return label
}

// NextSlot returns a fresh storage slot number for a string literal.
func (c *Context) NextSlot() int {
	slot := c.slotIndex
	c.slotIndex++
	return slot
}

// Declare registers a variable. Unless redeclaration is allowed, declaring
// an existing name fails with ErrRedeclared and leaves the table unchanged.
func (c *Context) Declare(name string, typ types.VariableType) error {
	if prev, ok := c.symbols.Lookup(name); ok && !c.opts.AllowRedeclaration {
		return fmt.Errorf("%w: %s was already declared as %s", ErrRedeclared, name, prev)
	}
	c.symbols.Declare(name, typ)
	return nil
}

func (c *Context) Lookup(name string) (types.VariableType, bool) {
	return c.symbols.Lookup(name)
}

func (c *Context) Symbols() []Symbol {
	return c.symbols.Symbols()
}

// Text returns the instructions generated so far.
func (c *Context) Text() string {
	return c.text.String()
}

// Data returns the data section entries generated so far.
func (c *Context) Data() string {
	return c.data.String()
}

func (c *Context) emit(lines ...asm.Line) {
	for _, line := range lines {
		asm.Format(&c.text, line)
	}
}

func (c *Context) emitRaw(text string) {
	c.text.WriteString(text)
}

func (c *Context) emitData(format string, args ...any) {
	fmt.Fprintf(&c.data, format, args...)
	c.data.WriteString("\n")
}

func labelName(label int) string {
	return fmt.Sprintf("label_%d", label)
}

func slotName(slot int) string {
	return fmt.Sprintf("string_%d", slot)
}

func variableName(name string) string {
	return "var_" + name
}
