package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/medusa-lang/medusa/internal/lexer"
	"github.com/medusa-lang/medusa/internal/types"
)

type Location = lexer.Location

type AstNode interface {
	fmt.Stringer
	GetLocation() Location
}

// Statement is any node that may appear in a program or a block.
type Statement interface {
	AstNode
	isStatement()
}

// ExprItem is one element of an expression's flat operand/operator list.
type ExprItem interface {
	AstNode
	isExprItem()
}

type Program struct {
	Loc        Location
	Statements []Statement
}

func (p *Program) GetLocation() Location {
	return p.Loc
}

func (p *Program) String() string {
	var sb strings.Builder
	sb.WriteString("(program")
	for _, stmt := range p.Statements {
		sb.WriteString(" ")
		sb.WriteString(stmt.String())
	}
	sb.WriteString(")")
	return sb.String()
}

type Block struct {
	Loc        Location
	Statements []Statement
}

func (b *Block) GetLocation() Location {
	return b.Loc
}

func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("(block")
	for _, stmt := range b.Statements {
		sb.WriteString(" ")
		sb.WriteString(stmt.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// Declaration introduces a variable. Target is one of:
//   - *Identifier: a bare declaration
//   - *Assignment: a declaration with an initializer
//   - *Input: a declaration initialized from standard input
type Declaration struct {
	Loc    Location
	Type   types.VariableType
	Target Statement
}

func (d *Declaration) GetLocation() Location {
	return d.Loc
}

func (d *Declaration) String() string {
	return fmt.Sprintf("(decl %s %s)", d.Type, d.Target)
}

func (d *Declaration) isStatement() {}

// Name returns the declared variable name by peeking into the target.
func (d *Declaration) Name() string {
	switch target := d.Target.(type) {
	case *Identifier:
		return target.Name
	case *Assignment:
		return target.Name
	case *Input:
		return target.Name
	}
	return ""
}

type Assignment struct {
	Loc   Location
	Name  string
	Value *Expression
}

func (a *Assignment) GetLocation() Location {
	return a.Loc
}

func (a *Assignment) String() string {
	return fmt.Sprintf("(assign %s %s)", a.Name, a.Value)
}

func (a *Assignment) isStatement() {}

// Output writes the value of an expression followed by a newline: `expr -> @;`
type Output struct {
	Loc   Location
	Value *Expression
}

func (o *Output) GetLocation() Location {
	return o.Loc
}

func (o *Output) String() string {
	return fmt.Sprintf("(output %s)", o.Value)
}

func (o *Output) isStatement() {}

// Input reads one line of standard input into a variable: `name <- @;`
type Input struct {
	Loc  Location
	Name string
}

func (i *Input) GetLocation() Location {
	return i.Loc
}

func (i *Input) String() string {
	return fmt.Sprintf("(input %s)", i.Name)
}

func (i *Input) isStatement() {}

type Conditional struct {
	Loc      Location
	Left     *Expression
	Operator string
	Right    *Expression
	Then     *Block
	// Else is nil when there is no else branch.
	Else *Block
}

func (c *Conditional) GetLocation() Location {
	return c.Loc
}

func (c *Conditional) String() string {
	if c.Else == nil {
		return fmt.Sprintf("(if (%s %s %s) %s)", c.Operator, c.Left, c.Right, c.Then)
	}
	return fmt.Sprintf("(if (%s %s %s) %s %s)", c.Operator, c.Left, c.Right, c.Then, c.Else)
}

func (c *Conditional) isStatement() {}

// EndOfInput marks the end of the program text.
type EndOfInput struct {
	Loc Location
}

func (e *EndOfInput) GetLocation() Location {
	return e.Loc
}

func (e *EndOfInput) String() string {
	return "(eoi)"
}

func (e *EndOfInput) isStatement() {}

// Expression is a flat infix sequence of operands, operators, casts and nested expressions.
type Expression struct {
	Loc   Location
	Items []ExprItem
}

func (e *Expression) GetLocation() Location {
	return e.Loc
}

func (e *Expression) String() string {
	var sb strings.Builder
	sb.WriteString("(expr")
	for _, item := range e.Items {
		sb.WriteString(" ")
		sb.WriteString(item.String())
	}
	sb.WriteString(")")
	return sb.String()
}

func (e *Expression) isExprItem() {}

type IntLiteral struct {
	Loc   Location
	Value int64
}

func (l *IntLiteral) GetLocation() Location {
	return l.Loc
}

func (l *IntLiteral) String() string {
	return strconv.FormatInt(l.Value, 10)
}

func (l *IntLiteral) isExprItem() {}

type FloatLiteral struct {
	Loc   Location
	Value float64
	// Text is the literal as written in the source.
	Text string
}

func (l *FloatLiteral) GetLocation() Location {
	return l.Loc
}

func (l *FloatLiteral) String() string {
	return l.Text
}

func (l *FloatLiteral) isExprItem() {}

type TextLiteral struct {
	Loc   Location
	Value string
}

func (l *TextLiteral) GetLocation() Location {
	return l.Loc
}

func (l *TextLiteral) String() string {
	return strconv.Quote(l.Value)
}

func (l *TextLiteral) isExprItem() {}

type Identifier struct {
	Loc  Location
	Name string
}

func (i *Identifier) GetLocation() Location {
	return i.Loc
}

func (i *Identifier) String() string {
	return i.Name
}

func (i *Identifier) isExprItem() {}

// Identifier doubles as the target of a bare declaration.
func (i *Identifier) isStatement() {}

// Binary operators
const (
	OpAdd      = "+"
	OpSubtract = "-"
	OpMultiply = "*"
	OpDivide   = "/"
	OpModulo   = "%"
)

type BinaryOperator struct {
	Loc      Location
	Operator string
}

func (b *BinaryOperator) GetLocation() Location {
	return b.Loc
}

func (b *BinaryOperator) String() string {
	return b.Operator
}

func (b *BinaryOperator) isExprItem() {}

// Cast converts the operand that follows it: `(int)`, `(float)` or `(string)`.
type Cast struct {
	Loc    Location
	Target types.VariableType
}

func (c *Cast) GetLocation() Location {
	return c.Loc
}

func (c *Cast) String() string {
	return "(" + c.Target.String() + ")"
}

func (c *Cast) isExprItem() {}

// Comparison operators
const (
	CmpLess         = "<"
	CmpGreater      = ">"
	CmpLessEqual    = "<="
	CmpGreaterEqual = ">="
	CmpEqual        = "=="
	CmpNotEqual     = "!="
)

func IsComparisonOperator(op string) bool {
	switch op {
	case CmpLess, CmpGreater, CmpLessEqual, CmpGreaterEqual, CmpEqual, CmpNotEqual:
		return true
	}
	return false
}

// IsOrderingOperator returns true for <, >, <= and >=.
func IsOrderingOperator(op string) bool {
	switch op {
	case CmpLess, CmpGreater, CmpLessEqual, CmpGreaterEqual:
		return true
	}
	return false
}

// Walk calls fn for every statement in stmts, descending into conditional blocks.
func Walk(stmts []Statement, fn func(Statement)) {
	for _, stmt := range stmts {
		fn(stmt)
		if cond, ok := stmt.(*Conditional); ok {
			Walk(cond.Then.Statements, fn)
			if cond.Else != nil {
				Walk(cond.Else.Statements, fn)
			}
		}
	}
}
