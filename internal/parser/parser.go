package parser

import (
	"io"
	"strconv"

	"github.com/medusa-lang/medusa/internal/ast"
	"github.com/medusa-lang/medusa/internal/diag"
	"github.com/medusa-lang/medusa/internal/lexer"
	"github.com/medusa-lang/medusa/internal/types"
)

type Parser struct {
	lexer   *lexer.Lexer
	lexemes []lexer.Lexeme
	pos     int
}

func New(lex *lexer.Lexer) *Parser {
	return &Parser{lexer: lex}
}

// Parse reads a whole Medusa program from r.
func Parse(r io.Reader, filename string) (*ast.Program, error) {
	return New(lexer.New(r, filename)).ParseProgram()
}

// fill makes sure the lexeme at p.pos+offset is buffered.
func (p *Parser) fill(offset int) error {
	for p.pos+offset >= len(p.lexemes) {
		lex, err := p.lexer.Next()
		if err != nil {
			return diag.Wrap(diag.KindSyntax, err)
		}
		p.lexemes = append(p.lexemes, lex)
	}
	return nil
}

func (p *Parser) consume() (lexer.Lexeme, error) {
	if err := p.fill(0); err != nil {
		return lexer.Lexeme{}, err
	}
	lex := p.lexemes[p.pos]
	// Never run past EOF.
	if lex.Type != lexer.LEX_EOF {
		p.pos++
	}
	return lex, nil
}

func (p *Parser) peek() (lexer.Lexeme, error) {
	return p.peekAt(0)
}

func (p *Parser) peekAt(offset int) (lexer.Lexeme, error) {
	if err := p.fill(offset); err != nil {
		return lexer.Lexeme{}, err
	}
	return p.lexemes[p.pos+offset], nil
}

func (p *Parser) errorf(loc lexer.Location, format string, args ...any) error {
	return diag.Errorf(diag.KindSyntax, loc, nil, format, args...)
}

func (p *Parser) expectPunctuation(s string) (lexer.Lexeme, error) {
	lex, err := p.consume()
	if err != nil {
		return lex, err
	}
	if !lex.IsPunctuation(s) {
		return lex, p.errorf(lex.Loc, "expected '%s', got %v", s, lex)
	}
	return lex, nil
}

func (p *Parser) expectOperator(s string) (lexer.Lexeme, error) {
	lex, err := p.consume()
	if err != nil {
		return lex, err
	}
	if !lex.IsOperator(s) {
		return lex, p.errorf(lex.Loc, "expected '%s', got %v", s, lex)
	}
	return lex, nil
}

func (p *Parser) expectIdent() (lexer.Lexeme, error) {
	lex, err := p.consume()
	if err != nil {
		return lex, err
	}
	if lex.Type != lexer.LEX_IDENT {
		return lex, p.errorf(lex.Loc, "expected identifier, got %v", lex)
	}
	return lex, nil
}

func (p *Parser) ParseProgram() (*ast.Program, error) {
	first, err := p.peek()
	if err != nil {
		return nil, err
	}
	program := &ast.Program{Loc: first.Loc, Statements: []ast.Statement{}}

	for {
		lex, err := p.peek()
		if err != nil {
			return nil, err
		}
		if lex.Type == lexer.LEX_EOF {
			program.Statements = append(program.Statements, &ast.EndOfInput{Loc: lex.Loc})
			return program, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	lex, err := p.peek()
	if err != nil {
		return nil, err
	}

	if lex.Type == lexer.LEX_KEYWORD {
		if _, ok := types.FromKeyword(lex.Str); ok {
			return p.parseDeclaration()
		}
		if lex.Str == "if" {
			return p.parseConditional()
		}
	}

	if lex.Type == lexer.LEX_IDENT {
		next, err := p.peekAt(1)
		if err != nil {
			return nil, err
		}
		if next.IsOperator("=") {
			return p.parseAssignment()
		}
		if next.IsOperator("<-") {
			return p.parseInput()
		}
	}

	return p.parseOutput()
}

// parseDeclaration parses one of:
//
//	type name;
//	type name = expr;
//	type name <- @;
func (p *Parser) parseDeclaration() (*ast.Declaration, error) {
	typeLex, err := p.consume()
	if err != nil {
		return nil, err
	}
	typ, _ := types.FromKeyword(typeLex.Str)

	name, err := p.peek()
	if err != nil {
		return nil, err
	}
	if name.Type != lexer.LEX_IDENT {
		return nil, p.errorf(name.Loc, "expected variable name, got %v", name)
	}

	next, err := p.peekAt(1)
	if err != nil {
		return nil, err
	}

	var target ast.Statement
	switch {
	case next.IsPunctuation(";"):
		p.pos += 2
		target = &ast.Identifier{Loc: name.Loc, Name: name.Str}
	case next.IsOperator("="):
		target, err = p.parseAssignment()
	case next.IsOperator("<-"):
		target, err = p.parseInput()
	default:
		return nil, p.errorf(next.Loc, "expected ';', '=' or '<-' after variable name, got %v", next)
	}
	if err != nil {
		return nil, err
	}

	return &ast.Declaration{Loc: typeLex.Loc, Type: typ, Target: target}, nil
}

func (p *Parser) parseAssignment() (*ast.Assignment, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectOperator("="); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation(";"); err != nil {
		return nil, err
	}
	return &ast.Assignment{Loc: name.Loc, Name: name.Str, Value: value}, nil
}

func (p *Parser) parseInput() (*ast.Input, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectOperator("<-"); err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation("@"); err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation(";"); err != nil {
		return nil, err
	}
	return &ast.Input{Loc: name.Loc, Name: name.Str}, nil
}

func (p *Parser) parseOutput() (*ast.Output, error) {
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectOperator("->"); err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation("@"); err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation(";"); err != nil {
		return nil, err
	}
	return &ast.Output{Loc: value.Loc, Value: value}, nil
}

func (p *Parser) parseConditional() (*ast.Conditional, error) {
	ifLex, err := p.consume()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation("("); err != nil {
		return nil, err
	}
	left, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	opLex, err := p.consume()
	if err != nil {
		return nil, err
	}
	op := opLex.Str
	switch {
	case opLex.IsOperator("<-"):
		// "x<-1" is lexed as an input arrow; inside a condition it means x < -1.
		op = ast.CmpLess
		minus := lexer.Lexeme{
			Type: lexer.LEX_OPERATOR,
			Str:  "-",
			Loc:  lexer.Location{Filename: opLex.Loc.Filename, Line: opLex.Loc.Line, Col: opLex.Loc.Col + 1},
		}
		p.lexemes = append(p.lexemes[:p.pos], append([]lexer.Lexeme{minus}, p.lexemes[p.pos:]...)...)
	case opLex.Type != lexer.LEX_OPERATOR || !ast.IsComparisonOperator(opLex.Str):
		return nil, p.errorf(opLex.Loc, "expected comparison operator, got %v", opLex)
	}

	right, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation(")"); err != nil {
		return nil, err
	}

	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	cond := &ast.Conditional{
		Loc:      ifLex.Loc,
		Left:     left,
		Operator: op,
		Right:    right,
		Then:     then,
	}

	lex, err := p.peek()
	if err != nil {
		return nil, err
	}
	if !lex.IsKeyword("else") {
		return cond, nil
	}
	p.pos++

	lex, err = p.peek()
	if err != nil {
		return nil, err
	}
	if lex.IsKeyword("if") {
		nested, err := p.parseConditional()
		if err != nil {
			return nil, err
		}
		cond.Else = &ast.Block{Loc: nested.Loc, Statements: []ast.Statement{nested}}
		return cond, nil
	}

	cond.Else, err = p.parseBlock()
	if err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.expectPunctuation("{")
	if err != nil {
		return nil, err
	}
	block := &ast.Block{Loc: open.Loc, Statements: []ast.Statement{}}

	for {
		lex, err := p.peek()
		if err != nil {
			return nil, err
		}
		if lex.IsPunctuation("}") {
			break
		}
		if lex.Type == lexer.LEX_EOF {
			return nil, p.errorf(lex.Loc, "unexpected end of input, expected '}'")
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}

	// consume '}'
	p.pos++
	return block, nil
}

func isArithmeticOperator(lex lexer.Lexeme) bool {
	if lex.Type != lexer.LEX_OPERATOR {
		return false
	}
	switch lex.Str {
	case ast.OpAdd, ast.OpSubtract, ast.OpMultiply, ast.OpDivide, ast.OpModulo:
		return true
	}
	return false
}

// parseExpression collects operand (operator operand)* into a flat item list.
// Precedence is resolved later by the code generator.
func (p *Parser) parseExpression() (*ast.Expression, error) {
	first, err := p.peek()
	if err != nil {
		return nil, err
	}
	expr := &ast.Expression{Loc: first.Loc}

	for {
		if err := p.parseOperand(expr); err != nil {
			return nil, err
		}

		lex, err := p.peek()
		if err != nil {
			return nil, err
		}
		if !isArithmeticOperator(lex) {
			return expr, nil
		}
		p.pos++
		expr.Items = append(expr.Items, &ast.BinaryOperator{Loc: lex.Loc, Operator: lex.Str})
	}
}

// parseOperand appends one operand to expr, preceded by at most one cast.
func (p *Parser) parseOperand(expr *ast.Expression) error {
	if cast, ok, err := p.tryParseCast(); err != nil {
		return err
	} else if ok {
		expr.Items = append(expr.Items, cast)
		if _, chained, err := p.tryParseCast(); err != nil {
			return err
		} else if chained {
			return p.errorf(cast.Loc, "chained casts must be parenthesized")
		}
	}

	lex, err := p.consume()
	if err != nil {
		return err
	}

	switch {
	case lex.Type == lexer.LEX_INT:
		return p.appendInt(expr, lex, lex.Str)
	case lex.Type == lexer.LEX_FLOAT:
		return p.appendFloat(expr, lex, lex.Str)
	case lex.Type == lexer.LEX_STRING:
		expr.Items = append(expr.Items, &ast.TextLiteral{Loc: lex.Loc, Value: lex.Str})
		return nil
	case lex.Type == lexer.LEX_IDENT:
		expr.Items = append(expr.Items, &ast.Identifier{Loc: lex.Loc, Name: lex.Str})
		return nil
	case lex.IsOperator("-"):
		num, err := p.consume()
		if err != nil {
			return err
		}
		switch num.Type {
		case lexer.LEX_INT:
			return p.appendInt(expr, lex, "-"+num.Str)
		case lexer.LEX_FLOAT:
			return p.appendFloat(expr, lex, "-"+num.Str)
		}
		return p.errorf(lex.Loc, "unary minus is only allowed before a numeric literal, got %v", num)
	case lex.IsPunctuation("("):
		nested, err := p.parseExpression()
		if err != nil {
			return err
		}
		nested.Loc = lex.Loc
		if _, err := p.expectPunctuation(")"); err != nil {
			return err
		}
		expr.Items = append(expr.Items, nested)
		return nil
	}

	return p.errorf(lex.Loc, "expected operand, got %v", lex)
}

// tryParseCast consumes "(type)" if it comes next.
func (p *Parser) tryParseCast() (*ast.Cast, bool, error) {
	open, err := p.peek()
	if err != nil {
		return nil, false, err
	}
	if !open.IsPunctuation("(") {
		return nil, false, nil
	}
	typeLex, err := p.peekAt(1)
	if err != nil {
		return nil, false, err
	}
	if typeLex.Type != lexer.LEX_KEYWORD {
		return nil, false, nil
	}
	typ, ok := types.FromKeyword(typeLex.Str)
	if !ok {
		return nil, false, p.errorf(typeLex.Loc, "expected type name in cast, got %v", typeLex)
	}
	p.pos += 2
	if _, err := p.expectPunctuation(")"); err != nil {
		return nil, false, err
	}
	return &ast.Cast{Loc: open.Loc, Target: typ}, true, nil
}

func (p *Parser) appendInt(expr *ast.Expression, lex lexer.Lexeme, text string) error {
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return p.errorf(lex.Loc, "integer literal %s is out of range", text)
	}
	expr.Items = append(expr.Items, &ast.IntLiteral{Loc: lex.Loc, Value: value})
	return nil
}

func (p *Parser) appendFloat(expr *ast.Expression, lex lexer.Lexeme, text string) error {
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return p.errorf(lex.Loc, "invalid float literal %s", text)
	}
	expr.Items = append(expr.Items, &ast.FloatLiteral{Loc: lex.Loc, Value: value, Text: text})
	return nil
}
