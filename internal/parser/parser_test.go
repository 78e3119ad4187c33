package parser

import (
	"strings"
	"testing"

	"github.com/medusa-lang/medusa/internal/ast"
	"github.com/medusa-lang/medusa/internal/diag"
	"github.com/medusa-lang/medusa/internal/types"
	"github.com/nalgeon/be"
)

func TestParseProgram(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name:     "empty program",
			src:      ``,
			expected: `(program (eoi))`,
		},
		{
			name:     "bare declaration",
			src:      `int x;`,
			expected: `(program (decl int x) (eoi))`,
		},
		{
			name:     "declaration with initializer",
			src:      `int x = 5;`,
			expected: `(program (decl int (assign x (expr 5))) (eoi))`,
		},
		{
			name:     "declaration with input",
			src:      `string s <- @;`,
			expected: `(program (decl string (input s)) (eoi))`,
		},
		{
			name:     "assignment and output",
			src:      "float f;\nf = 1.5;\nf -> @;",
			expected: `(program (decl float f) (assign f (expr 1.5)) (output (expr f)) (eoi))`,
		},
		{
			name:     "input statement",
			src:      `x <- @;`,
			expected: `(program (input x) (eoi))`,
		},
		{
			name:     "arithmetic output",
			src:      `x + 3 * y % 2 -> @;`,
			expected: `(program (output (expr x + 3 * y % 2)) (eoi))`,
		},
		{
			name:     "cast binds to the next operand",
			src:      `(float) x * 2.5 -> @;`,
			expected: `(program (output (expr (float) x * 2.5)) (eoi))`,
		},
		{
			name:     "cast of a nested expression",
			src:      `(string)(a / b) -> @;`,
			expected: `(program (output (expr (string) (expr a / b))) (eoi))`,
		},
		{
			name:     "nested expression",
			src:      `2 * (x - 1) -> @;`,
			expected: `(program (output (expr 2 * (expr x - 1))) (eoi))`,
		},
		{
			name:     "negative literals",
			src:      `x - -3 + -0.5 -> @;`,
			expected: `(program (output (expr x - -3 + -0.5)) (eoi))`,
		},
		{
			name:     "text literal with escape",
			src:      `"hi\n" -> @;`,
			expected: `(program (output (expr "hi\n")) (eoi))`,
		},
		{
			name:     "comments are ignored",
			src:      "// header\nint x; // trailing\n",
			expected: `(program (decl int x) (eoi))`,
		},
		{
			name:     "if without else",
			src:      `if (x > 1) { x -> @; }`,
			expected: `(program (if (> (expr x) (expr 1)) (block (output (expr x)))) (eoi))`,
		},
		{
			name:     "if with else",
			src:      `if (a == b) { 1 -> @; } else { 2 -> @; }`,
			expected: `(program (if (== (expr a) (expr b)) (block (output (expr 1))) (block (output (expr 2)))) (eoi))`,
		},
		{
			name:     "else if chain",
			src:      `if (a > 1) {} else if (a < 1) {} else {}`,
			expected: `(program (if (> (expr a) (expr 1)) (block) (block (if (< (expr a) (expr 1)) (block) (block)))) (eoi))`,
		},
		{
			name:     "less than a negative literal",
			src:      `if (x<-1) { x -> @; }`,
			expected: `(program (if (< (expr x) (expr -1)) (block (output (expr x)))) (eoi))`,
		},
		{
			name:     "nested conditionals",
			src:      `if (a != 0) { if (b <= 2.0) { int c; } }`,
			expected: `(program (if (!= (expr a) (expr 0)) (block (if (<= (expr b) (expr 2.0)) (block (decl int c))))) (eoi))`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			program, err := Parse(strings.NewReader(tc.src), "test.med")
			be.Err(t, err, nil)
			be.Equal(t, program.String(), tc.expected)
		})
	}
}

func TestParseDeclarationNodes(t *testing.T) {
	program, err := Parse(strings.NewReader("int x = 5;\nstring s <- @;"), "test.med")
	be.Err(t, err, nil)
	be.Equal(t, len(program.Statements), 3)

	decl, ok := program.Statements[0].(*ast.Declaration)
	be.True(t, ok)
	be.Equal(t, decl.Type, types.Integer)
	be.Equal(t, decl.Name(), "x")
	be.Equal(t, decl.Loc, ast.Location{Filename: "test.med", Line: 1, Col: 1})

	decl, ok = program.Statements[1].(*ast.Declaration)
	be.True(t, ok)
	be.Equal(t, decl.Type, types.Text)
	be.Equal(t, decl.Name(), "s")
	input, ok := decl.Target.(*ast.Input)
	be.True(t, ok)
	be.Equal(t, input.Loc, ast.Location{Filename: "test.med", Line: 2, Col: 8})
}

func TestParseLiteralValues(t *testing.T) {
	program, err := Parse(strings.NewReader(`-9223372036854775808 + 17.65 -> @;`), "test.med")
	be.Err(t, err, nil)

	out := program.Statements[0].(*ast.Output)
	be.Equal(t, len(out.Value.Items), 3)
	be.Equal(t, out.Value.Items[0].(*ast.IntLiteral).Value, int64(-9223372036854775808))
	be.Equal(t, out.Value.Items[2].(*ast.FloatLiteral).Value, 17.65)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		msg  string
	}{
		{"missing variable name", `int;`, "test.med:1:4: expected variable name"},
		{"number as variable name", `int 5;`, "test.med:1:5: expected variable name"},
		{"missing initializer", `x = ;`, "expected operand"},
		{"missing output target", `x -> ;`, "expected '@'"},
		{"missing semicolon", `x -> @`, "expected ';'"},
		{"condition without operator", `if (x) {}`, "expected comparison operator"},
		{"chained casts", `(int)(float) x -> @;`, "chained casts"},
		{"unary minus on identifier", `-x -> @;`, "unary minus"},
		{"unterminated block", `if (x < 1) { x -> @;`, "expected '}'"},
		{"integer overflow", `99999999999999999999 -> @;`, "out of range"},
		{"input from expression", `x <- 5;`, "expected '@'"},
		{"lexer error", `"abc`, "unterminated string literal"},
		{"stray else", `else {}`, "expected operand"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.src), "test.med")
			be.Err(t, err, tc.msg)
			kind, ok := diag.KindOf(err)
			be.True(t, ok)
			be.Equal(t, kind, diag.KindSyntax)
		})
	}
}
