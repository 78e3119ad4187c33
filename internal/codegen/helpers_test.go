package codegen

import (
	"strings"
	"testing"

	"github.com/medusa-lang/medusa/internal/ast"
	"github.com/medusa-lang/medusa/internal/parser"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, err := parser.Parse(strings.NewReader(src), "test.med")
	if err != nil {
		t.Fatalf("failed to parse %q: %v", src, err)
	}
	return program
}

func generate(t *testing.T, src string, opts Options) (string, error) {
	t.Helper()
	return Generate(parse(t, src), opts)
}

// outputExpression returns the expression of a single "expr -> @;" statement.
func outputExpression(t *testing.T, expr string) *ast.Expression {
	t.Helper()
	program := parse(t, expr+" -> @;")
	out, ok := program.Statements[0].(*ast.Output)
	if !ok {
		t.Fatalf("expected output statement, got %T", program.Statements[0])
	}
	return out.Value
}
