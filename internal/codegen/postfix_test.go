package codegen

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestPostfix(t *testing.T) {
	tests := []struct {
		expr     string
		expected string
	}{
		{`x`, `x`},
		{`"s"`, `"s"`},
		{`1 + 2 * 3`, `1 2 3 * +`},
		{`1 * 2 + 3`, `1 2 * 3 +`},
		{`1 - 2 - 3`, `1 2 - 3 -`},
		{`8 / 4 % 3`, `8 4 / 3 %`},
		{`1 + 2 - 3 * 4 / 5`, `1 2 + 3 4 * 5 / -`},
		{`(float) x * 2.5`, `x (float) 2.5 *`},
		{`a * (int) b`, `a b (int) *`},
		{`2 * (x - 1)`, `2 [x 1 -] *`},
		{`(x - 1) * 2`, `[x 1 -] 2 *`},
		{`(string)(a / b)`, `[a b /] (string)`},
		{`((1 + 2)) * -3`, `[[1 2 +]] -3 *`},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			be.Equal(t, FormatPostfix(Postfix(outputExpression(t, tt.expr))), tt.expected)
		})
	}
}

func TestProgramPostfix(t *testing.T) {
	program := parse(t, `
int x = 1 + 2 * 3;
string s <- @;
if (x > 4 - 1) {
	x = (x + 1) * 2;
} else {
	s -> @;
}
`)
	be.Equal(t, ProgramPostfix(program), []string{
		"1 2 3 * +",
		"x",
		"4 1 -",
		"[x 1 +] 2 *",
		"s",
	})
}
