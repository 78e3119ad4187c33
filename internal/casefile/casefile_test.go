package casefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

const sample = "# Arithmetic\n" +
	"\n" +
	"Prose between cases is ignored.\n" +
	"\n" +
	"## Test: integer sum\n" +
	"\n" +
	"```medusa\n" +
	"1 + 2 -> @;\n" +
	"```\n" +
	"\n" +
	"```postfix\n" +
	"1 2 +\n" +
	"```\n" +
	"\n" +
	"```execute\n" +
	"Medusa 1.0\n" +
	"3\n" +
	"Program ended\n" +
	"```\n" +
	"\n" +
	"## Test: echo\n" +
	"\n" +
	"```medusa\n" +
	"string s <- @;\n" +
	"s -> @;\n" +
	"```\n" +
	"\n" +
	"```stdin\n" +
	"hello\n" +
	"```\n" +
	"\n" +
	"```asm-contains\n" +
	"    call ReadFile\n" +
	"```\n" +
	"\n" +
	"```\n" +
	"plain blocks are allowed\n" +
	"```\n"

func TestExtract(t *testing.T) {
	cases, err := Extract([]byte(sample))
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	sum := cases[0]
	be.Equal(t, sum.Name, "integer sum")
	be.Equal(t, sum.Program, "1 + 2 -> @;\n")
	be.Equal(t, sum.Stdin, "")
	be.Equal(t, len(sum.Assertions), 2)
	be.Equal(t, sum.Assertions[0].Type, AssertionPostfix)
	be.Equal(t, sum.Assertions[0].Content, "1 2 +")
	be.Equal(t, sum.Assertions[0].Line, 12)
	be.Equal(t, sum.Assertions[1].Type, AssertionExecute)
	be.Equal(t, sum.Assertions[1].Content, "Medusa 1.0\n3\nProgram ended")
	be.True(t, sum.Has(AssertionExecute))
	be.True(t, !sum.Has(AssertionAST))

	echo := cases[1]
	be.Equal(t, echo.Name, "echo")
	be.Equal(t, echo.Stdin, "hello\n")
	be.Equal(t, echo.Assertions[0].Content, "    call ReadFile")
}

func TestExtractErrors(t *testing.T) {
	testCases := []struct {
		name   string
		source string
		msg    string
	}{
		{"fence outside a case", "```medusa\nx -> @;\n```\n", "outside of a test case"},
		{"unknown language", "## Test: a\n\n```python\nprint(1)\n```\n", "unknown fence language 'python'"},
		{"no program", "## Test: a\n\n```ast\n(program (eoi))\n```\n", "has no medusa fence"},
		{"no assertions", "## Test: a\n\n```medusa\nx -> @;\n```\n", "has no assertion fences"},
		{"two programs", "## Test: a\n\n```medusa\n1 -> @;\n```\n\n```medusa\n2 -> @;\n```\n", "multiple program fences"},
		{"invalid case before the next heading", "## Test: a\n\n```medusa\n1 -> @;\n```\n\n## Test: b\n", "test 'a' has no assertion fences"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Extract([]byte(tc.source))
			be.Err(t, err, tc.msg)
		})
	}
}

func TestEmptyProgramWithCompileError(t *testing.T) {
	cases, err := Extract([]byte("## Test: empty\n\n```medusa\n```\n\n```compile-error\nnothing\n```\n"))
	be.Err(t, err, nil)
	be.Equal(t, cases[0].Program, "")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.md")
	be.Err(t, os.WriteFile(path, []byte(sample), 0o644), nil)

	cases, err := Load(path)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.md"))
	be.True(t, err != nil)

	bad := filepath.Join(t.TempDir(), "bad.md")
	be.Err(t, os.WriteFile(bad, []byte("```ast\nx\n```\n"), 0o644), nil)
	_, err = Load(bad)
	be.Err(t, err, "bad.md")
}
