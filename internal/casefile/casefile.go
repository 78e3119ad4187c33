// Package casefile extracts compiler test cases from Markdown documents.
//
// A case starts at a heading "Test: <name>" and is followed by fenced code
// blocks: exactly one `medusa` block holding the program, an optional
// `stdin` block, and one or more assertion blocks.
package casefile

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	programFence = "medusa"
	stdinFence   = "stdin"
	testPrefix   = "Test: "
)

type AssertionType string

const (
	// AssertionAST compares the s-expression form of the parsed program.
	AssertionAST AssertionType = "ast"
	// AssertionPostfix compares the postfix forms, one expression per line.
	AssertionPostfix AssertionType = "postfix"
	// AssertionAsmContains requires the block to appear verbatim in the generated assembly.
	AssertionAsmContains AssertionType = "asm-contains"
	// AssertionCompileError requires compilation to fail with a message containing the block.
	AssertionCompileError AssertionType = "compile-error"
	// AssertionExecute compares the standard output of the built executable.
	AssertionExecute AssertionType = "execute"
)

type Assertion struct {
	Type    AssertionType
	Content string
	Line    int
}

type Case struct {
	Name       string
	Line       int
	Program    string
	Stdin      string
	Assertions []Assertion
}

// Has reports whether the case carries an assertion of type typ.
func (c *Case) Has(typ AssertionType) bool {
	for _, a := range c.Assertions {
		if a.Type == typ {
			return true
		}
	}
	return false
}

// Load reads and extracts the cases of a Markdown file.
func Load(path string) ([]Case, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cases, err := Extract(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

// Extract parses a Markdown document and returns its cases in order.
func Extract(source []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cases []Case
	var current *Case

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, source)
			if !strings.HasPrefix(heading, testPrefix) {
				return ast.WalkContinue, nil
			}
			if current != nil {
				if err := validate(current); err != nil {
					return ast.WalkStop, err
				}
				cases = append(cases, *current)
			}
			current = &Case{
				Name: strings.TrimSpace(strings.TrimPrefix(heading, testPrefix)),
				Line: lineOf(n, source),
			}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			line := lineOf(n, source)
			if language == "" {
				return ast.WalkContinue, nil
			}
			if !isKnownFence(language) {
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s'", line, language)
			}
			if current == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of a test case", line, language)
			}
			content := blockContent(n, source)

			switch language {
			case programFence:
				if current.Program != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple program fences in test '%s'", line, current.Name)
				}
				current.Program = content
			case stdinFence:
				current.Stdin = content
			default:
				current.Assertions = append(current.Assertions, Assertion{
					Type:    AssertionType(language),
					Content: strings.TrimRight(content, "\n"),
					Line:    line,
				})
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if current != nil {
		if err := validate(current); err != nil {
			return nil, err
		}
		cases = append(cases, *current)
	}
	return cases, nil
}

func isKnownFence(language string) bool {
	switch AssertionType(language) {
	case AssertionAST, AssertionPostfix, AssertionAsmContains, AssertionCompileError, AssertionExecute:
		return true
	}
	return language == programFence || language == stdinFence
}

func validate(c *Case) error {
	if strings.TrimSpace(c.Program) == "" && !c.Has(AssertionCompileError) {
		return fmt.Errorf("line %d: test '%s' has no %s fence", c.Line, c.Name, programFence)
	}
	if len(c.Assertions) == 0 {
		return fmt.Errorf("line %d: test '%s' has no assertion fences", c.Line, c.Name)
	}
	return nil
}

func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func blockContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

// lineOf returns the 1-based line of a node's first content line.
func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 0
	}
	start := node.Lines().At(0).Start
	return bytes.Count(source[:min(start, len(source))], []byte("\n")) + 1
}
