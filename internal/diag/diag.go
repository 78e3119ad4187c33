// Package diag defines the error values reported by the Medusa compiler.
package diag

import (
	"errors"
	"fmt"

	"github.com/medusa-lang/medusa/internal/lexer"
)

// Kind classifies a compilation failure.
type Kind int

const (
	KindSyntax Kind = iota
	KindSemantic
	KindToolchain
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax error"
	case KindSemantic:
		return "semantic error"
	case KindToolchain:
		return "toolchain error"
	case KindInternal:
		return "internal error"
	default:
		return "unknown error"
	}
}

// CompileError is the single error type surfaced by the compiler entry points.
// Err optionally holds a sentinel or underlying cause that can be matched with errors.Is.
type CompileError struct {
	Kind Kind
	Loc  lexer.Location
	Msg  string
	Err  error
}

func (e *CompileError) Error() string {
	if e.Loc.Line > 0 {
		return fmt.Sprintf("%s: %s", e.Loc, e.Msg)
	}
	return e.Msg
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Errorf creates a CompileError of the given kind anchored at loc.
func Errorf(kind Kind, loc lexer.Location, cause error, format string, args ...any) *CompileError {
	return &CompileError{
		Kind: kind,
		Loc:  loc,
		Msg:  fmt.Sprintf(format, args...),
		Err:  cause,
	}
}

// Wrap turns an arbitrary error into a CompileError of the given kind.
// Errors that already are CompileErrors are returned unchanged.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	var ce *CompileError
	if errors.As(err, &ce) {
		return err
	}
	return &CompileError{Kind: kind, Msg: err.Error(), Err: err}
}

// KindOf reports the kind of a CompileError anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return 0, false
}
