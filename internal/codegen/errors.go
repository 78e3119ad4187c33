package codegen

import (
	"errors"

	"github.com/medusa-lang/medusa/internal/ast"
	"github.com/medusa-lang/medusa/internal/diag"
)

// Semantic errors
var (
	ErrUndeclaredVariable    = errors.New("undeclared variable")
	ErrTypeMismatch          = errors.New("type mismatch")
	ErrNonNumericOperand     = errors.New("non-numeric operand")
	ErrUnsupportedOperation  = errors.New("unsupported operation")
	ErrUnsupportedConversion = errors.New("unsupported conversion")
	ErrRedeclared            = errors.New("variable redeclared")
)

// Internal errors
var (
	ErrUnexpectedConstruct = errors.New("unexpected construct")
	ErrStackImbalance      = errors.New("operand stack imbalance")
)

func semanticError(node ast.AstNode, cause error, format string, args ...any) error {
	return diag.Errorf(diag.KindSemantic, node.GetLocation(), cause, format, args...)
}

func internalError(node ast.AstNode, cause error, format string, args ...any) error {
	return diag.Errorf(diag.KindInternal, node.GetLocation(), cause, format, args...)
}
