package codegen

import (
	"strings"

	"github.com/medusa-lang/medusa/internal/ast"
)

// Precedence of the bottom of an empty operator stack.
const endMarkerPrecedence = 0

// stackPrecedence is the precedence of an item already waiting on the operator stack.
func stackPrecedence(item ast.ExprItem) int {
	switch item := item.(type) {
	case *ast.BinaryOperator:
		switch item.Operator {
		case ast.OpAdd, ast.OpSubtract:
			return 2
		default:
			return 4
		}
	case *ast.Cast:
		return 6
	case *ast.Expression:
		return 51
	}
	return endMarkerPrecedence
}

// inputPrecedence is the precedence of an incoming item.
func inputPrecedence(item ast.ExprItem) int {
	switch item := item.(type) {
	case *ast.BinaryOperator:
		switch item.Operator {
		case ast.OpAdd, ast.OpSubtract:
			return 1
		default:
			return 3
		}
	case *ast.Cast:
		return 5
	case *ast.Expression:
		return 50
	}
	return endMarkerPrecedence
}

func isOperand(item ast.ExprItem) bool {
	switch item.(type) {
	case *ast.IntLiteral, *ast.FloatLiteral, *ast.TextLiteral, *ast.Identifier:
		return true
	}
	return false
}

// Postfix reorders the items of expr into reverse Polish notation with the
// shunting-yard algorithm. Casts and nested expressions are treated as
// operators, so a nested expression appears as a single item in the result.
func Postfix(expr *ast.Expression) []ast.ExprItem {
	output := make([]ast.ExprItem, 0, len(expr.Items))
	var stack []ast.ExprItem

	top := func() int {
		if len(stack) == 0 {
			return endMarkerPrecedence
		}
		return stackPrecedence(stack[len(stack)-1])
	}

	for _, item := range expr.Items {
		if isOperand(item) {
			output = append(output, item)
			continue
		}
		incoming := inputPrecedence(item)
		for len(stack) > 0 && top() >= incoming {
			output = append(output, stack[len(stack)-1])
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, item)
	}

	for len(stack) > 0 {
		output = append(output, stack[len(stack)-1])
		stack = stack[:len(stack)-1]
	}
	return output
}

// FormatPostfix renders a postfix sequence with nested expressions expanded in brackets.
func FormatPostfix(items []ast.ExprItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		if nested, ok := item.(*ast.Expression); ok {
			parts[i] = "[" + FormatPostfix(Postfix(nested)) + "]"
		} else {
			parts[i] = item.String()
		}
	}
	return strings.Join(parts, " ")
}

// ProgramPostfix lists the postfix form of every expression in program, in
// source order. Conditions contribute their left and right sides.
func ProgramPostfix(program *ast.Program) []string {
	var result []string
	add := func(expr *ast.Expression) {
		result = append(result, FormatPostfix(Postfix(expr)))
	}
	ast.Walk(program.Statements, func(stmt ast.Statement) {
		switch stmt := stmt.(type) {
		case *ast.Declaration:
			if assign, ok := stmt.Target.(*ast.Assignment); ok {
				add(assign.Value)
			}
		case *ast.Assignment:
			add(stmt.Value)
		case *ast.Output:
			add(stmt.Value)
		case *ast.Conditional:
			add(stmt.Left)
			add(stmt.Right)
		}
	})
	return result
}
