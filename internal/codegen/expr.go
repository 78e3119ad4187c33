package codegen

import (
	"math"
	"strconv"

	"github.com/medusa-lang/medusa/internal/ast"
	"github.com/medusa-lang/medusa/internal/codegen/asm"
	"github.com/medusa-lang/medusa/internal/types"
	"github.com/medusa-lang/medusa/internal/util"
)

// compileExpression emits code that leaves the value of expr on top of the
// machine stack and returns its static type.
func (c *Context) compileExpression(expr *ast.Expression) (types.VariableType, error) {
	postfix := Postfix(expr)
	c.logger.Debug("postfix", "loc", expr.Loc, "expr", expr, "order", FormatPostfix(postfix))

	var stack []types.VariableType
	pop := func() types.VariableType {
		typ := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return typ
	}

	for _, item := range postfix {
		switch item := item.(type) {
		case *ast.IntLiteral:
			c.emit(
				asm.Op2("mov", asm.RAX, asm.Imm(item.Value)),
				asm.Op1("push", asm.RAX),
			)
			stack = append(stack, types.Integer)

		case *ast.FloatLiteral:
			c.emit(
				asm.Op2("mov", asm.RAX, asm.Hex(math.Float64bits(item.Value))).WithComment(item.Text),
				asm.Op1("push", asm.RAX),
			)
			stack = append(stack, types.Float)

		case *ast.TextLiteral:
			c.emitTextLiteral(item)
			stack = append(stack, types.Text)

		case *ast.Identifier:
			typ, ok := c.Lookup(item.Name)
			if !ok {
				return 0, semanticError(item, ErrUndeclaredVariable, "variable %s is not declared", item.Name)
			}
			op := "mov"
			if typ == types.Text {
				op = "lea"
			}
			c.emit(
				asm.Op2(op, asm.RAX, asm.Rel(variableName(item.Name))),
				asm.Op1("push", asm.RAX),
			)
			stack = append(stack, typ)

		case *ast.Expression:
			typ, err := c.compileExpression(item)
			if err != nil {
				return 0, err
			}
			stack = append(stack, typ)

		case *ast.BinaryOperator:
			if len(stack) < 2 {
				return 0, internalError(item, ErrStackImbalance, "operator %s needs two operands", item.Operator)
			}
			right := pop()
			left := pop()
			if left != right {
				return 0, semanticError(item, ErrTypeMismatch, "operator %s applied to %s and %s", item.Operator, left, right)
			}
			if !left.IsNumeric() {
				return 0, semanticError(item, ErrNonNumericOperand, "operator %s applied to %s", item.Operator, left)
			}
			if err := c.emitArithmetic(item, left); err != nil {
				return 0, err
			}
			stack = append(stack, left)

		case *ast.Cast:
			if len(stack) < 1 {
				return 0, internalError(item, ErrStackImbalance, "cast %s needs an operand", item)
			}
			source := pop()
			if source != item.Target {
				if err := c.emitConversion(item, source, item.Target); err != nil {
					return 0, err
				}
			}
			stack = append(stack, item.Target)

		default:
			return 0, internalError(item, ErrUnexpectedConstruct, "unexpected expression item %T", item)
		}
	}

	if len(stack) != 1 {
		return 0, internalError(expr, ErrStackImbalance, "expression left %d values on the stack", len(stack))
	}
	return stack[0], nil
}

// emitTextLiteral copies a literal from the data section into a fresh heap
// buffer and pushes the buffer's address.
func (c *Context) emitTextLiteral(lit *ast.TextLiteral) {
	slot := c.NextSlot()
	loop := c.NextLabel()
	done := c.NextLabel()

	c.emitData("%s db %s", slotName(slot), util.NasmBytes(lit.Value))

	c.emitHeapAlloc(max(types.TEXT_HEAP_SIZE, len(lit.Value)+1))
	c.emit(
		asm.Op2("lea", asm.RSI, asm.Rel(slotName(slot))).WithComment(strconv.Quote(lit.Value)),
		asm.Op2("xor", asm.RCX, asm.RCX),
		asm.Label(labelName(loop)),
		asm.Op2("mov", asm.DL, asm.MemIndex(asm.RSI, asm.RCX, 0)),
		asm.Op2("mov", asm.MemIndex(asm.RAX, asm.RCX, 0), asm.DL),
		asm.Op2("test", asm.DL, asm.DL),
		asm.Op1("jz", asm.Ref(labelName(done))),
		asm.Op1("inc", asm.RCX),
		asm.Op1("jmp", asm.Ref(labelName(loop))),
		asm.Label(labelName(done)),
		asm.Op1("push", asm.RAX),
	)
}

func (c *Context) emitArithmetic(op *ast.BinaryOperator, typ types.VariableType) error {
	if typ == types.Float && op.Operator == ast.OpModulo {
		return semanticError(op, ErrUnsupportedOperation, "operator %% is not defined for %s", typ)
	}
	c.emit(
		asm.Op1("pop", asm.RBX),
		asm.Op1("pop", asm.RAX),
	)

	if typ == types.Integer {
		switch op.Operator {
		case ast.OpAdd:
			c.emit(asm.Op2("add", asm.RAX, asm.RBX))
		case ast.OpSubtract:
			c.emit(asm.Op2("sub", asm.RAX, asm.RBX))
		case ast.OpMultiply:
			c.emit(asm.Op2("imul", asm.RAX, asm.RBX))
		case ast.OpDivide:
			c.emit(asm.Op0("cqo"), asm.Op1("idiv", asm.RBX))
		case ast.OpModulo:
			c.emit(asm.Op0("cqo"), asm.Op1("idiv", asm.RBX), asm.Op1("push", asm.RDX))
			return nil
		default:
			return internalError(op, ErrUnexpectedConstruct, "unknown operator %s", op.Operator)
		}
		c.emit(asm.Op1("push", asm.RAX))
		return nil
	}

	var instr string
	switch op.Operator {
	case ast.OpAdd:
		instr = "addpd"
	case ast.OpSubtract:
		instr = "subpd"
	case ast.OpMultiply:
		instr = "mulpd"
	case ast.OpDivide:
		instr = "divpd"
	default:
		return internalError(op, ErrUnexpectedConstruct, "unknown operator %s", op.Operator)
	}
	c.emit(
		asm.Op2("movq", asm.XMM2, asm.RBX),
		asm.Op2("movq", asm.XMM1, asm.RAX),
		asm.Op2(instr, asm.XMM1, asm.XMM2),
		asm.Op2("movq", asm.RAX, asm.XMM1),
		asm.Op1("push", asm.RAX),
	)
	return nil
}
