package codegen

import (
	"github.com/medusa-lang/medusa/internal/ast"
	"github.com/medusa-lang/medusa/internal/codegen/asm"
	"github.com/medusa-lang/medusa/internal/templates"
	"github.com/medusa-lang/medusa/internal/types"
)

func (c *Context) compileStatements(stmts []ast.Statement) error {
	for _, stmt := range stmts {
		if err := c.compileStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) compileStatement(stmt ast.Statement) error {
	switch stmt := stmt.(type) {
	case *ast.Declaration:
		return c.compileDeclaration(stmt)
	case *ast.Assignment:
		return c.compileAssignment(stmt)
	case *ast.Output:
		return c.compileOutput(stmt)
	case *ast.Input:
		return c.compileInput(stmt)
	case *ast.Conditional:
		return c.compileConditional(stmt)
	case *ast.EndOfInput:
		return nil
	}
	return internalError(stmt, ErrUnexpectedConstruct, "unexpected statement %T", stmt)
}

func (c *Context) compileDeclaration(decl *ast.Declaration) error {
	name := decl.Name()
	if name == "" {
		return internalError(decl, ErrUnexpectedConstruct, "unexpected declaration target %T", decl.Target)
	}
	if err := c.Declare(name, decl.Type); err != nil {
		return semanticError(decl, ErrRedeclared, "%v", err)
	}

	switch target := decl.Target.(type) {
	case *ast.Identifier:
		return nil
	case *ast.Assignment:
		return c.compileAssignment(target)
	case *ast.Input:
		return c.compileInput(target)
	}
	return internalError(decl, ErrUnexpectedConstruct, "unexpected declaration target %T", decl.Target)
}

func (c *Context) compileAssignment(assign *ast.Assignment) error {
	typ, ok := c.Lookup(assign.Name)
	if !ok {
		return semanticError(assign, ErrUndeclaredVariable, "variable %s is not declared", assign.Name)
	}
	valueType, err := c.compileExpression(assign.Value)
	if err != nil {
		return err
	}
	if valueType != typ {
		return semanticError(assign, ErrTypeMismatch, "cannot assign %s to variable %s of type %s", valueType, assign.Name, typ)
	}
	c.emitStore(assign.Name, typ)
	return nil
}

// emitStore pops the top of the stack into a variable. Strings are copied
// byte by byte, at most TEXT_BUFFER_SIZE-1 of them, and always terminated.
func (c *Context) emitStore(name string, typ types.VariableType) {
	if typ != types.Text {
		c.emit(
			asm.Op1("pop", asm.RAX),
			asm.Op2("mov", asm.Rel(variableName(name)), asm.RAX),
		)
		return
	}

	loop := c.NextLabel()
	done := c.NextLabel()
	c.emit(
		asm.Op1("pop", asm.R8),
		asm.Op2("lea", asm.RAX, asm.Rel(variableName(name))),
		asm.Op2("xor", asm.RCX, asm.RCX),
		asm.Label(labelName(loop)),
		asm.Op2("cmp", asm.RCX, asm.Imm(types.TEXT_BUFFER_SIZE-1)),
		asm.Op1("jae", asm.Ref(labelName(done))),
		asm.Op2("mov", asm.DL, asm.MemIndex(asm.R8, asm.RCX, 0)),
		asm.Op2("test", asm.DL, asm.DL),
		asm.Op1("jz", asm.Ref(labelName(done))),
		asm.Op2("mov", asm.MemIndex(asm.RAX, asm.RCX, 0), asm.DL),
		asm.Op1("inc", asm.RCX),
		asm.Op1("jmp", asm.Ref(labelName(loop))),
		asm.Label(labelName(done)),
		asm.Op2("mov", asm.Byte(asm.MemIndex(asm.RAX, asm.RCX, 0)), asm.Imm(0)),
	)
}

func (c *Context) compileOutput(out *ast.Output) error {
	typ, err := c.compileExpression(out.Value)
	if err != nil {
		return err
	}
	if typ != types.Text {
		if err := c.emitConversion(out, typ, types.Text); err != nil {
			return err
		}
	}

	loop := c.NextLabel()
	done := c.NextLabel()
	c.emit(
		asm.Op1("pop", asm.RDX),
		asm.Op2("xor", asm.R8, asm.R8),
		asm.Label(labelName(loop)),
		asm.Op2("cmp", asm.Byte(asm.MemIndex(asm.RDX, asm.R8, 0)), asm.Imm(0)),
		asm.Op1("je", asm.Ref(labelName(done))),
		asm.Op1("inc", asm.R8),
		asm.Op1("jmp", asm.Ref(labelName(loop))),
		asm.Label(labelName(done)),
	)
	c.emitWriteFile()
	c.emitWriteFile(
		asm.Op2("lea", asm.RDX, asm.Rel("newline")),
		asm.Op2("mov", asm.R8, asm.Imm(1)),
	)
	return nil
}

func (c *Context) compileInput(in *ast.Input) error {
	typ, ok := c.Lookup(in.Name)
	if !ok {
		return semanticError(in, ErrUndeclaredVariable, "variable %s is not declared", in.Name)
	}
	if err := c.mergeTemplate(in, templates.Input); err != nil {
		return err
	}
	if typ != types.Text {
		if err := c.emitConversion(in, types.Text, typ); err != nil {
			return err
		}
	}
	c.emitStore(in.Name, typ)
	return nil
}

// Jumps taken when a comparison is false, for signed integers.
var integerSkipJumps = map[string]string{
	ast.CmpGreater:      "jle",
	ast.CmpLess:         "jge",
	ast.CmpGreaterEqual: "jl",
	ast.CmpLessEqual:    "jg",
	ast.CmpEqual:        "jne",
	ast.CmpNotEqual:     "je",
}

// Jumps taken when a comparison is false, after comisd. Unordered operands
// are handled by a separate jp; != is handled in compileConditional.
var floatSkipJumps = map[string]string{
	ast.CmpGreater:      "jbe",
	ast.CmpLess:         "jae",
	ast.CmpGreaterEqual: "jb",
	ast.CmpLessEqual:    "ja",
	ast.CmpEqual:        "jne",
}

func (c *Context) compileConditional(cond *ast.Conditional) error {
	leftType, err := c.compileExpression(cond.Left)
	if err != nil {
		return err
	}
	rightType, err := c.compileExpression(cond.Right)
	if err != nil {
		return err
	}
	if leftType != rightType {
		return semanticError(cond, ErrTypeMismatch, "cannot compare %s with %s", leftType, rightType)
	}
	if leftType == types.Text && ast.IsOrderingOperator(cond.Operator) {
		return semanticError(cond, ErrUnsupportedOperation, "operator %s is not defined for %s", cond.Operator, leftType)
	}
	if !ast.IsComparisonOperator(cond.Operator) {
		return internalError(cond, ErrUnexpectedConstruct, "unknown comparison operator %s", cond.Operator)
	}

	skip := c.NextLabel()
	c.emit(
		asm.Op1("pop", asm.RBX),
		asm.Op1("pop", asm.RAX),
	)
	switch leftType {
	case types.Integer:
		c.emit(
			asm.Op2("cmp", asm.RAX, asm.RBX),
			asm.Op1(integerSkipJumps[cond.Operator], asm.Ref(labelName(skip))),
		)
	case types.Float:
		c.emit(
			asm.Op2("movq", asm.XMM0, asm.RAX),
			asm.Op2("movq", asm.XMM1, asm.RBX),
			asm.Op2("comisd", asm.XMM0, asm.XMM1),
		)
		if cond.Operator == ast.CmpNotEqual {
			// Unordered (NaN) operands are unequal: skip only when ZF=1 and PF=0.
			c.emit(
				asm.Op1("setne", asm.AL),
				asm.Op1("setp", asm.DL),
				asm.Op2("or", asm.AL, asm.DL),
				asm.Op1("jz", asm.Ref(labelName(skip))),
			)
			break
		}
		// NaN makes every other comparison false.
		c.emit(
			asm.Op1("jp", asm.Ref(labelName(skip))),
			asm.Op1(floatSkipJumps[cond.Operator], asm.Ref(labelName(skip))),
		)
	case types.Text:
		c.emitTextEquality(cond.Operator == ast.CmpEqual, skip)
	}

	if err := c.compileStatements(cond.Then.Statements); err != nil {
		return err
	}

	if cond.Else == nil {
		c.emit(asm.Label(labelName(skip)))
		return nil
	}

	skipElse := c.NextLabel()
	c.emit(
		asm.Op1("jmp", asm.Ref(labelName(skipElse))),
		asm.Label(labelName(skip)),
	)
	if err := c.compileStatements(cond.Else.Statements); err != nil {
		return err
	}
	c.emit(asm.Label(labelName(skipElse)))
	return nil
}

// emitTextEquality compares the strings at rax and rbx byte by byte and
// jumps to skip unless they are equal (or unequal, when wantEqual is false).
func (c *Context) emitTextEquality(wantEqual bool, skip int) {
	loop := c.NextLabel()
	matched := c.NextLabel()

	onDifferent, onSame := skip, matched
	if !wantEqual {
		onDifferent, onSame = matched, skip
	}
	c.emit(
		asm.Op2("xor", asm.RCX, asm.RCX),
		asm.Label(labelName(loop)),
		asm.Op2("mov", asm.DL, asm.MemIndex(asm.RAX, asm.RCX, 0)),
		asm.Op2("cmp", asm.DL, asm.MemIndex(asm.RBX, asm.RCX, 0)),
		asm.Op1("jne", asm.Ref(labelName(onDifferent))),
		asm.Op2("test", asm.DL, asm.DL),
		asm.Op1("jz", asm.Ref(labelName(onSame))),
		asm.Op1("inc", asm.RCX),
		asm.Op1("jmp", asm.Ref(labelName(loop))),
		asm.Label(labelName(matched)),
	)
}
