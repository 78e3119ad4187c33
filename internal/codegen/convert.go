package codegen

import (
	"github.com/medusa-lang/medusa/internal/ast"
	"github.com/medusa-lang/medusa/internal/codegen/asm"
	"github.com/medusa-lang/medusa/internal/templates"
	"github.com/medusa-lang/medusa/internal/types"
)

const intTextBufferSize = 32

// emitConversion pops a value of type from and pushes it converted to type to.
func (c *Context) emitConversion(node ast.AstNode, from, to types.VariableType) error {
	switch {
	case from == types.Integer && to == types.Float:
		return c.mergeTemplate(node, templates.IntToFloat)
	case from == types.Float && to == types.Integer:
		c.emitFloatToInt()
		return nil
	case from == types.Integer && to == types.Text:
		c.emitIntToText()
		return nil
	case from == types.Text && to == types.Integer:
		c.emitTextToInt()
		return nil
	case from == types.Float && to == types.Text:
		return c.mergeTemplate(node, templates.FloatToString)
	case from == types.Text && to == types.Float:
		return c.mergeTemplate(node, templates.StringToFloat)
	}
	return semanticError(node, ErrUnsupportedConversion, "cannot convert %s to %s", from, to)
}

func (c *Context) mergeTemplate(node ast.AstNode, name string) error {
	body, err := templates.Merge(name, c)
	if err != nil {
		return internalError(node, err, "cannot merge template %s: %v", name, err)
	}
	c.emitRaw(body)
	return nil
}

// emitFloatToInt rounds to nearest, ties to even, under the default MXCSR.
func (c *Context) emitFloatToInt() {
	c.emit(
		asm.Op1("pop", asm.RAX),
		asm.Op2("movq", asm.XMM0, asm.RAX),
		asm.Op2("cvtsd2si", asm.RAX, asm.XMM0),
		asm.Op1("push", asm.RAX),
	)
}

// emitIntToText renders a signed 64-bit integer in decimal. Digits are
// produced least significant first, followed by the sign, then reversed.
// The magnitude is divided unsigned so the minimum value needs no special case.
func (c *Context) emitIntToText() {
	skipNegation := c.NextLabel()
	digits := c.NextLabel()
	skipSign := c.NextLabel()
	reverse := c.NextLabel()
	done := c.NextLabel()

	c.emit(asm.Op1("pop", asm.R12))
	c.emitHeapAlloc(intTextBufferSize)
	c.emit(
		asm.Op2("mov", asm.R13, asm.RAX),
		asm.Op2("mov", asm.RAX, asm.R12),
		asm.Op2("xor", asm.R11, asm.R11),
		asm.Op2("test", asm.RAX, asm.RAX),
		asm.Op1("jns", asm.Ref(labelName(skipNegation))),
		asm.Op2("mov", asm.R11, asm.Imm(1)),
		asm.Op1("neg", asm.RAX),
		asm.Label(labelName(skipNegation)),
		asm.Op2("xor", asm.RCX, asm.RCX),
		asm.Op2("mov", asm.RBX, asm.Imm(10)),
		asm.Label(labelName(digits)),
		asm.Op2("xor", asm.RDX, asm.RDX),
		asm.Op1("div", asm.RBX),
		asm.Op2("add", asm.DL, asm.Char('0')),
		asm.Op2("mov", asm.MemIndex(asm.R13, asm.RCX, 0), asm.DL),
		asm.Op1("inc", asm.RCX),
		asm.Op2("test", asm.RAX, asm.RAX),
		asm.Op1("jnz", asm.Ref(labelName(digits))),
		asm.Op2("test", asm.R11, asm.R11),
		asm.Op1("jz", asm.Ref(labelName(skipSign))),
		asm.Op2("mov", asm.Byte(asm.MemIndex(asm.R13, asm.RCX, 0)), asm.Char('-')),
		asm.Op1("inc", asm.RCX),
		asm.Label(labelName(skipSign)),
		asm.Op2("mov", asm.Byte(asm.MemIndex(asm.R13, asm.RCX, 0)), asm.Imm(0)),
		asm.Op2("cmp", asm.RCX, asm.Imm(1)),
		asm.Op1("je", asm.Ref(labelName(done))),
		asm.Op2("xor", asm.RSI, asm.RSI),
		asm.Op2("lea", asm.RDI, asm.Mem(asm.RCX, -1)),
		asm.Label(labelName(reverse)),
		asm.Op2("cmp", asm.RSI, asm.RDI),
		asm.Op1("jge", asm.Ref(labelName(done))),
		asm.Op2("mov", asm.AL, asm.MemIndex(asm.R13, asm.RSI, 0)),
		asm.Op2("mov", asm.DL, asm.MemIndex(asm.R13, asm.RDI, 0)),
		asm.Op2("mov", asm.MemIndex(asm.R13, asm.RSI, 0), asm.DL),
		asm.Op2("mov", asm.MemIndex(asm.R13, asm.RDI, 0), asm.AL),
		asm.Op1("inc", asm.RSI),
		asm.Op1("dec", asm.RDI),
		asm.Op1("jmp", asm.Ref(labelName(reverse))),
		asm.Label(labelName(done)),
		asm.Op1("push", asm.R13),
	)
}

// emitTextToInt parses an optional sign and decimal digits up to the first
// control character. Any other character makes the result 0.
func (c *Context) emitTextToInt() {
	unsigned := c.NextLabel()
	loop := c.NextLabel()
	malformed := c.NextLabel()
	end := c.NextLabel()
	finished := c.NextLabel()

	c.emit(
		asm.Op1("pop", asm.R8),
		asm.Op2("xor", asm.RCX, asm.RCX),
		asm.Op2("xor", asm.RAX, asm.RAX),
		asm.Op2("xor", asm.R11, asm.R11),
		asm.Op2("movzx", asm.RDX, asm.Byte(asm.Mem(asm.R8, 0))),
		asm.Op2("cmp", asm.DL, asm.Char('-')),
		asm.Op1("jne", asm.Ref(labelName(unsigned))),
		asm.Op2("mov", asm.R11, asm.Imm(1)),
		asm.Op1("inc", asm.RCX),
		asm.Op1("jmp", asm.Ref(labelName(loop))),
		asm.Label(labelName(unsigned)),
		asm.Op2("cmp", asm.DL, asm.Char('+')),
		asm.Op1("jne", asm.Ref(labelName(loop))),
		asm.Op1("inc", asm.RCX),
		asm.Label(labelName(loop)),
		asm.Op2("movzx", asm.RDX, asm.Byte(asm.MemIndex(asm.R8, asm.RCX, 0))),
		asm.Op2("cmp", asm.DL, asm.Imm(32)),
		asm.Op1("jb", asm.Ref(labelName(end))),
		asm.Op2("sub", asm.DL, asm.Char('0')),
		asm.Op2("cmp", asm.DL, asm.Imm(9)),
		asm.Op1("ja", asm.Ref(labelName(malformed))),
		asm.Op3("imul", asm.RAX, asm.RAX, asm.Imm(10)),
		asm.Op2("add", asm.RAX, asm.RDX),
		asm.Op1("inc", asm.RCX),
		asm.Op1("jmp", asm.Ref(labelName(loop))),
		asm.Label(labelName(malformed)),
		asm.Op2("xor", asm.RAX, asm.RAX),
		asm.Op1("jmp", asm.Ref(labelName(finished))),
		asm.Label(labelName(end)),
		asm.Op2("test", asm.R11, asm.R11),
		asm.Op1("jz", asm.Ref(labelName(finished))),
		asm.Op1("neg", asm.RAX),
		asm.Label(labelName(finished)),
		asm.Op1("push", asm.RAX),
	)
}
