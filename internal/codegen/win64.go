package codegen

import "github.com/medusa-lang/medusa/internal/codegen/asm"

const (
	// Shadow space every Win64 callee may use.
	shadowSpace = 32
	// HEAP_GENERATE_EXCEPTIONS | HEAP_ZERO_MEMORY
	heapAllocFlags = 12
)

// emitCall calls a Win64 function with a 16-byte aligned stack. rbp holds
// the caller's rsp during the call; it is callee-saved so it survives.
// setup runs after the stack is aligned and must only load arguments.
func (c *Context) emitCall(fn string, stackArgs int, setup ...asm.Line) {
	c.emit(
		asm.Op2("mov", asm.RBP, asm.RSP),
		asm.Op2("and", asm.RSP, asm.Imm(-16)),
		asm.Op2("sub", asm.RSP, asm.Imm(int64(shadowSpace+16*((stackArgs+1)/2)))),
	)
	c.emit(setup...)
	c.emit(
		asm.Op1("call", asm.Ref(fn)),
		asm.Op2("mov", asm.RSP, asm.RBP),
	)
}

// emitHeapAlloc leaves a pointer to size zeroed bytes in rax.
func (c *Context) emitHeapAlloc(size int) {
	c.emitCall("HeapAlloc", 0,
		asm.Op2("mov", asm.RCX, asm.Rel("heap_handle")),
		asm.Op2("mov", asm.RDX, asm.Imm(heapAllocFlags)),
		asm.Op2("mov", asm.R8, asm.Imm(int64(size))),
	)
}

// emitWriteFile writes r8 bytes starting at rdx to standard output.
func (c *Context) emitWriteFile(setup ...asm.Line) {
	lines := []asm.Line{asm.Op2("mov", asm.RCX, asm.Rel("output_handle"))}
	lines = append(lines, setup...)
	lines = append(lines,
		asm.Op2("lea", asm.R9, asm.Rel("ignore")),
		asm.Op2("mov", asm.Qword(asm.Mem(asm.RSP, shadowSpace)), asm.Imm(0)),
	)
	c.emitCall("WriteFile", 1, lines...)
}
