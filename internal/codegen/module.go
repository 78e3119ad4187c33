package codegen

import (
	"fmt"
	"strings"

	"github.com/medusa-lang/medusa/internal/ast"
	"github.com/medusa-lang/medusa/internal/codegen/asm"
	"github.com/medusa-lang/medusa/internal/types"
)

const (
	VersionBanner = "Medusa 1.0"
	EndBanner     = "Program ended"
	// Size of the uninitialized scratch buffer.
	scratchSize = 1024
)

var imports = []string{"GetStdHandle", "WriteFile", "ReadFile", "GetProcessHeap", "HeapAlloc", "ExitProcess"}

// Generate compiles a whole program into a NASM source file for Win64.
func Generate(program *ast.Program, opts Options) (string, error) {
	c := NewContext(opts)
	if err := c.compileStatements(program.Statements); err != nil {
		return "", err
	}
	c.logger.Debug("generated", "labels", c.labelIndex, "strings", c.slotIndex, "variables", c.symbols.Len())
	return c.Assemble(), nil
}

// Assemble wraps the generated instructions and data with the process
// entry and exit sequences, the fixed data and variable storage.
func (c *Context) Assemble() string {
	var out strings.Builder

	out.WriteString("bits 64\ndefault rel\n\nglobal mainCRTStartup\n\n")
	for _, name := range imports {
		fmt.Fprintf(&out, "extern %s\n", name)
	}

	out.WriteString("\nsection .text\n\nmainCRTStartup:\n")
	prologue := NewContext(Options{})
	prologue.emit(
		asm.Op2("sub", asm.RSP, asm.Imm(40)),
		asm.Op2("mov", asm.RCX, asm.Imm(-10)),
		asm.Op1("call", asm.Ref("GetStdHandle")),
		asm.Op2("mov", asm.Rel("input_handle"), asm.RAX),
		asm.Op2("mov", asm.RCX, asm.Imm(-11)),
		asm.Op1("call", asm.Ref("GetStdHandle")),
		asm.Op2("mov", asm.Rel("output_handle"), asm.RAX),
		asm.Op1("call", asm.Ref("GetProcessHeap")),
		asm.Op2("mov", asm.Rel("heap_handle"), asm.RAX),
	)
	prologue.emitBanner("medusa_string")
	out.WriteString(prologue.Text())

	out.WriteString(c.Text())

	epilogue := NewContext(Options{})
	epilogue.emitBanner("ended_string")
	epilogue.emit(
		asm.Op2("xor", asm.RCX, asm.RCX),
		asm.Op1("call", asm.Ref("ExitProcess")),
	)
	out.WriteString(epilogue.Text())

	out.WriteString("\nsection .data\n\n")
	out.WriteString("input_handle dq 0\noutput_handle dq 0\nheap_handle dq 0\nignore dq 0\n")
	fmt.Fprintf(&out, "medusa_string db \"%s\", 10\nmedusa_string_len equ $ - medusa_string\n", VersionBanner)
	fmt.Fprintf(&out, "ended_string db \"%s\", 10\nended_string_len equ $ - ended_string\n", EndBanner)
	out.WriteString("newline db 10\n")
	out.WriteString(c.Data())
	for _, sym := range c.Symbols() {
		if sym.Type != types.Text {
			fmt.Fprintf(&out, "%s dq 0\n", variableName(sym.Name))
		}
	}

	out.WriteString("\nsection .bss\n\n")
	fmt.Fprintf(&out, "buffer_string resb %d\n", scratchSize)
	for _, sym := range c.Symbols() {
		if sym.Type == types.Text {
			fmt.Fprintf(&out, "%s resb %d\n", variableName(sym.Name), types.StorageSize(sym.Type))
		}
	}

	return out.String()
}

func (c *Context) emitBanner(label string) {
	c.emitWriteFile(
		asm.Op2("lea", asm.RDX, asm.Rel(label)),
		asm.Op2("mov", asm.R8, asm.Ref(label+"_len")),
	)
}
