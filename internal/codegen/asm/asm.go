// Package asm models NASM source lines for the x86-64 code generator.
package asm

var (
	RAX  = Arg{Reg: "rax"}
	RBX  = Arg{Reg: "rbx"}
	RCX  = Arg{Reg: "rcx"}
	RDX  = Arg{Reg: "rdx"}
	RSI  = Arg{Reg: "rsi"}
	RDI  = Arg{Reg: "rdi"}
	RBP  = Arg{Reg: "rbp"}
	RSP  = Arg{Reg: "rsp"}
	R8   = Arg{Reg: "r8"}
	R9   = Arg{Reg: "r9"}
	R11  = Arg{Reg: "r11"}
	R12  = Arg{Reg: "r12"}
	R13  = Arg{Reg: "r13"}
	AL   = Arg{Reg: "al"}
	DL   = Arg{Reg: "dl"}
	XMM0 = Arg{Reg: "xmm0"}
	XMM1 = Arg{Reg: "xmm1"}
	XMM2 = Arg{Reg: "xmm2"}
)

type Line struct {
	Comment string
	Label   string
	Op      string
	Args    []Arg
}

func (l Line) WithComment(comment string) Line {
	result := l
	result.Comment = comment
	return result
}

type Arg struct {
	Reg    string
	Index  string
	Offset int
	Imm    int64
	Hex    bool
	Char   bool
	Label  string
	Deref  bool
	// Size is an explicit operand size for memory operands, e.g. "byte".
	Size string
}

func (a Arg) WithOffset(offset int) Arg {
	result := a
	result.Offset = offset
	return result
}

func (a Arg) AsDeref() Arg {
	result := a
	result.Deref = true
	return result
}

func Imm(value int64) Arg {
	return Arg{Imm: value}
}

// Hex is an immediate written in hexadecimal, used for raw float64 bits.
func Hex(bits uint64) Arg {
	return Arg{Imm: int64(bits), Hex: true}
}

// Char is an immediate written as a character constant.
func Char(c byte) Arg {
	return Arg{Imm: int64(c), Char: true}
}

func Reg(reg string) Arg {
	return Arg{Reg: reg}
}

func Ref(label string) Arg {
	return Arg{Label: label}
}

// Rel is a RIP-relative memory operand: [rel label].
func Rel(label string) Arg {
	return Arg{Label: label, Deref: true}
}

// Mem is a memory operand: [reg+offset].
func Mem(reg Arg, offset int) Arg {
	return Reg(reg.Reg).WithOffset(offset).AsDeref()
}

// MemIndex is a memory operand: [base+index+offset].
func MemIndex(base, index Arg, offset int) Arg {
	result := Mem(base, offset)
	result.Index = index.Reg
	return result
}

func Byte(arg Arg) Arg {
	result := arg
	result.Size = "byte"
	return result
}

func Qword(arg Arg) Arg {
	result := arg
	result.Size = "qword"
	return result
}

func Op0(op string) Line {
	return Line{Op: op}
}

func Op1(op string, arg Arg) Line {
	return Line{Op: op, Args: []Arg{arg}}
}

func Op2(op string, arg1, arg2 Arg) Line {
	return Line{Op: op, Args: []Arg{arg1, arg2}}
}

func Op3(op string, arg1, arg2, arg3 Arg) Line {
	return Line{Op: op, Args: []Arg{arg1, arg2, arg3}}
}

func Comment(text string) Line {
	return Line{Comment: text}
}

func Label(text string) Line {
	return Line{Label: text}
}
