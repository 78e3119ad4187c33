package asm

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const indent = "    "

func (a Arg) String() string {
	if a.Deref {
		var inner string
		if a.Label != "" {
			inner = "rel " + a.Label
		} else {
			inner = a.Reg
			if a.Index != "" {
				inner += "+" + a.Index
			}
			if a.Offset > 0 {
				inner += "+" + strconv.Itoa(a.Offset)
			} else if a.Offset < 0 {
				inner += strconv.Itoa(a.Offset)
			}
		}
		if a.Size != "" {
			return fmt.Sprintf("%s [%s]", a.Size, inner)
		}
		return "[" + inner + "]"
	}

	switch {
	case a.Reg != "":
		return a.Reg
	case a.Label != "":
		return a.Label
	case a.Hex:
		return fmt.Sprintf("0x%016x", uint64(a.Imm))
	case a.Char:
		return fmt.Sprintf("'%c'", byte(a.Imm))
	}
	return strconv.FormatInt(a.Imm, 10)
}

// Format writes one line in NASM syntax.
func Format(out io.Writer, line Line) {
	switch {
	case line.Label != "":
		fmt.Fprintf(out, "%s:", line.Label)
	case line.Op != "":
		args := make([]string, len(line.Args))
		for i, arg := range line.Args {
			args[i] = arg.String()
		}
		fmt.Fprintf(out, "%s%s", indent, line.Op)
		if len(args) > 0 {
			fmt.Fprintf(out, " %s", strings.Join(args, ", "))
		}
	default:
		fmt.Fprint(out, indent)
	}

	if line.Comment != "" {
		if line.Label != "" || line.Op != "" {
			fmt.Fprint(out, " ")
		}
		fmt.Fprintf(out, "; %s", line.Comment)
	}

	fmt.Fprint(out, "\n")
}
