package vm

import (
	"fmt"
	"strings"
)

// Disassemble renders fn's bytecode in a human-readable mnemonic form, one
// instruction per line, for the `emit-bytecode` CLI subcommand. Grounded on
// informatter-nilan/compiler/compiler.go's DiassembleBytecode, adapted from
// a byte-stream walk to a fixed-width word walk.
func Disassemble(fn *Function) string {
	var b strings.Builder
	for ip, inst := range fn.Bytecode {
		op := inst.Opcode()
		form, ok := FormOf(op)
		if !ok {
			fmt.Fprintf(&b, "%04d  %s\n", ip, op)
			continue
		}
		switch form {
		case FormO:
			fmt.Fprintf(&b, "%04d  %s\n", ip, op)
		case FormRRR:
			dest, s1, s2 := inst.RRR()
			fmt.Fprintf(&b, "%04d  %-6s r%d, r%d, r%d\n", ip, op, dest, s1, s2)
		case FormRR:
			dest, src := inst.RR()
			fmt.Fprintf(&b, "%04d  %-6s r%d, r%d\n", ip, op, dest, src)
		case FormRI16:
			dest, imm16 := inst.RI16()
			fmt.Fprintf(&b, "%04d  %-6s r%d, #%d\n", ip, op, dest, imm16)
		case FormI16R:
			addr, src := inst.I16R()
			fmt.Fprintf(&b, "%04d  %-6s %+d, r%d\n", ip, op, addr, src)
		case FormI16:
			addr := inst.I16()
			fmt.Fprintf(&b, "%04d  %-6s %+d\n", ip, op, addr)
		case FormI24:
			id := inst.I24()
			fmt.Fprintf(&b, "%04d  %-6s @%d\n", ip, op, id)
		}
	}
	return b.String()
}
