package vm

import "amai/value"

// NumRegisters is the size of each frame's bounded register file.
const NumRegisters = 256

// CallFrame is one activation record on the VM's call stack: the function
// being executed, its register file, the base index into the shared
// constant pool, and the instruction pointer (spec.md §3.10).
type CallFrame struct {
	Function        *Function
	Registers       [NumRegisters]value.Value
	ConstantIdxBase int
	IP              int
}
