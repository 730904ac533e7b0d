package vm

import (
	"fmt"

	"amai/value"
)

// RuntimeError is the VM's fatal-to-current-run error type (spec.md §7):
// unlike amai/diag.Diagnostic, there is no secondary context and no
// recovery — a RuntimeError stops the dispatch loop.
type RuntimeError struct {
	Message string
}

func (e RuntimeError) Error() string { return e.Message }

func divByZero() error { return RuntimeError{Message: "Division by zero"} }

func unknownOpcode(op Opcode) error {
	return RuntimeError{Message: fmt.Sprintf("Unknown opcode: 0x%02X", byte(op))}
}

// VM is Amai's register-based interpreter: a shared constant pool, a
// function table, and a stack of call frames, per spec.md §3.11. It is
// single-threaded and fully synchronous (spec.md §5) — grounded on
// informatter-nilan/vm/vm.go's Run loop, generalized from a flat stack
// machine to a frame stack over packed register instructions, per
// original_source/src/vm/mod.rs's cycle().
type VM struct {
	Constants          []value.Value
	Functions          []*Function
	Frames             []*CallFrame
	Running            bool
	AllowLargeBytecode bool
}

// New creates a VM over a linked, immutable constant pool.
func New(constants []value.Value, allowLargeBytecode bool) *VM {
	return &VM{
		Constants:          constants,
		AllowLargeBytecode: allowLargeBytecode,
	}
}

// AddFunction registers a function in the VM's function table and returns
// its id, validating the "Jump safety" bound of spec.md §4.2 unless
// AllowLargeBytecode is set.
func (vm *VM) AddFunction(fn *Function) (int, error) {
	if !vm.AllowLargeBytecode && len(fn.Bytecode) >= MaxBytecodeLen {
		return 0, fmt.Errorf("bytecode length %d is out of jump bounds", len(fn.Bytecode))
	}
	vm.Functions = append(vm.Functions, fn)
	return len(vm.Functions) - 1, nil
}

// CallFunction pushes a fresh frame for function id (spec.md §4.2 "Frame
// push"): a register file filled with Nil, a constant-index base computed from the
// current top frame's declared constant count, and ip=0. Per the lowerer's
// calling convention, the caller evaluates arguments into its own
// R0..Rarity-1 before emitting CALL; those values are copied into the new
// frame's R0..Rarity-1 here, since each frame owns a disjoint register file.
func (vm *VM) CallFunction(id int) {
	fn := vm.Functions[id]
	base := 0
	var caller *CallFrame
	if len(vm.Frames) > 0 {
		caller = vm.Frames[len(vm.Frames)-1]
		base = caller.ConstantIdxBase + caller.Function.ConstantCount
	}
	frame := &CallFrame{Function: fn, ConstantIdxBase: base}
	for i := range frame.Registers {
		frame.Registers[i] = value.Nil()
	}
	if caller != nil {
		for i := 0; i < fn.Arity; i++ {
			frame.Registers[i] = caller.Registers[i]
		}
	}
	vm.Frames = append(vm.Frames, frame)
}

// ReturnFunction pops the top frame (spec.md §4.2 "Frame pop") and carries
// its R0 — where the callee placed its result via MOVE immediately before
// RETN — into the new top frame's R0, the fixed "destination register" of
// the calling convention. The lowerer relocates it from there if the call
// expression's own destination register differs.
//
// Returning from the outermost frame has nothing to pop into: it stops the
// dispatch loop instead, leaving the frame in place with its result in R0
// for the caller of Run to read.
func (vm *VM) ReturnFunction() {
	if len(vm.Frames) == 1 {
		vm.Running = false
		return
	}
	result := vm.Frames[len(vm.Frames)-1].Registers[0]
	vm.Frames = vm.Frames[:len(vm.Frames)-1]
	vm.Frames[len(vm.Frames)-1].Registers[0] = result
}

func (vm *VM) top() *CallFrame {
	return vm.Frames[len(vm.Frames)-1]
}

// Run drives the dispatch loop to completion: fetch, decode, execute,
// repeat, until HALT or the last frame runs off the end of its bytecode
// (spec.md §4.2 "Dispatch loop"). It returns a RuntimeError on division by
// zero or an unrecognized opcode.
func (vm *VM) Run() error {
	vm.Running = true
	for vm.Running {
		if err := vm.cycle(); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) cycle() error {
	frame := vm.top()
	if frame.IP >= len(frame.Function.Bytecode) {
		vm.Running = false
		return nil
	}
	inst := frame.Function.Bytecode[frame.IP]
	frame.IP++

	switch inst.Opcode() {
	case NOP:
		// nothing
	case LOAD:
		dest, imm16 := inst.RI16()
		abs := frame.ConstantIdxBase + int(imm16)
		frame.Registers[dest] = vm.Constants[abs]
	case MOVE:
		dest, src := inst.RR()
		frame.Registers[dest] = frame.Registers[src]
	case IADD:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].IAdd(frame.Registers[s2])
	case ISUB:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].ISub(frame.Registers[s2])
	case IMUL:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].IMul(frame.Registers[s2])
	case IDIV:
		dest, s1, s2 := inst.RRR()
		if frame.Registers[s2].ToInt() == 0 {
			return divByZero()
		}
		frame.Registers[dest] = frame.Registers[s1].IDiv(frame.Registers[s2])
	case IREM:
		dest, s1, s2 := inst.RRR()
		if frame.Registers[s2].ToInt() == 0 {
			return divByZero()
		}
		frame.Registers[dest] = frame.Registers[s1].IRem(frame.Registers[s2])
	case INEG:
		dest, src := inst.RR()
		frame.Registers[dest] = frame.Registers[src].INeg()
	case FADD:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].FAdd(frame.Registers[s2])
	case FSUB:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].FSub(frame.Registers[s2])
	case FMUL:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].FMul(frame.Registers[s2])
	case FDIV:
		dest, s1, s2 := inst.RRR()
		if frame.Registers[s2].ToFloat() == 0.0 {
			return divByZero()
		}
		frame.Registers[dest] = frame.Registers[s1].FDiv(frame.Registers[s2])
	case FREM:
		dest, s1, s2 := inst.RRR()
		if frame.Registers[s2].ToFloat() == 0.0 {
			return divByZero()
		}
		frame.Registers[dest] = frame.Registers[s1].FRem(frame.Registers[s2])
	case FNEG:
		dest, src := inst.RR()
		frame.Registers[dest] = frame.Registers[src].FNeg()
	case BOR:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].BOr(frame.Registers[s2])
	case BAND:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].BAnd(frame.Registers[s2])
	case BXOR:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].BXor(frame.Registers[s2])
	case BNOT:
		dest, src := inst.RR()
		frame.Registers[dest] = frame.Registers[src].BNot()
	case LOR:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].LOr(frame.Registers[s2])
	case LAND:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].LAnd(frame.Registers[s2])
	case LNOT:
		dest, src := inst.RR()
		frame.Registers[dest] = frame.Registers[src].LNot()
	case CMEQ:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].CmEq(frame.Registers[s2])
	case CMNE:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].CmNe(frame.Registers[s2])
	case ICGT:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].ICGt(frame.Registers[s2])
	case ICLT:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].ICLt(frame.Registers[s2])
	case ICGE:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].ICGe(frame.Registers[s2])
	case ICLE:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].ICLe(frame.Registers[s2])
	case FCGT:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].FCGt(frame.Registers[s2])
	case FCLT:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].FCLt(frame.Registers[s2])
	case FCGE:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].FCGe(frame.Registers[s2])
	case FCLE:
		dest, s1, s2 := inst.RRR()
		frame.Registers[dest] = frame.Registers[s1].FCLe(frame.Registers[s2])
	case JUMP:
		addr := inst.I16()
		frame.IP += int(addr)
	case JITR:
		addr, src := inst.I16R()
		if frame.Registers[src].ToBool() {
			frame.IP += int(addr)
		}
	case JIFL:
		addr, src := inst.I16R()
		if !frame.Registers[src].ToBool() {
			frame.IP += int(addr)
		}
	case CALL:
		id := inst.I24()
		vm.CallFunction(int(id))
	case RETN:
		vm.ReturnFunction()
	case HALT:
		vm.Running = false
	default:
		return unknownOpcode(inst.Opcode())
	}

	return nil
}
