package lowerer

import (
	"amai/ast"
	"amai/value"
	"amai/vm"
)

// patch overwrites the I16-addressed instruction at idx so it jumps to the
// current end of the code stream (the instruction one past it, per the
// dispatch loop's ip-increment-then-add semantics).
func (fl *funcLowerer) patchJump(idx int, cond uint8, hasCond bool) {
	offset := int16(len(fl.code) - idx - 1)
	op := fl.code[idx].Opcode()
	if hasCond {
		fl.code[idx] = vm.MakeI16R(op, offset, cond)
	} else {
		fl.code[idx] = vm.MakeI16(op, offset)
	}
}

func (fl *funcLowerer) lowerIf(n *ast.If, dest uint8) error {
	cond := fl.newReg()
	if err := fl.lowerNode(n.Cond, cond); err != nil {
		return err
	}

	jifl := len(fl.code)
	fl.emit(vm.MakeI16R(vm.JIFL, 0, cond)) // patched below

	if err := fl.lowerNode(n.Then, dest); err != nil {
		return err
	}

	if n.Else == nil {
		fl.patchJump(jifl, cond, true)
		return nil
	}

	jump := len(fl.code)
	fl.emit(vm.MakeI16(vm.JUMP, 0)) // patched below
	fl.patchJump(jifl, cond, true)

	if err := fl.lowerNode(n.Else, dest); err != nil {
		return err
	}
	fl.patchJump(jump, 0, false)
	return nil
}

func (fl *funcLowerer) lowerWhile(n *ast.While, dest uint8) error {
	loopStart := len(fl.code)
	cond := fl.newReg()
	if err := fl.lowerNode(n.Cond, cond); err != nil {
		return err
	}

	jifl := len(fl.code)
	fl.emit(vm.MakeI16R(vm.JIFL, 0, cond)) // patched below

	body := fl.newReg()
	if err := fl.lowerNode(n.Body, body); err != nil {
		return err
	}

	backOffset := int16(loopStart - len(fl.code) - 1)
	fl.emit(vm.MakeI16(vm.JUMP, backOffset))
	fl.patchJump(jifl, cond, true)

	fl.loadConstant(dest, value.Nil())
	return nil
}

// lowerFunCall stages arguments into R0..Rarity-1 and reads the result
// back out of R0 per the calling convention. Registers 0..arity-1 may
// already hold live locals (the bump allocator assigns low register
// numbers first), so their previous contents are saved before the
// argument MOVEs and restored afterward — except dest itself when it is
// one of those registers, since the call's result is exactly what the
// caller wants left there.
func (fl *funcLowerer) lowerFunCall(n *ast.FunCall, dest uint8) error {
	id, ok := fl.lw.funcIndex[n.Callee]
	if !ok {
		return unsupported("call to unresolved function %q", n.Callee)
	}

	arity := len(n.Args)
	argRegs := make([]uint8, arity)
	for i, a := range n.Args {
		argRegs[i] = fl.newReg()
		if err := fl.lowerNode(a, argRegs[i]); err != nil {
			return err
		}
	}

	saved := make([]uint8, arity)
	for i := 0; i < arity; i++ {
		saved[i] = fl.newReg()
		fl.emit(vm.MakeRR(vm.MOVE, saved[i], uint8(i)))
	}
	for i, r := range argRegs {
		if uint8(i) != r {
			fl.emit(vm.MakeRR(vm.MOVE, uint8(i), r))
		}
	}

	fl.emit(vm.MakeI24(vm.CALL, uint32(id)))

	if dest != 0 {
		fl.emit(vm.MakeRR(vm.MOVE, dest, 0))
	}
	for i := 0; i < arity; i++ {
		if uint8(i) == dest {
			continue
		}
		fl.emit(vm.MakeRR(vm.MOVE, uint8(i), saved[i]))
	}
	return nil
}
