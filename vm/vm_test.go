package vm

import (
	"testing"

	"amai/value"
)

// buildVM links a single function's bytecode against the given constants
// and returns a VM ready to call function 0.
func buildVM(t *testing.T, bytecode []Instruction, constants []value.Value) *VM {
	t.Helper()
	m := New(constants, false)
	fn := &Function{Bytecode: bytecode, ConstantCount: len(constants)}
	if _, err := m.AddFunction(fn); err != nil {
		t.Fatalf("AddFunction: %v", err)
	}
	m.CallFunction(0)
	return m
}

// Arithmetic: `2 + 3 * 4` computed directly in registers, spec.md §8
// scenario 1 — loosely: constants loaded then folded via IADD/IMUL.
func TestArithmeticScenario(t *testing.T) {
	constants := []value.Value{value.FromInt(2), value.FromInt(3), value.FromInt(4)}
	bytecode := []Instruction{
		MakeRI16(LOAD, 0, 0), // r0 = 2
		MakeRI16(LOAD, 1, 1), // r1 = 3
		MakeRI16(LOAD, 2, 2), // r2 = 4
		MakeRRR(IMUL, 1, 1, 2), // r1 = 3 * 4
		MakeRRR(IADD, 0, 0, 1), // r0 = 2 + 12
		MakeO(HALT),
	}
	m := buildVM(t, bytecode, constants)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := m.top().Registers[0].ToInt()
	if got != 14 {
		t.Errorf("r0 = %d, want 14", got)
	}
}

// Integer division by zero, spec.md §8 scenario 2.
func TestIntegerDivisionByZero(t *testing.T) {
	constants := []value.Value{value.FromInt(5), value.FromInt(0)}
	bytecode := []Instruction{
		MakeRI16(LOAD, 0, 0),
		MakeRI16(LOAD, 1, 1),
		MakeRRR(IDIV, 2, 0, 1),
		MakeO(HALT),
	}
	m := buildVM(t, bytecode, constants)
	err := m.Run()
	if err == nil {
		t.Fatal("expected division by zero error")
	}
	if err.Error() != "Division by zero" {
		t.Errorf("error = %q, want %q", err.Error(), "Division by zero")
	}
}

func TestFloatDivisionByZero(t *testing.T) {
	constants := []value.Value{value.FromFloat(5.0), value.FromFloat(0.0)}
	bytecode := []Instruction{
		MakeRI16(LOAD, 0, 0),
		MakeRI16(LOAD, 1, 1),
		MakeRRR(FDIV, 2, 0, 1),
		MakeO(HALT),
	}
	m := buildVM(t, bytecode, constants)
	if err := m.Run(); err == nil || err.Error() != "Division by zero" {
		t.Fatalf("Run() = %v, want Division by zero", err)
	}
}

func TestUnknownOpcode(t *testing.T) {
	m := buildVM(t, []Instruction{Instruction(0xFE)}, nil)
	err := m.Run()
	if err == nil {
		t.Fatal("expected unknown opcode error")
	}
	if err.Error() != "Unknown opcode: 0xFE" {
		t.Errorf("error = %q, want %q", err.Error(), "Unknown opcode: 0xFE")
	}
}

func TestJumpOverInstruction(t *testing.T) {
	constants := []value.Value{value.FromInt(1), value.FromInt(2)}
	bytecode := []Instruction{
		MakeI16(JUMP, 1), // skip the next instruction
		MakeRI16(LOAD, 0, 1),
		MakeRI16(LOAD, 0, 0),
		MakeO(HALT),
	}
	m := buildVM(t, bytecode, constants)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := m.top().Registers[0].ToInt(); got != 1 {
		t.Errorf("r0 = %d, want 1 (skipped load should not execute)", got)
	}
}

func TestConditionalJumpFalsy(t *testing.T) {
	constants := []value.Value{value.FromBool(false), value.FromInt(7), value.FromInt(9)}
	bytecode := []Instruction{
		MakeRI16(LOAD, 0, 0), // r0 = false
		MakeI16R(JIFL, 2, 0), // if !r0, jump over the true-branch load
		MakeRI16(LOAD, 1, 1), // r1 = 7 (skipped)
		MakeI16(JUMP, 1),
		MakeRI16(LOAD, 1, 2), // r1 = 9
		MakeO(HALT),
	}
	m := buildVM(t, bytecode, constants)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := m.top().Registers[1].ToInt(); got != 9 {
		t.Errorf("r1 = %d, want 9", got)
	}
}

func TestCallAndReturn(t *testing.T) {
	m := New([]value.Value{value.FromInt(3)}, false)
	callee := &Function{
		Bytecode: []Instruction{
			MakeRI16(LOAD, 0, 0), // r0 = 3, return value convention
			MakeO(RETN),
		},
		ConstantCount: 1,
	}
	caller := &Function{
		Bytecode: []Instruction{
			MakeI24(CALL, 1), // call function id 1 (callee)
			MakeO(HALT),
		},
		ConstantCount: 0,
	}
	if _, err := m.AddFunction(caller); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddFunction(callee); err != nil {
		t.Fatal(err)
	}
	m.CallFunction(0)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Frame stack: caller pushed a HALT-terminated frame, callee ran and
	// returned before the caller's HALT executed.
	if len(m.Frames) != 1 {
		t.Fatalf("expected 1 frame left (the caller), got %d", len(m.Frames))
	}
}

func TestFrameConstantBaseIsCumulative(t *testing.T) {
	m := New([]value.Value{value.FromInt(100), value.FromInt(200)}, false)
	callee := &Function{
		Bytecode:      []Instruction{MakeRI16(LOAD, 0, 0), MakeO(RETN)}, // constant id 0 relative to its own base
		ConstantCount: 1,
	}
	caller := &Function{
		Bytecode:      []Instruction{MakeRI16(LOAD, 0, 0), MakeI24(CALL, 1), MakeO(HALT)},
		ConstantCount: 1,
	}
	if _, err := m.AddFunction(caller); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddFunction(callee); err != nil {
		t.Fatal(err)
	}
	m.CallFunction(0)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// RETN carries the callee's R0 (200, its own constant relative to its
	// own base) into the caller's R0, overwriting the 100 loaded there
	// before the call — the calling convention's return-value handoff.
	if got := m.top().Registers[0].ToInt(); got != 200 {
		t.Errorf("caller r0 = %d, want 200", got)
	}
}

func TestBytecodeLengthGuard(t *testing.T) {
	m := New(nil, false)
	fn := &Function{Bytecode: make([]Instruction, MaxBytecodeLen)}
	if _, err := m.AddFunction(fn); err == nil {
		t.Fatal("expected jump-bounds error for over-length bytecode")
	}
	m.AllowLargeBytecode = true
	if _, err := m.AddFunction(fn); err != nil {
		t.Fatalf("AddFunction with AllowLargeBytecode: %v", err)
	}
}
