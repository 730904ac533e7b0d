package value

import (
	"math"
	"testing"
)

func TestIntRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 123456, -123456, 1<<47 - 1, -(1 << 47)}
	for _, x := range cases {
		v := FromInt(x)
		if got := v.ToInt(); got != x {
			t.Errorf("FromInt(%d).ToInt() = %d, want %d", x, got, x)
		}
		if !v.IsInt() {
			t.Errorf("FromInt(%d).IsInt() = false", x)
		}
	}
}

func TestFloatRoundTrip(t *testing.T) {
	cases := []float64{0, 1.5, -1.5, math.Inf(1), math.Inf(-1), 3.14159}
	for _, f := range cases {
		v := FromFloat(f)
		if got := v.ToFloat(); got != f {
			t.Errorf("FromFloat(%v).ToFloat() = %v, want %v", f, got, f)
		}
	}
}

func TestFloatNaNRoundTrip(t *testing.T) {
	v := FromFloat(math.NaN())
	if !math.IsNaN(v.ToFloat()) {
		t.Fatalf("expected NaN to round-trip as NaN")
	}
	// A fixed source NaN re-boxed the same way compares equal to itself.
	w := FromFloat(math.NaN())
	if v.CmEq(w).ToBool() != true {
		t.Errorf("two identically-boxed NaNs should compare equal")
	}
}

func TestBoolRoundTrip(t *testing.T) {
	if !FromBool(true).ToBool() {
		t.Error("FromBool(true).ToBool() = false")
	}
	if FromBool(false).ToBool() {
		t.Error("FromBool(false).ToBool() = true")
	}
}

func TestNil(t *testing.T) {
	if !Nil().IsNil() {
		t.Error("Nil().IsNil() = false")
	}
}

func TestCmEqCmNe(t *testing.T) {
	a := FromInt(5)
	b := FromInt(5)
	c := FromInt(6)
	if !a.CmEq(b).ToBool() {
		t.Error("CmEq(5, 5) should be true")
	}
	if a.CmNe(b).ToBool() {
		t.Error("CmNe(5, 5) should be false")
	}
	if !a.CmNe(c).ToBool() {
		t.Error("CmNe(5, 6) should be true")
	}
}

func TestIntegerArithmetic(t *testing.T) {
	a, b := FromInt(7), FromInt(2)
	if got := a.IAdd(b).ToInt(); got != 9 {
		t.Errorf("IAdd = %d, want 9", got)
	}
	if got := a.ISub(b).ToInt(); got != 5 {
		t.Errorf("ISub = %d, want 5", got)
	}
	if got := a.IMul(b).ToInt(); got != 14 {
		t.Errorf("IMul = %d, want 14", got)
	}
	if got := a.IDiv(b).ToInt(); got != 3 {
		t.Errorf("IDiv = %d, want 3", got)
	}
	if got := a.IRem(b).ToInt(); got != 1 {
		t.Errorf("IRem = %d, want 1", got)
	}
	if got := a.INeg().ToInt(); got != -7 {
		t.Errorf("INeg = %d, want -7", got)
	}
}

func TestBitwise(t *testing.T) {
	a, b := FromInt(0b1100), FromInt(0b1010)
	if got := a.BOr(b).ToInt(); got != 0b1110 {
		t.Errorf("BOr = %b, want %b", got, 0b1110)
	}
	if got := a.BAnd(b).ToInt(); got != 0b1000 {
		t.Errorf("BAnd = %b, want %b", got, 0b1000)
	}
	if got := a.BXor(b).ToInt(); got != 0b0110 {
		t.Errorf("BXor = %b, want %b", got, 0b0110)
	}
}

func TestComparisons(t *testing.T) {
	lo, hi := FromInt(1), FromInt(2)
	if !lo.ICLt(hi).ToBool() {
		t.Error("1 < 2 should be true")
	}
	if !hi.ICGt(lo).ToBool() {
		t.Error("2 > 1 should be true")
	}
	if !lo.ICLe(lo).ToBool() {
		t.Error("1 <= 1 should be true")
	}
	if !hi.ICGe(hi).ToBool() {
		t.Error("2 >= 2 should be true")
	}
}
