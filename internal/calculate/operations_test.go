package calculate

import (
	"math"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func approxEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

func TestOperations(t *testing.T) {
	tests := []struct {
		name string
		op   string
		x, y float64
		want float64
	}{
		{"add positive", OpAdd, 5, 3, 8},
		{"add negative", OpAdd, -5, -3, -8},
		{"add mixed signs", OpAdd, -5, 3, -2},
		{"add floats", OpAdd, 5.5, 3.2, 8.7},
		{"add large", OpAdd, 1e10, 1e10, 2e10},
		{"add zeros", OpAdd, 0, 0, 0},
		{"subtract positive", OpSubtract, 10, 3, 7},
		{"subtract negative result", OpSubtract, 3, 10, -7},
		{"subtract floats", OpSubtract, 10.5, 3.2, 7.3},
		{"subtract from zero", OpSubtract, 0, 5, -5},
		{"multiply positive", OpMultiply, 5, 3, 15},
		{"multiply negatives", OpMultiply, -5, -3, 15},
		{"multiply floats", OpMultiply, 2.5, 4, 10},
		{"multiply by zero", OpMultiply, 5, 0, 0},
		{"divide integers", OpDivide, 10, 2, 5},
		{"divide repeating", OpDivide, 10, 3, 3.333333333333333},
		{"divide negative", OpDivide, -10, 2, -5},
		{"divide both negative", OpDivide, -10, -2, 5},
		{"divide floats", OpDivide, 7.5, 2.5, 3},
		{"divide large", OpDivide, 1e12, 1e6, 1e6},
	}

	r := NewRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := r.Resolve(tt.op)
			if err != nil {
				t.Fatalf("Resolve(%q) failed: %v", tt.op, err)
			}
			if op.Name() != tt.op {
				t.Errorf("Name() = %q, want %q", op.Name(), tt.op)
			}
			got, err := op.Execute(tt.x, tt.y)
			if err != nil {
				t.Fatalf("Execute(%v, %v) failed: %v", tt.x, tt.y, err)
			}
			if !approxEqual(got, tt.want) {
				t.Errorf("Execute(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestDivideByZero(t *testing.T) {
	op, err := NewRegistry().Resolve(OpDivide)
	if err != nil {
		t.Fatal(err)
	}

	for _, x := range []float64{10, -10, 0, math.MaxFloat64} {
		_, err := op.Execute(x, 0)
		if err == nil {
			t.Fatalf("divide(%v, 0) expected error", x)
		}
		if err.Error() != "Division by zero is not allowed" {
			t.Errorf("divide(%v, 0) error = %q", x, err.Error())
		}
		if !IsCalcError(err) {
			t.Errorf("divide(%v, 0) error should be a CalcError, got %T", x, err)
		}
	}

	// -0 тоже равен нулю
	if _, err := op.Execute(1, math.Copysign(0, -1)); err == nil {
		t.Error("divide(1, -0) expected error")
	}
	// Очень маленький делитель - не ноль
	if _, err := op.Execute(1, 1e-300); err != nil {
		t.Errorf("divide(1, 1e-300) unexpected error: %v", err)
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	for _, name := range r.Names() {
		want, err := r.Resolve(name)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", name, err)
		}
		variants := []string{strings.ToUpper(name), strings.ToUpper(name[:1]) + name[1:]}
		for _, v := range variants {
			got, err := r.Resolve(v)
			if err != nil {
				t.Fatalf("Resolve(%q) failed: %v", v, err)
			}
			if got != want {
				t.Errorf("Resolve(%q) returned a different operation than Resolve(%q)", v, name)
			}
		}
	}
}

func TestResolveUnknown(t *testing.T) {
	_, err := NewRegistry().Resolve("power")
	if err == nil {
		t.Fatal("expected error for unknown operation")
	}
	if !IsCalcError(err) {
		t.Errorf("expected CalcError, got %T", err)
	}

	msg := err.Error()
	want := "Invalid operation: power. Supported operations: add, subtract, multiply, divide"
	if msg != want {
		t.Errorf("error = %q, want %q", msg, want)
	}
}

func TestResolveUnknownKeepsCallerSpelling(t *testing.T) {
	_, err := NewRegistry().Resolve("Modulo")
	if err == nil || !strings.Contains(err.Error(), "Invalid operation: Modulo.") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNames(t *testing.T) {
	r := NewRegistry()
	want := []string{OpAdd, OpSubtract, OpMultiply, OpDivide}

	got := r.Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("Names() = %v, want %v", got, want)
	}

	// Изменение возвращенного среза не меняет реестр
	got[0] = "changed"
	if r.Names()[0] != OpAdd {
		t.Error("Names() must return a copy")
	}
}

func finiteFloat() *rapid.Generator[float64] {
	return rapid.Float64Range(-1e150, 1e150)
}

func TestCommutativity(t *testing.T) {
	r := NewRegistry()
	addOp, _ := r.Resolve(OpAdd)
	mulOp, _ := r.Resolve(OpMultiply)

	rapid.Check(t, func(rt *rapid.T) {
		x := finiteFloat().Draw(rt, "x")
		y := finiteFloat().Draw(rt, "y")

		a1, _ := addOp.Execute(x, y)
		a2, _ := addOp.Execute(y, x)
		if a1 != a2 {
			rt.Fatalf("add(%v, %v) = %v, add(%v, %v) = %v", x, y, a1, y, x, a2)
		}

		m1, _ := mulOp.Execute(x, y)
		m2, _ := mulOp.Execute(y, x)
		if m1 != m2 {
			rt.Fatalf("multiply(%v, %v) = %v, multiply(%v, %v) = %v", x, y, m1, y, x, m2)
		}
	})
}

func TestSubtractAntisymmetry(t *testing.T) {
	subOp, _ := NewRegistry().Resolve(OpSubtract)

	rapid.Check(t, func(rt *rapid.T) {
		x := finiteFloat().Draw(rt, "x")
		y := finiteFloat().Draw(rt, "y")

		d1, _ := subOp.Execute(x, y)
		d2, _ := subOp.Execute(y, x)
		if d1 != -d2 {
			rt.Fatalf("subtract(%v, %v) = %v, -subtract(%v, %v) = %v", x, y, d1, y, x, -d2)
		}
	})
}

func TestNonZeroDivisorNeverFails(t *testing.T) {
	divOp, _ := NewRegistry().Resolve(OpDivide)

	rapid.Check(t, func(rt *rapid.T) {
		x := finiteFloat().Draw(rt, "x")
		y := finiteFloat().Filter(func(v float64) bool { return v != 0 }).Draw(rt, "y")

		if _, err := divOp.Execute(x, y); err != nil {
			rt.Fatalf("divide(%v, %v) unexpected error: %v", x, y, err)
		}
	})
}
