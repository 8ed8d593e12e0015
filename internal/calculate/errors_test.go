package calculate

import (
	"fmt"
	"math"
	"testing"
)

func TestCheckFinite(t *testing.T) {
	tests := []struct {
		value   float64
		wantErr bool
	}{
		{0, false},
		{-1.5, false},
		{math.MaxFloat64, false},
		{math.Inf(1), true},
		{math.Inf(-1), true},
		{math.NaN(), true},
	}

	for _, tt := range tests {
		err := CheckFinite(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckFinite(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
		if err != nil && !IsCalcError(err) {
			t.Errorf("CheckFinite(%v) вернул ошибку не типа CalcError: %T", tt.value, err)
		}
	}
}

func TestIsCalcErrorWrapped(t *testing.T) {
	wrapped := fmt.Errorf("контекст: %w", DivisionByZeroError())
	if !IsCalcError(wrapped) {
		t.Error("IsCalcError должен находить CalcError в цепочке")
	}
	if IsCalcError(fmt.Errorf("другая ошибка")) {
		t.Error("IsCalcError не должен срабатывать на произвольную ошибку")
	}
}
