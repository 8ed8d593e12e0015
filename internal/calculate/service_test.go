package calculate

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GGmuzem/calculator-api/internal/logger"
)

func newTestService(t *testing.T) (*Service, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewService(NewRegistry(), logger.New(&buf)), &buf
}

func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), "line: %s", line)
		entries = append(entries, m)
	}
	return entries
}

func TestServiceCalculate(t *testing.T) {
	tests := []struct {
		op   string
		x, y float64
		want float64
	}{
		{"add", 5, 3, 8},
		{"add", 10, 5, 15},
		{"subtract", 10, 5, 5},
		{"multiply", 6, 7, 42},
		{"multiply", 5, 0, 0},
		{"divide", 20, 4, 5},
		{"DIVIDE", 20, 4, 5},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			svc, _ := newTestService(t)
			got, err := svc.Calculate(tt.op, tt.x, tt.y)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServiceCalculateErrors(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Calculate("divide", 10, 0)
	require.Error(t, err)
	assert.True(t, IsCalcError(err))
	assert.Equal(t, "Division by zero is not allowed", err.Error())

	_, err = svc.Calculate("modulo", 10, 3)
	require.Error(t, err)
	assert.True(t, IsCalcError(err))
	assert.Contains(t, err.Error(), "Invalid operation: modulo")
}

func TestServiceLogsSuccess(t *testing.T) {
	svc, buf := newTestService(t)

	_, err := svc.Calculate("add", 5, 3)
	require.NoError(t, err)

	entries := logEntries(t, buf)
	require.Len(t, entries, 2)

	assert.Equal(t, "Calculation requested", entries[0]["message"])
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, "add", entries[0]["operation"])
	assert.Equal(t, 5.0, entries[0]["x"])
	assert.Equal(t, 3.0, entries[0]["y"])

	assert.Equal(t, "Calculation completed", entries[1]["message"])
	assert.Equal(t, "INFO", entries[1]["level"])
	assert.Equal(t, "add", entries[1]["operation"])
	assert.Equal(t, 8.0, entries[1]["result"])
	assert.NotContains(t, entries[1], "error")
}

func TestServiceLogsFailure(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		x, y    float64
		wantErr string
	}{
		{"division by zero", "divide", 10, 0, "Division by zero is not allowed"},
		{"unknown operation", "power", 2, 3, "Invalid operation: power. Supported operations: add, subtract, multiply, divide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, buf := newTestService(t)

			_, err := svc.Calculate(tt.op, tt.x, tt.y)
			require.Error(t, err)

			entries := logEntries(t, buf)
			require.Len(t, entries, 2)

			assert.Equal(t, "Calculation requested", entries[0]["message"])

			failure := entries[1]
			assert.Equal(t, "Calculation failed", failure["message"])
			assert.Equal(t, "ERROR", failure["level"])
			assert.Equal(t, tt.op, failure["operation"])
			assert.Equal(t, tt.x, failure["x"])
			assert.Equal(t, tt.y, failure["y"])
			assert.Equal(t, tt.wantErr, failure["error"])
			assert.NotContains(t, failure, "result")
		})
	}
}

func TestServiceAvailableOperations(t *testing.T) {
	svc, _ := newTestService(t)
	assert.Equal(t, []string{"add", "subtract", "multiply", "divide"}, svc.AvailableOperations())
}

func TestServiceLogsOverflowResult(t *testing.T) {
	svc, buf := newTestService(t)

	got, err := svc.Calculate("multiply", 1e308, 10)
	require.NoError(t, err)
	assert.Error(t, CheckFinite(got))

	entries := logEntries(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "Calculation completed", entries[1]["message"])
	assert.Equal(t, "+Inf", entries[1]["result"])
}
