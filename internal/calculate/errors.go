package calculate

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// CalcError описывает ошибку некорректного вычисления.
// Неизвестная операция и деление на ноль имеют один тип и различаются только текстом.
type CalcError struct {
	Message string
}

func (e *CalcError) Error() string {
	return e.Message
}

// NewCalcError создает новую ошибку CalcError
func NewCalcError(message string) *CalcError {
	return &CalcError{Message: message}
}

// DivisionByZeroError создаёт ошибку деления на ноль
func DivisionByZeroError() *CalcError {
	return NewCalcError("Division by zero is not allowed")
}

// InvalidOperationError создаёт ошибку неизвестной операции со списком допустимых имён
func InvalidOperationError(name string, supported []string) *CalcError {
	return NewCalcError(fmt.Sprintf("Invalid operation: %s. Supported operations: %s",
		name, strings.Join(supported, ", ")))
}

// CheckFinite возвращает ошибку, если результат нельзя передать клиенту (±Inf или NaN)
func CheckFinite(result float64) error {
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return NewCalcError("Result is not a finite number")
	}
	return nil
}

// IsCalcError сообщает, является ли err (или что-то в его цепочке) ошибкой вычисления
func IsCalcError(err error) bool {
	var calcErr *CalcError
	return errors.As(err, &calcErr)
}
