package calculate

import "strings"

// Имена поддерживаемых операций
const (
	OpAdd      = "add"
	OpSubtract = "subtract"
	OpMultiply = "multiply"
	OpDivide   = "divide"
)

// Operation - именованная бинарная арифметическая операция
type Operation interface {
	Name() string
	Execute(x, y float64) (float64, error)
}

type binaryOp struct {
	name string
	fn   func(x, y float64) (float64, error)
}

func (o binaryOp) Name() string { return o.name }

func (o binaryOp) Execute(x, y float64) (float64, error) { return o.fn(x, y) }

func add(x, y float64) (float64, error) { return x + y, nil }

func subtract(x, y float64) (float64, error) { return x - y, nil }

func multiply(x, y float64) (float64, error) { return x * y, nil }

func divide(x, y float64) (float64, error) {
	// Точное сравнение, без эпсилона
	if y == 0 {
		return 0, DivisionByZeroError()
	}
	return x / y, nil
}

// Registry хранит операции по имени в нижнем регистре.
// Заполняется один раз в NewRegistry и дальше только читается.
type Registry struct {
	operations map[string]Operation
	names      []string
}

// NewRegistry создает реестр с четырьмя базовыми операциями
func NewRegistry() *Registry {
	r := &Registry{operations: make(map[string]Operation, 4)}
	r.register(&binaryOp{name: OpAdd, fn: add})
	r.register(&binaryOp{name: OpSubtract, fn: subtract})
	r.register(&binaryOp{name: OpMultiply, fn: multiply})
	r.register(&binaryOp{name: OpDivide, fn: divide})
	return r
}

func (r *Registry) register(op Operation) {
	r.operations[op.Name()] = op
	r.names = append(r.names, op.Name())
}

// Resolve возвращает операцию по имени без учета регистра
func (r *Registry) Resolve(name string) (Operation, error) {
	op, ok := r.operations[strings.ToLower(name)]
	if !ok {
		return nil, InvalidOperationError(name, r.names)
	}
	return op, nil
}

// Names возвращает имена операций в порядке регистрации
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}
