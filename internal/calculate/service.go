package calculate

// Logger - минимальный интерфейс структурированного логгера, нужный сервису
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// Service выполняет операции из реестра и пишет журнал каждого вызова
type Service struct {
	registry *Registry
	logger   Logger
}

// NewService создает сервис вычислений
func NewService(registry *Registry, logger Logger) *Service {
	return &Service{registry: registry, logger: logger}
}

// Calculate выполняет операцию над x и y.
// На каждый вызов пишется одна запись о попытке и ровно одна запись об успехе или ошибке.
func (s *Service) Calculate(operationName string, x, y float64) (float64, error) {
	s.logger.Info("Calculation requested", "operation", operationName, "x", x, "y", y)

	op, err := s.registry.Resolve(operationName)
	if err != nil {
		s.logFailure(operationName, x, y, err)
		return 0, err
	}

	result, err := op.Execute(x, y)
	if err != nil {
		s.logFailure(operationName, x, y, err)
		return 0, err
	}

	s.logger.Info("Calculation completed", "operation", operationName, "x", x, "y", y, "result", result)
	return result, nil
}

// AvailableOperations возвращает список поддерживаемых операций
func (s *Service) AvailableOperations() []string {
	return s.registry.Names()
}

func (s *Service) logFailure(operationName string, x, y float64, err error) {
	s.logger.Error("Calculation failed", "operation", operationName, "x", x, "y", y, "error", err.Error())
}
