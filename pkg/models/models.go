package models

// Источники вычислений
const (
	SourceHTTP = "http"
	SourceGRPC = "grpc"
)

// CalculationRequest тело запроса POST /calc.
// Указатели позволяют отличить отсутствующее поле от нулевого значения.
type CalculationRequest struct {
	Operation *string  `json:"operation"`
	X         *float64 `json:"x"`
	Y         *float64 `json:"y"`
}

// CalculationResponse результат успешного вычисления
type CalculationResponse struct {
	Operation string  `json:"operation"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Result    float64 `json:"result"`
}

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse ответ GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// OperationsResponse список поддерживаемых операций
type OperationsResponse struct {
	Operations []string `json:"operations"`
}

// Endpoint описание маршрута HTTP API
type Endpoint struct {
	Path    string   `json:"path"`
	Methods []string `json:"methods"`
}

// DocsResponse ответ GET /docs
type DocsResponse struct {
	Title     string     `json:"title"`
	Version   string     `json:"version"`
	Endpoints []Endpoint `json:"endpoints"`
}

// Calculation запись истории вычислений
type Calculation struct {
	ID        string   `json:"id"`
	UserID    int      `json:"user_id,omitempty"`
	Operation string   `json:"operation"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Result    *float64 `json:"result,omitempty"`
	Error     string   `json:"error,omitempty"`
	Source    string   `json:"source"`
	CreatedAt int64    `json:"created_at"`
}

// HistoryResponse страница истории пользователя
type HistoryResponse struct {
	Calculations []*Calculation `json:"calculations"`
	Total        int            `json:"total"`
	Limit        int            `json:"limit"`
	Offset       int            `json:"offset"`
}

// User представляет пользователя системы
type User struct {
	ID       int    `json:"id"`
	Login    string `json:"login"`
	Password string `json:"-"` // Не сериализуем пароль в JSON
}

// LoginRequest используется для запроса на вход
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginResponse ответ на успешный вход
type LoginResponse struct {
	Token   string `json:"token"`
	UserID  int    `json:"user_id"`
	Login   string `json:"login"`
	Expires string `json:"expires"`
}

// RegisterRequest используется для регистрации
type RegisterRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// RegisterResponse ответ на успешную регистрацию
type RegisterResponse struct {
	ID    int    `json:"id"`
	Login string `json:"login"`
}
