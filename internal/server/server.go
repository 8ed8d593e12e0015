// Package server реализует HTTP API калькулятора.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/GGmuzem/calculator-api/internal/auth"
	"github.com/GGmuzem/calculator-api/internal/calculate"
	"github.com/GGmuzem/calculator-api/internal/config"
	"github.com/GGmuzem/calculator-api/internal/database"
	"github.com/GGmuzem/calculator-api/internal/history"
	"github.com/GGmuzem/calculator-api/internal/logger"
	"github.com/GGmuzem/calculator-api/pkg/models"
	"github.com/gorilla/mux"
)

// ServiceName имя сервиса в ответе /health
const ServiceName = "calculator"

// Server HTTP сервер калькулятора
type Server struct {
	cfg      *config.Config
	service  *calculate.Service
	auth     *auth.Authenticator
	db       database.Database
	recorder *history.Recorder
	logger   *logger.StructuredLogger
	router   *mux.Router
}

// New создает сервер и регистрирует маршруты
func New(cfg *config.Config, service *calculate.Service, authenticator *auth.Authenticator,
	db database.Database, recorder *history.Recorder, log *logger.StructuredLogger) *Server {
	s := &Server{
		cfg:      cfg,
		service:  service,
		auth:     authenticator,
		db:       db,
		recorder: recorder,
		logger:   log,
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	// Служебные маршруты
	r.HandleFunc("/health", s.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/", s.IndexHandler).Methods(http.MethodGet)
	r.HandleFunc("/docs", s.DocsHandler).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.StaticDir)))).Methods(http.MethodGet)

	// Вычисления доступны без авторизации; с токеном попадают в историю пользователя
	r.Handle("/{operation:add|subtract|multiply|divide}",
		s.auth.OptionalMiddleware(http.HandlerFunc(s.OperationHandler))).Methods(http.MethodGet)
	r.Handle("/calc", s.auth.OptionalMiddleware(http.HandlerFunc(s.CalcHandler))).Methods(http.MethodPost)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/operations", s.OperationsHandler).Methods(http.MethodGet)
	api.HandleFunc("/register", s.RegisterHandler).Methods(http.MethodPost)
	api.HandleFunc("/login", s.LoginHandler).Methods(http.MethodPost)
	api.Handle("/history", s.auth.Middleware(http.HandlerFunc(s.HistoryHandler))).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
}

// Handler возвращает корневой обработчик со всеми промежуточными слоями.
// CORS оборачивает роутер снаружи, чтобы preflight OPTIONS не упирался в 405.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	if s.cfg.Debug {
		h = requestLogging(s.logger, h)
	}
	return cors(h)
}

// HTTPServer создает http.Server на адресе из конфигурации
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.HTTPAddr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, models.ErrorResponse{Detail: detail})
}
