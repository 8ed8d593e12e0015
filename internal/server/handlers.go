package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/GGmuzem/calculator-api/internal/auth"
	"github.com/GGmuzem/calculator-api/internal/calculate"
	"github.com/GGmuzem/calculator-api/internal/database"
	"github.com/GGmuzem/calculator-api/pkg/models"
	"github.com/gorilla/mux"
)

// HealthHandler отвечает на проверку состояния
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Version: s.cfg.AppVersion,
	})
}

// IndexHandler отдает страницу калькулятора, а без неё краткую справку
func (s *Server) IndexHandler(w http.ResponseWriter, r *http.Request) {
	index := filepath.Join(s.cfg.StaticDir, "index.html")
	if info, err := os.Stat(index); err == nil && !info.IsDir() {
		http.ServeFile(w, r, index)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": s.cfg.AppName,
		"docs":    "/docs",
	})
}

// DocsHandler перечисляет зарегистрированные маршруты
func (s *Server) DocsHandler(w http.ResponseWriter, r *http.Request) {
	endpoints := []models.Endpoint{}
	err := s.router.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			// Подроутер без собственных методов
			return nil
		}
		endpoints = append(endpoints, models.Endpoint{Path: path, Methods: methods})
		return nil
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, models.DocsResponse{
		Title:     s.cfg.AppName,
		Version:   s.cfg.AppVersion,
		Endpoints: endpoints,
	})
}

// OperationHandler обрабатывает GET /{operation}?x=&y=
func (s *Server) OperationHandler(w http.ResponseWriter, r *http.Request) {
	operation := mux.Vars(r)["operation"]

	x, err := queryFloat(r, "x")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	y, err := queryFloat(r, "y")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.calculate(w, r, operation, x, y)
}

// CalcHandler обрабатывает POST /calc
func (s *Server) CalcHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CalculationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	switch {
	case req.Operation == nil:
		writeError(w, http.StatusUnprocessableEntity, "Field 'operation' is required")
		return
	case req.X == nil:
		writeError(w, http.StatusUnprocessableEntity, "Field 'x' is required")
		return
	case req.Y == nil:
		writeError(w, http.StatusUnprocessableEntity, "Field 'y' is required")
		return
	}

	s.calculate(w, r, *req.Operation, *req.X, *req.Y)
}

// calculate выполняет операцию, пишет историю и формирует ответ
func (s *Server) calculate(w http.ResponseWriter, r *http.Request, operation string, x, y float64) {
	result, err := s.service.Calculate(operation, x, y)
	if err == nil {
		err = calculate.CheckFinite(result)
	}
	if s.recorder != nil {
		s.recorder.Record(auth.UserIDFromContext(r.Context()), models.SourceHTTP, operation, x, y, result, err)
	}

	if err != nil {
		if calculate.IsCalcError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("Unexpected calculation error", "operation", operation, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, models.CalculationResponse{
		Operation: operation,
		X:         x,
		Y:         y,
		Result:    result,
	})
}

// OperationsHandler возвращает список поддерживаемых операций
func (s *Server) OperationsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.OperationsResponse{Operations: s.service.AvailableOperations()})
}

// RegisterHandler регистрирует пользователя
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := s.auth.RegisterUser(&req)
	switch {
	case errors.Is(err, auth.ErrEmptyCredentials):
		writeError(w, http.StatusUnprocessableEntity, "Login and password must not be empty")
		return
	case errors.Is(err, auth.ErrUserExists):
		writeError(w, http.StatusConflict, "User already exists")
		return
	case err != nil:
		s.logger.Error("Registration failed", "login", req.Login, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, models.RegisterResponse{ID: id, Login: req.Login})
}

// LoginHandler выдает JWT токен
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := s.auth.LoginUser(&req)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, "Invalid login or password")
		return
	}
	if err != nil {
		s.logger.Error("Login failed", "login", req.Login, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HistoryHandler возвращает страницу истории текущего пользователя
func (s *Server) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	limit, offset = database.NormalizePage(limit, offset)

	calcs, total, err := s.db.GetCalculations(user.ID, limit, offset)
	if err != nil {
		s.logger.Error("Failed to load calculation history", "user_id", user.ID, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if calcs == nil {
		calcs = []*models.Calculation{}
	}

	writeJSON(w, http.StatusOK, models.HistoryResponse{
		Calculations: calcs,
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	})
}

// queryFloat читает обязательный конечный float параметр запроса
func queryFloat(r *http.Request, name string) (float64, error) {
	q := r.URL.Query()
	if !q.Has(name) {
		return 0, fmt.Errorf("Query parameter '%s' is required", name)
	}
	v, err := strconv.ParseFloat(q.Get(name), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("Query parameter '%s' must be a finite number", name)
	}
	return v, nil
}

// queryInt читает необязательный целый параметр; отсутствие дает 0
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("Query parameter '%s' must be an integer", name)
	}
	return v, nil
}

// maxBodyBytes ограничение размера JSON тела запроса
const maxBodyBytes = 1 << 20

// decodeBody читает JSON тело не больше maxBodyBytes.
// При ошибке ответ уже записан и возвращается false.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		writeError(w, http.StatusUnprocessableEntity, decodeErrorDetail(err))
		return false
	}
	return true
}

func decodeErrorDetail(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("Field '%s' has invalid type: expected %s", typeErr.Field, typeErr.Type.String())
	}
	return "Invalid JSON body"
}
