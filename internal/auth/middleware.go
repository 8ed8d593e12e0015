package auth

import (
	"encoding/json"
	"net/http"

	"github.com/GGmuzem/calculator-api/pkg/models"
)

// Middleware пропускает только запросы с действительным токеном
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.Authenticate(r)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("WWW-Authenticate", "Bearer")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(models.ErrorResponse{Detail: "Not authenticated"})
			return
		}

		next.ServeHTTP(w, r.WithContext(SetUserContext(r.Context(), user)))
	})
}

// OptionalMiddleware добавляет пользователя в контекст, если токен действителен.
// Запросы без токена или с неверным токеном проходят анонимно.
func (a *Authenticator) OptionalMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ExtractTokenFromRequest(r) != "" {
			if user, err := a.Authenticate(r); err == nil {
				r = r.WithContext(SetUserContext(r.Context(), user))
			}
		}
		next.ServeHTTP(w, r)
	})
}
