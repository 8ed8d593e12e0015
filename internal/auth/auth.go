package auth

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/GGmuzem/calculator-api/internal/database"
	"github.com/GGmuzem/calculator-api/pkg/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Ошибки
var (
	ErrInvalidCredentials = errors.New("неверный логин или пароль")
	ErrInvalidToken       = errors.New("неверный или истекший токен")
	ErrUserExists         = errors.New("пользователь с таким логином уже существует")
	ErrEmptyCredentials   = errors.New("логин и пароль не могут быть пустыми")
)

// DefaultTokenTTL время жизни токена по умолчанию
const DefaultTokenTTL = 24 * time.Hour

// Claims структура для JWT-токена
type Claims struct {
	UserID int    `json:"user_id"`
	Login  string `json:"login"`
	jwt.RegisteredClaims
}

// Authenticator регистрирует пользователей и выдает/проверяет JWT токены
type Authenticator struct {
	db     database.Database
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New создает Authenticator. Пустой secret недопустим.
func New(db database.Database, secret string, ttl time.Duration) (*Authenticator, error) {
	if secret == "" {
		return nil, errors.New("JWT secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Authenticator{db: db, secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// GenerateToken создает JWT токен для пользователя и возвращает время его истечения
func (a *Authenticator) GenerateToken(user *models.User) (string, time.Time, error) {
	now := a.now()
	expirationTime := now.Add(a.ttl)

	claims := &Claims{
		UserID: user.ID,
		Login:  user.Login,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("ошибка при создании JWT токена: %w", err)
	}

	return tokenString, expirationTime, nil
}

// ValidateToken проверяет и валидирует JWT токен
func (a *Authenticator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверяем метод подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// ExtractTokenFromRequest извлекает токен из заголовка Authorization
func ExtractTokenFromRequest(r *http.Request) string {
	bearerToken := r.Header.Get("Authorization")

	// Проверяем формат Bearer token
	if len(bearerToken) > 7 && strings.ToUpper(bearerToken[0:7]) == "BEARER " {
		return strings.TrimSpace(bearerToken[7:])
	}

	return ""
}

// RegisterUser регистрирует нового пользователя и возвращает его ID
func (a *Authenticator) RegisterUser(req *models.RegisterRequest) (int, error) {
	if strings.TrimSpace(req.Login) == "" || req.Password == "" {
		return 0, ErrEmptyCredentials
	}

	id, err := a.db.CreateUser(&models.User{Login: req.Login, Password: req.Password})
	if errors.Is(err, database.ErrUserExists) {
		return 0, ErrUserExists
	}
	if err != nil {
		return 0, err
	}

	log.Printf("Пользователь %s зарегистрирован с ID %d", req.Login, id)
	return id, nil
}

// LoginUser аутентифицирует пользователя и возвращает данные для ответа с токеном
func (a *Authenticator) LoginUser(req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := a.db.GetUserByLogin(req.Login)
	if err != nil {
		if !errors.Is(err, database.ErrUserNotFound) {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expires, err := a.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		Token:   token,
		UserID:  user.ID,
		Login:   user.Login,
		Expires: expires.UTC().Format(time.RFC3339),
	}, nil
}

// Authenticate проверяет токен запроса и существование пользователя
func (a *Authenticator) Authenticate(r *http.Request) (*models.User, error) {
	return a.AuthenticateToken(ExtractTokenFromRequest(r))
}

// AuthenticateToken проверяет токен и возвращает пользователя из хранилища
func (a *Authenticator) AuthenticateToken(tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims, err := a.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := a.db.GetUserByID(claims.UserID)
	if err != nil || user.Login != claims.Login {
		return nil, ErrInvalidToken
	}
	return user, nil
}
