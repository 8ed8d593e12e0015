package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config настройки сервиса. Влияют только на представление и окружение, не на вычисления.
type Config struct {
	AppName         string
	AppVersion      string
	Debug           bool
	HTTPPort        string
	GRPCPort        string
	DBPath          string
	StaticDir       string
	JWTSecret       string
	TokenTTL        time.Duration
	ShutdownTimeout time.Duration
}

// Значения по умолчанию
const (
	DefaultAppName         = "Calculator API"
	DefaultAppVersion      = "1.0.0"
	DefaultHTTPPort        = "8080"
	DefaultGRPCPort        = "50052"
	DefaultDBPath          = "./calculator.db"
	DefaultStaticDir       = "./web/static"
	DefaultTokenTTL        = 24 * time.Hour
	DefaultShutdownTimeout = 30 * time.Second
)

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile читает переменные из envFile (если файл существует) и из окружения.
// Переменные окружения имеют приоритет над файлом.
func LoadFile(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("ошибка чтения %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", DefaultAppName)
	v.SetDefault("APP_VERSION", DefaultAppVersion)
	v.SetDefault("DEBUG", false)
	v.SetDefault("HTTP_PORT", DefaultHTTPPort)
	v.SetDefault("GRPC_PORT", DefaultGRPCPort)
	v.SetDefault("DB_PATH", DefaultDBPath)
	v.SetDefault("STATIC_DIR", DefaultStaticDir)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", DefaultTokenTTL)
	v.SetDefault("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout)

	cfg := &Config{
		AppName:         v.GetString("APP_NAME"),
		AppVersion:      v.GetString("APP_VERSION"),
		Debug:           v.GetBool("DEBUG"),
		HTTPPort:        v.GetString("HTTP_PORT"),
		GRPCPort:        v.GetString("GRPC_PORT"),
		DBPath:          v.GetString("DB_PATH"),
		StaticDir:       v.GetString("STATIC_DIR"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		TokenTTL:        v.GetDuration("TOKEN_TTL"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
	}

	if cfg.JWTSecret == "" {
		// Без секрета токены живут только до перезапуска процесса
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.JWTSecret = secret
		log.Println("JWT_SECRET не указан, сгенерирован временный ключ")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT must not be empty")
	}
	if c.GRPCPort == c.HTTPPort {
		return fmt.Errorf("HTTP_PORT and GRPC_PORT must differ, both are %s", c.HTTPPort)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// HTTPAddr адрес HTTP сервера
func (c *Config) HTTPAddr() string {
	return ":" + c.HTTPPort
}

// GRPCAddr адрес gRPC сервера. Пустой GRPC_PORT отключает gRPC.
func (c *Config) GRPCAddr() string {
	if c.GRPCPort == "" {
		return ""
	}
	return ":" + c.GRPCPort
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("не удалось сгенерировать JWT секрет: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
