package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_NAME", "APP_VERSION", "DEBUG", "HTTP_PORT", "GRPC_PORT", "DB_PATH",
	"STATIC_DIR", "JWT_SECRET", "TOKEN_TTL", "SHUTDOWN_TIMEOUT",
}

// clearEnv снимает все переменные конфигурации и восстанавливает их после теста
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, old) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, DefaultAppName, cfg.AppName)
	assert.Equal(t, DefaultAppVersion, cfg.AppVersion)
	assert.False(t, cfg.Debug)
	assert.Equal(t, ":8080", cfg.HTTPAddr())
	assert.Equal(t, ":50052", cfg.GRPCAddr())
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, DefaultStaticDir, cfg.StaticDir)
	assert.Equal(t, DefaultTokenTTL, cfg.TokenTTL)
	assert.Equal(t, DefaultShutdownTimeout, cfg.ShutdownTimeout)
	assert.Len(t, cfg.JWTSecret, 64, "a random secret is generated when none is configured")
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_NAME", "Test Calc")
	t.Setenv("APP_VERSION", "2.3.4")
	t.Setenv("DEBUG", "true")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("GRPC_PORT", "")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")

	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, "Test Calc", cfg.AppName)
	assert.Equal(t, "2.3.4", cfg.AppVersion)
	assert.True(t, cfg.Debug)
	assert.Equal(t, ":9090", cfg.HTTPAddr())
	assert.Empty(t, cfg.GRPCAddr(), "empty GRPC_PORT disables gRPC")
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_VERSION", "from-env")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "APP_NAME=File Calc\nAPP_VERSION=from-file\nJWT_SECRET=file-secret\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	cfg, err := LoadFile(envFile)
	require.NoError(t, err)

	assert.Equal(t, "File Calc", cfg.AppName)
	assert.Equal(t, "from-env", cfg.AppVersion, "environment wins over .env")
	assert.Equal(t, "file-secret", cfg.JWTSecret)
}

func TestLoadMissingEnvFile(t *testing.T) {
	clearEnv(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{HTTPPort: "8080", GRPCPort: "50052", TokenTTL: time.Hour, ShutdownTimeout: time.Second}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty http port", func(c *Config) { c.HTTPPort = "" }},
		{"same ports", func(c *Config) { c.GRPCPort = c.HTTPPort }},
		{"zero ttl", func(c *Config) { c.TokenTTL = 0 }},
		{"negative shutdown", func(c *Config) { c.ShutdownTimeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
