// Package logger пишет структурированный журнал: одна JSON-строка на каждый вызов.
package logger

import (
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"time"
)

// Name - фиксированный идентификатор логгера в каждой записи
const Name = "calculator"

const timestampLayout = "2006-01-02T15:04:05.000000"

// StructuredLogger пишет записи вида
// {"timestamp":"...Z","level":"INFO","logger":"calculator","message":"...", ...контекст}.
// Фильтрации по уровню нет, каждый вызов дает одну строку.
type StructuredLogger struct {
	logger *slog.Logger
}

// New создает логгер, пишущий в w
func New(w io.Writer) *StructuredLogger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       slog.LevelDebug,
		ReplaceAttr: replaceAttr,
	})
	return &StructuredLogger{logger: slog.New(handler).With("logger", Name)}
}

// NewStdout создает логгер, пишущий в стандартный вывод
func NewStdout() *StructuredLogger {
	return New(os.Stdout)
}

// Info пишет запись уровня INFO. args - пары ключ/значение
func (l *StructuredLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Warning пишет запись уровня WARNING
func (l *StructuredLogger) Warning(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Error пишет запись уровня ERROR
func (l *StructuredLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// Debug пишет запись уровня DEBUG
func (l *StructuredLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// replaceAttr переименовывает служебные поля slog в формат журнала
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	// JSON не умеет ±Inf и NaN, пишем их строкой
	if a.Value.Kind() == slog.KindFloat64 {
		if v := a.Value.Float64(); math.IsInf(v, 0) || math.IsNaN(v) {
			return slog.String(a.Key, strconv.FormatFloat(v, 'g', -1, 64))
		}
	}

	switch a.Key {
	case slog.TimeKey:
		if a.Value.Kind() != slog.KindTime {
			return a
		}
		return slog.String("timestamp", formatTimestamp(a.Value.Time()))
	case slog.LevelKey:
		level, ok := a.Value.Any().(slog.Level)
		if !ok {
			return a
		}
		return slog.String("level", levelName(level))
	case slog.MessageKey:
		return slog.String("message", a.Value.String())
	}
	return a
}

func levelName(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARNING"
	default:
		return "ERROR"
	}
}

// formatTimestamp возвращает время в UTC в формате ISO-8601 с суффиксом Z
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout) + "Z"
}
