// Package history сохраняет каждое вычисление в хранилище истории.
package history

import (
	"time"

	"github.com/GGmuzem/calculator-api/internal/database"
	"github.com/GGmuzem/calculator-api/pkg/models"
	"github.com/google/uuid"
)

// Logger нужен для предупреждений о сбоях записи
type Logger interface {
	Warning(msg string, args ...any)
}

// Recorder пишет записи истории. Сбой записи не влияет на результат вычисления.
type Recorder struct {
	db     database.Database
	logger Logger
	now    func() time.Time
}

// NewRecorder создает Recorder
func NewRecorder(db database.Database, logger Logger) *Recorder {
	return &Recorder{db: db, logger: logger, now: time.Now}
}

// Record сохраняет результат вычисления. calcErr != nil означает неудачное вычисление.
// Анонимные вычисления (userID == 0) не сохраняются: прочитать их некому.
func (r *Recorder) Record(userID int, source, operation string, x, y, result float64, calcErr error) *models.Calculation {
	calc := &models.Calculation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Operation: operation,
		X:         x,
		Y:         y,
		Source:    source,
		CreatedAt: r.now().Unix(),
	}
	if calcErr != nil {
		calc.Error = calcErr.Error()
	} else {
		calc.Result = &result
	}

	if userID == 0 {
		return calc
	}

	if err := r.db.SaveCalculation(calc); err != nil {
		r.logger.Warning("Failed to save calculation history",
			"id", calc.ID, "operation", operation, "error", err.Error())
	}
	return calc
}
