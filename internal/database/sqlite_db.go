package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/GGmuzem/calculator-api/pkg/models"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

// SQLiteDB реализация интерфейса Database для SQLite
type SQLiteDB struct {
	db *sql.DB
}

// New создаёт и инициализирует новый экземпляр SQLite БД
func New(dbPath string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось проверить соединение с базой данных: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close закрывает соединение с БД
func (db *SQLiteDB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// MigrateDB выполняет миграцию базы данных
func (db *SQLiteDB) MigrateDB() error {
	// Создаем таблицу пользователей
	_, err := db.db.Exec(`
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		login TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("не удалось создать таблицу users: %w", err)
	}

	// Создаем таблицу истории вычислений
	_, err = db.db.Exec(`
	CREATE TABLE IF NOT EXISTS calculations (
		id TEXT PRIMARY KEY,
		user_id INTEGER,
		operation TEXT NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		result REAL,
		error TEXT,
		source TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users (id)
	)`)
	if err != nil {
		return fmt.Errorf("не удалось создать таблицу calculations: %w", err)
	}

	_, err = db.db.Exec(`
	CREATE INDEX IF NOT EXISTS idx_calculations_user_created
	ON calculations (user_id, created_at DESC)`)
	if err != nil {
		return fmt.Errorf("не удалось создать индекс calculations: %w", err)
	}

	return nil
}

// UserExists проверяет существование пользователя с указанным логином
func (db *SQLiteDB) UserExists(login string) (bool, error) {
	var count int
	err := db.db.QueryRow("SELECT COUNT(*) FROM users WHERE login = ?", login).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке существования пользователя: %w", err)
	}
	return count > 0, nil
}

// CreateUser создает нового пользователя, пароль сохраняется в виде bcrypt-хеша
func (db *SQLiteDB) CreateUser(user *models.User) (int, error) {
	exists, err := db.UserExists(user.Login)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("ошибка при хэшировании пароля: %w", err)
	}

	result, err := db.db.Exec(
		"INSERT INTO users (login, password, created_at) VALUES (?, ?, ?)",
		user.Login, string(hashedPassword), time.Now().Unix(),
	)
	if err != nil {
		// Параллельная регистрация могла успеть между проверкой и вставкой
		if isUniqueViolation(err) {
			return 0, ErrUserExists
		}
		return 0, fmt.Errorf("ошибка при сохранении пользователя: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ошибка при получении ID пользователя: %w", err)
	}

	return int(id), nil
}

// GetUserByLogin возвращает пользователя по логину
func (db *SQLiteDB) GetUserByLogin(login string) (*models.User, error) {
	return db.getUser("SELECT id, login, password FROM users WHERE login = ?", login)
}

// GetUserByID возвращает пользователя по ID
func (db *SQLiteDB) GetUserByID(id int) (*models.User, error) {
	return db.getUser("SELECT id, login, password FROM users WHERE id = ?", id)
}

func (db *SQLiteDB) getUser(query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := db.db.QueryRow(query, arg).Scan(&user.ID, &user.Login, &user.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// SaveCalculation сохраняет запись истории
func (db *SQLiteDB) SaveCalculation(calc *models.Calculation) error {
	var userID sql.NullInt64
	if calc.UserID != 0 {
		userID = sql.NullInt64{Int64: int64(calc.UserID), Valid: true}
	}

	var result sql.NullFloat64
	if calc.Result != nil {
		result = sql.NullFloat64{Float64: *calc.Result, Valid: true}
	}

	var errText sql.NullString
	if calc.Error != "" {
		errText = sql.NullString{String: calc.Error, Valid: true}
	}

	_, err := db.db.Exec(`
	INSERT INTO calculations (id, user_id, operation, x, y, result, error, source, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		calc.ID, userID, calc.Operation, calc.X, calc.Y, result, errText, calc.Source, calc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error saving calculation: %w", err)
	}
	return nil
}

// GetCalculations возвращает историю пользователя, новые записи первыми
func (db *SQLiteDB) GetCalculations(userID, limit, offset int) ([]*models.Calculation, int, error) {
	limit, offset = NormalizePage(limit, offset)

	var total int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM calculations WHERE user_id = ?", userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка при подсчете вычислений: %w", err)
	}

	rows, err := db.db.Query(`
	SELECT id, user_id, operation, x, y, result, error, source, created_at
	FROM calculations
	WHERE user_id = ?
	ORDER BY created_at DESC, rowid DESC
	LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка при получении вычислений: %w", err)
	}
	defer rows.Close()

	calculations := []*models.Calculation{}
	for rows.Next() {
		calc := &models.Calculation{}
		var (
			uid     sql.NullInt64
			result  sql.NullFloat64
			errText sql.NullString
		)
		if err := rows.Scan(&calc.ID, &uid, &calc.Operation, &calc.X, &calc.Y, &result, &errText, &calc.Source, &calc.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("ошибка при сканировании вычисления: %w", err)
		}

		if uid.Valid {
			calc.UserID = int(uid.Int64)
		}
		if result.Valid {
			r := result.Float64
			calc.Result = &r
		}
		if errText.Valid {
			calc.Error = errText.String
		}

		calculations = append(calculations, calc)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка при итерации результатов: %w", err)
	}

	return calculations, total, nil
}
