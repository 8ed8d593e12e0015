package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/GGmuzem/calculator-api/pkg/models"
)

// MemoryPath - значение DB_PATH, при котором используется хранилище в памяти
const MemoryPath = ":memory:"

// Ошибки хранилища
var (
	ErrUserExists   = errors.New("пользователь с таким логином уже существует")
	ErrUserNotFound = errors.New("пользователь не найден")
)

// Database хранит пользователей и историю вычислений
type Database interface {
	Close() error
	MigrateDB() error

	UserExists(login string) (bool, error)
	CreateUser(user *models.User) (int, error)
	GetUserByLogin(login string) (*models.User, error)
	GetUserByID(id int) (*models.User, error)

	SaveCalculation(calc *models.Calculation) error
	// GetCalculations возвращает страницу истории пользователя (новые первыми) и общее число записей
	GetCalculations(userID, limit, offset int) ([]*models.Calculation, int, error)
}

// Open открывает хранилище по пути и выполняет миграции.
// Для ":memory:" возвращается MemoryDB, иначе SQLite-файл.
func Open(dbPath string) (Database, error) {
	if dbPath == MemoryPath {
		log.Println("Используется хранилище в памяти")
		return NewMemoryDB(), nil
	}

	// Убедимся, что директория существует
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating directory for database: %w", err)
	}

	db, err := New(dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.MigrateDB(); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("База данных открыта: %s", dbPath)
	return db, nil
}

// NormalizePage приводит параметры пагинации к допустимым значениям
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Размеры страницы истории
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
