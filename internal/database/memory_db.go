package database

import (
	"sort"
	"sync"

	"github.com/GGmuzem/calculator-api/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

// MemoryDB реализация БД в памяти без использования SQLite
type MemoryDB struct {
	users        map[string]*models.User
	userByID     map[int]*models.User
	calculations []*models.Calculation
	mutex        sync.RWMutex
	userIDSeq    int
}

// NewMemoryDB создает новую in-memory БД
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		users:     make(map[string]*models.User),
		userByID:  make(map[int]*models.User),
		userIDSeq: 1,
	}
}

// Close просто заглушка для совместимости
func (db *MemoryDB) Close() error {
	return nil
}

// MigrateDB для in-memory не требуется миграция
func (db *MemoryDB) MigrateDB() error {
	return nil
}

// UserExists проверяет существование пользователя с указанным логином
func (db *MemoryDB) UserExists(login string) (bool, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	_, exists := db.users[login]
	return exists, nil
}

// CreateUser создает нового пользователя
func (db *MemoryDB) CreateUser(user *models.User) (int, error) {
	// Хешируем пароль до захвата блокировки
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, exists := db.users[user.Login]; exists {
		return 0, ErrUserExists
	}

	userID := db.userIDSeq
	db.userIDSeq++

	newUser := &models.User{
		ID:       userID,
		Login:    user.Login,
		Password: string(hashedPassword),
	}

	db.users[user.Login] = newUser
	db.userByID[userID] = newUser

	return userID, nil
}

// GetUserByLogin возвращает пользователя по логину
func (db *MemoryDB) GetUserByLogin(login string) (*models.User, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	user, exists := db.users[login]
	if !exists {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// GetUserByID возвращает пользователя по ID
func (db *MemoryDB) GetUserByID(id int) (*models.User, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	user, exists := db.userByID[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// SaveCalculation сохраняет копию записи истории
func (db *MemoryDB) SaveCalculation(calc *models.Calculation) error {
	copied := *calc
	if calc.Result != nil {
		r := *calc.Result
		copied.Result = &r
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	db.calculations = append(db.calculations, &copied)
	return nil
}

// GetCalculations возвращает историю пользователя, новые записи первыми
func (db *MemoryDB) GetCalculations(userID, limit, offset int) ([]*models.Calculation, int, error) {
	limit, offset = NormalizePage(limit, offset)

	db.mutex.RLock()
	var owned []*models.Calculation
	// Обходим с конца, чтобы при равном времени новые шли первыми
	for i := len(db.calculations) - 1; i >= 0; i-- {
		if db.calculations[i].UserID == userID {
			owned = append(owned, db.calculations[i])
		}
	}
	db.mutex.RUnlock()

	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].CreatedAt > owned[j].CreatedAt
	})

	total := len(owned)
	page := []*models.Calculation{}
	if offset >= total {
		return page, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	for _, calc := range owned[offset:end] {
		copied := *calc
		page = append(page, &copied)
	}
	return page, total, nil
}
