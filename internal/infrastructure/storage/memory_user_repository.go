package storage

import (
	"context"
	"sync"

	"mcq-grader/internal/domain/entity"
	"mcq-grader/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище пользователей бота и их сессий проверки.
// Наружу отдаются копии, поэтому изменения видны только после Save.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]*entity.User
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]*entity.User),
	}
}

// Get возвращает пользователя по ID, создаёт нового если не найден
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.RLock()
	user, exists := r.users[userID]
	if exists {
		user = cloneUser(user)
	}
	r.mu.RUnlock()

	if exists {
		return user, nil
	}

	// Создаём нового пользователя
	newUser := entity.NewUser(userID, chatID)

	r.mu.Lock()
	if existing, ok := r.users[userID]; ok {
		newUser = existing
	} else {
		r.users[userID] = newUser
	}
	user = cloneUser(newUser)
	r.mu.Unlock()

	return user, nil
}

// Save сохраняет состояние пользователя
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	r.users[user.ID] = cloneUser(user)
	r.mu.Unlock()

	return nil
}

// UpdateState обновляет состояние пользователя
func (r *MemoryUserRepository) UpdateState(ctx context.Context, userID int64, state entity.UserState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, exists := r.users[userID]; exists {
		user.SetState(state)
	}

	return nil
}

// cloneUser копирует пользователя вместе с ведомостью; ключ ответов не меняется и делится.
func cloneUser(u *entity.User) *entity.User {
	clone := *u
	clone.Results = append([]entity.GradingResult(nil), u.Results...)
	return &clone
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
