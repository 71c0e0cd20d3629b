package port

import (
	"context"

	"mcq-grader/internal/domain/entity"
)

// UserRepository интерфейс хранилища пользователей бота и их сессий проверки
type UserRepository interface {
	// Get возвращает пользователя по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет пользователя вместе с ключом ответов и ведомостью
	Save(ctx context.Context, user *entity.User) error

	// UpdateState обновляет только состояние диалога
	UpdateState(ctx context.Context, userID int64, state entity.UserState) error
}
