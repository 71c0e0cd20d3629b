package port

import (
	"context"

	"mcq-grader/internal/domain/entity"
)

// ResultStore интерфейс хранилища результатов проверки
type ResultStore interface {
	// SaveResults сохраняет результаты сессии проверки (перезаписывая прежние)
	SaveResults(ctx context.Context, sessionID string, results []entity.GradingResult) error

	// Results возвращает результаты сессии в исходном порядке
	Results(ctx context.Context, sessionID string) ([]entity.GradingResult, error)
}
