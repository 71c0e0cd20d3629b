package port

import (
	"context"
	"image"

	"mcq-grader/internal/domain/entity"
)

// RegionClassifier интерфейс классификатора области варианта
type RegionClassifier interface {
	// Classify возвращает метку для вырезанной области листа
	Classify(ctx context.Context, region image.Image) (entity.Label, error)

	// Ready проверяет, что модель доступна (и загружает её при первом вызове)
	Ready(ctx context.Context) error
}
