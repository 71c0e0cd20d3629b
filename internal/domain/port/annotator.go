package port

import (
	"image"

	"mcq-grader/internal/domain/entity"
)

// SheetAnnotator интерфейс подсветки ответов на листе
type SheetAnnotator interface {
	// Annotate рисует рамки вокруг ответов и возвращает JPEG
	Annotate(img image.Image, key *entity.Metadata, report *entity.SheetReport) ([]byte, error)
}
