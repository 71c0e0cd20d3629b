//go:build !gocv
// +build !gocv

package vision

import (
	"errors"
	"image"

	"mcq-grader/internal/domain/entity"
)

// GoCVAnnotator аннотатор-заглушка (без OpenCV).
type GoCVAnnotator struct {
	Thickness int
}

// NewGoCVAnnotator создаёт аннотатор-заглушку.
func NewGoCVAnnotator() *GoCVAnnotator {
	return &GoCVAnnotator{Thickness: 3}
}

// Annotate возвращает ошибку, если сборка без тега gocv.
func (a *GoCVAnnotator) Annotate(img image.Image, key *entity.Metadata, report *entity.SheetReport) ([]byte, error) {
	_ = img
	_ = key
	_ = report
	return nil, errors.New("gocv build tag is not enabled")
}
