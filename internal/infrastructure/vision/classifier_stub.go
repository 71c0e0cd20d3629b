//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"
	"image"

	"mcq-grader/internal/domain/entity"
	"mcq-grader/internal/domain/port"
)

// GoCVClassifier классификатор-заглушка (без OpenCV).
type GoCVClassifier struct {
	ModelPath string
	InputSize int
}

// NewGoCVClassifier создаёт классификатор-заглушку.
func NewGoCVClassifier(modelPath string) *GoCVClassifier {
	return &GoCVClassifier{
		ModelPath: modelPath,
		InputSize: InputSize,
	}
}

// Ready возвращает ошибку, если сборка без тега gocv.
func (c *GoCVClassifier) Ready(ctx context.Context) error {
	_ = ctx
	return entity.NewMissingResourceError(c.ModelPath, errors.New("gocv build tag is not enabled"))
}

// Classify возвращает ошибку, если сборка без тега gocv.
func (c *GoCVClassifier) Classify(ctx context.Context, region image.Image) (entity.Label, error) {
	_ = region
	return "", c.Ready(ctx)
}

// Close ничего не делает.
func (c *GoCVClassifier) Close() error {
	return nil
}

var _ port.RegionClassifier = (*GoCVClassifier)(nil)
