package app

import (
	"context"
	"fmt"
	"image"

	"mcq-grader/internal/domain/entity"
	"mcq-grader/internal/domain/port"
)

// checkImage отбрасывает пустые изображения до классификации.
func checkImage(img image.Image, source string) error {
	if img == nil || img.Bounds().Empty() {
		return entity.NewInvalidImageError(source, nil)
	}
	return nil
}

// classifyOption вырезает область варианта и классифицирует её.
func classifyOption(ctx context.Context, classifier port.RegionClassifier, img image.Image, opt entity.Rect) (entity.Label, error) {
	region, err := opt.Crop(img)
	if err != nil {
		return "", err
	}
	label, err := classifier.Classify(ctx, region)
	if err != nil {
		return "", fmt.Errorf("classify option %s: %w", opt, err)
	}
	return label, nil
}
