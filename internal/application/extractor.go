package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"

	"mcq-grader/internal/domain/entity"
	"mcq-grader/internal/domain/port"
)

// MetadataExtractor строит ключ ответов по эталонному листу
type MetadataExtractor struct {
	classifier port.RegionClassifier
	loader     port.ImageLoader
}

// NewMetadataExtractor создаёт извлекатель ключа ответов
func NewMetadataExtractor(classifier port.RegionClassifier, loader port.ImageLoader) *MetadataExtractor {
	return &MetadataExtractor{classifier: classifier, loader: loader}
}

// Extract классифицирует все варианты каждого вопроса эталона.
// Если отмечен ровно один вариант, он становится правильным ответом,
// иначе (ни одного или несколько) берётся первый вариант вопроса.
func (e *MetadataExtractor) Extract(ctx context.Context, img image.Image, layout entity.SheetLayout) (*entity.Metadata, error) {
	if e.classifier == nil {
		return nil, entity.NewMissingResourceError("", errors.New("classifier is not configured"))
	}
	if err := checkImage(img, ""); err != nil {
		return nil, err
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}

	meta := &entity.Metadata{Questions: make([]entity.QuestionKey, 0, len(layout.Questions))}
	for qi, q := range layout.Questions {
		first, confirmed := -1, 0
		for oi, opt := range q.Options {
			label, err := classifyOption(ctx, e.classifier, img, opt)
			if err != nil {
				return nil, fmt.Errorf("question %d: %w", qi+1, err)
			}
			if label.IsConfirmed() {
				confirmed++
				if first < 0 {
					first = oi
				}
			}
		}

		choice := first
		if confirmed != 1 {
			log.Printf("question %d: %d confirmed options in model answer, using first option", qi+1, confirmed)
			choice = 0
		}

		answer := q.Options[choice]
		meta.Questions = append(meta.Questions, entity.QuestionKey{
			Options:   append([]entity.Rect(nil), q.Options...),
			Confirmed: &answer,
		})
	}

	return meta, nil
}

// ExtractFile загружает эталон из файла и строит ключ ответов
func (e *MetadataExtractor) ExtractFile(ctx context.Context, path string, layout entity.SheetLayout) (*entity.Metadata, error) {
	img, err := e.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return e.Extract(ctx, img, layout)
}

// ExtractBytes декодирует эталон из байтов и строит ключ ответов
func (e *MetadataExtractor) ExtractBytes(ctx context.Context, name string, data []byte, layout entity.SheetLayout) (*entity.Metadata, error) {
	img, err := e.loader.Decode(ctx, name, data)
	if err != nil {
		return nil, err
	}
	return e.Extract(ctx, img, layout)
}
