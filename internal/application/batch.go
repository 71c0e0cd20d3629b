package app

import (
	"context"
	"log"
	"path/filepath"

	"mcq-grader/internal/domain/entity"
	"mcq-grader/internal/domain/port"
)

// BatchRunner проверяет пачку листов, изолируя ошибки отдельных листов
type BatchRunner struct {
	grader     *SheetGrader
	classifier port.RegionClassifier
}

// NewBatchRunner создаёт обработчик пачки листов
func NewBatchRunner(grader *SheetGrader, classifier port.RegionClassifier) *BatchRunner {
	return &BatchRunner{grader: grader, classifier: classifier}
}

// GradeMany проверяет листы по очереди и возвращает по одному результату на лист
// в исходном порядке. Ошибка возвращается только если недоступен классификатор
// или некорректен ключ ответов.
func (b *BatchRunner) GradeMany(ctx context.Context, sheets []entity.SheetSource, key *entity.Metadata) ([]entity.GradingResult, error) {
	if b.classifier == nil {
		return nil, entity.NewMissingResourceError("", nil)
	}
	if err := b.classifier.Ready(ctx); err != nil {
		return nil, err
	}
	if err := key.Validate(); err != nil {
		return nil, err
	}

	results := make([]entity.GradingResult, 0, len(sheets))
	for _, sheet := range sheets {
		name := sheetName(sheet)
		score, err := b.grader.GradeSource(ctx, sheet, key)
		if err != nil {
			log.Printf("Error grading sheet %s: %v", name, err)
			results = append(results, entity.NewFailedResult(name, err))
			continue
		}
		results = append(results, entity.NewGradingResult(name, score))
	}

	return results, nil
}

func sheetName(sheet entity.SheetSource) string {
	if sheet.Name != "" {
		return sheet.Name
	}
	return filepath.Base(sheet.Path)
}
