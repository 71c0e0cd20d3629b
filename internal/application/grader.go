package app

import (
	"context"
	"errors"
	"fmt"
	"image"

	"mcq-grader/internal/domain/entity"
	"mcq-grader/internal/domain/port"
)

// SheetGrader проверяет лист студента по ключу ответов
type SheetGrader struct {
	classifier port.RegionClassifier
	loader     port.ImageLoader
}

// NewSheetGrader создаёт проверяющего
func NewSheetGrader(classifier port.RegionClassifier, loader port.ImageLoader) *SheetGrader {
	return &SheetGrader{classifier: classifier, loader: loader}
}

// Inspect проверяет лист и возвращает результат по каждому вопросу.
// Ответом студента считается первый вариант с меткой confirmed; если такого
// нет, вопрос засчитывается как неверный.
func (g *SheetGrader) Inspect(ctx context.Context, img image.Image, key *entity.Metadata) (*entity.SheetReport, error) {
	if g.classifier == nil {
		return nil, entity.NewMissingResourceError("", errors.New("classifier is not configured"))
	}
	if key == nil {
		return nil, entity.NewInvalidMetadataError("metadata is missing")
	}
	if err := checkImage(img, ""); err != nil {
		return nil, err
	}

	report := &entity.SheetReport{Answers: make([]entity.AnswerCheck, 0, len(key.Questions))}
	score := 0
	for qi, q := range key.Questions {
		student := -1
		for oi, opt := range q.Options {
			label, err := classifyOption(ctx, g.classifier, img, opt)
			if err != nil {
				return nil, fmt.Errorf("question %d: %w", qi+1, err)
			}
			if label.IsConfirmed() {
				student = oi
				break
			}
		}

		correct := student >= 0 && q.Confirmed != nil && q.Options[student] == *q.Confirmed
		if correct {
			score++
		}
		report.Answers = append(report.Answers, entity.AnswerCheck{
			Question: qi + 1,
			Student:  student,
			Expected: q.ConfirmedIndex(),
			Correct:  correct,
		})
	}

	report.Score = entity.NewScore(score, len(key.Questions))
	return report, nil
}

// GradeOne возвращает (score, total, percentage) для листа
func (g *SheetGrader) GradeOne(ctx context.Context, img image.Image, key *entity.Metadata) (entity.Score, error) {
	report, err := g.Inspect(ctx, img, key)
	if err != nil {
		return entity.Score{}, err
	}
	return report.Score, nil
}

// GradeFile загружает лист из файла и проверяет его
func (g *SheetGrader) GradeFile(ctx context.Context, path string, key *entity.Metadata) (entity.Score, error) {
	img, err := g.loader.Load(ctx, path)
	if err != nil {
		return entity.Score{}, err
	}
	return g.GradeOne(ctx, img, key)
}

// GradeSource проверяет лист, заданный путём или содержимым
func (g *SheetGrader) GradeSource(ctx context.Context, sheet entity.SheetSource, key *entity.Metadata) (entity.Score, error) {
	if sheet.Data == nil {
		return g.GradeFile(ctx, sheet.Path, key)
	}
	img, err := g.loader.Decode(ctx, sheet.Name, sheet.Data)
	if err != nil {
		return entity.Score{}, err
	}
	return g.GradeOne(ctx, img, key)
}
