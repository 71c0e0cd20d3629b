package app

import (
	"context"
	"errors"
	"image"
	"image/color"

	"mcq-grader/internal/domain/entity"
)

var (
	markConfirmed = color.RGBA{R: 255, A: 255}
	markCrossed   = color.RGBA{G: 255, A: 255}
)

// paintClassifier определяет метку по цвету центра области:
// красный — confirmed, зелёный — crossedout, иначе empty.
type paintClassifier struct {
	calls    int
	readyErr error
	failOn   *entity.Rect
}

func (c *paintClassifier) Classify(ctx context.Context, region image.Image) (entity.Label, error) {
	c.calls++
	b := region.Bounds()
	if c.failOn != nil && b == c.failOn.Bounds() {
		return "", errors.New("inference failed")
	}
	r, g, _, _ := region.At((b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2).RGBA()
	switch {
	case r > 0xf000:
		return entity.LabelConfirmed, nil
	case g > 0xf000:
		return entity.LabelCrossedOut, nil
	}
	return entity.LabelEmpty, nil
}

func (c *paintClassifier) Ready(ctx context.Context) error {
	return c.readyErr
}

// mapLoader отдаёт заранее подготовленные изображения по имени.
type mapLoader struct {
	images map[string]image.Image
}

func (l *mapLoader) Load(ctx context.Context, path string) (image.Image, error) {
	img, ok := l.images[path]
	if !ok {
		return nil, entity.NewImageLoadError(path, errors.New("no such file"))
	}
	return img, nil
}

func (l *mapLoader) Decode(ctx context.Context, name string, data []byte) (image.Image, error) {
	if string(data) == "junk" {
		return nil, entity.NewImageLoadError(name, errors.New("unknown format"))
	}
	return l.Load(ctx, name)
}

// paintSheet рисует лист стандартной разметки; answers[i] — отмеченный вариант
// вопроса i (-1 — ничего не отмечено). Остальные варианты остаются пустыми.
func paintSheet(answers ...int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1000, 1920))
	layout := entity.DefaultLayout()
	for qi, a := range answers {
		if a < 0 {
			continue
		}
		fill(img, layout.Questions[qi].Options[a], markConfirmed)
	}
	return img
}

func fill(img *image.RGBA, r entity.Rect, c color.RGBA) {
	b := r.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}
