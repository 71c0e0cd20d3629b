//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"

	"gocv.io/x/gocv"

	"mcq-grader/internal/domain/entity"
	"mcq-grader/internal/domain/port"
)

// GoCVAnnotator рисует на листе правильные ответы и ответы студента.
type GoCVAnnotator struct {
	Thickness int
}

// NewGoCVAnnotator создаёт аннотатор с толщиной рамки по умолчанию.
func NewGoCVAnnotator() *GoCVAnnotator {
	return &GoCVAnnotator{Thickness: 3}
}

// Annotate обводит правильный вариант синим, ответ студента зелёным (верно) или красным (неверно).
func (a *GoCVAnnotator) Annotate(img image.Image, key *entity.Metadata, report *entity.SheetReport) ([]byte, error) {
	if img == nil || key == nil || report == nil {
		return nil, errors.New("nothing to annotate")
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, errors.New("empty image")
	}

	blue := color.RGBA{B: 255, A: 255}
	green := color.RGBA{G: 200, A: 255}
	red := color.RGBA{R: 255, A: 255}

	layout := key.Layout()
	offset := img.Bounds().Min
	for _, answer := range report.Answers {
		qi := answer.Question - 1
		if qi < 0 || qi >= len(layout.Questions) {
			continue
		}
		options := layout.Questions[qi].Options

		if answer.Expected >= 0 && answer.Expected < len(options) && !answer.Correct {
			gocv.Rectangle(&mat, options[answer.Expected].Bounds().Sub(offset), blue, a.Thickness)
		}
		if answer.Student >= 0 && answer.Student < len(options) {
			c := red
			if answer.Correct {
				c = green
			}
			gocv.Rectangle(&mat, options[answer.Student].Bounds().Sub(offset), c, a.Thickness)
		}
	}

	out, err := mat.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Проверка реализации интерфейса
var _ port.SheetAnnotator = (*GoCVAnnotator)(nil)
