package entity

import (
	"encoding/json"
	"fmt"
	"image"
)

// Rect описывает прямоугольник варианта ответа на листе
type Rect struct {
	X      int `yaml:"x"` // координата X левого верхнего угла
	Y      int `yaml:"y"` // координата Y левого верхнего угла
	Width  int `yaml:"w"` // ширина области в пикселях
	Height int `yaml:"h"` // высота области в пикселях
}

// NewRect создаёт прямоугольник из четырёх чисел (x, y, w, h)
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Bounds переводит прямоугольник в image.Rectangle
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Tuple возвращает прямоугольник в виде (x, y, w, h)
func (r Rect) Tuple() [4]int {
	return [4]int{r.X, r.Y, r.Width, r.Height}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", r.X, r.Y, r.Width, r.Height)
}

// Crop вырезает область прямоугольника из изображения.
// Частично выходящий за границы прямоугольник обрезается по изображению,
// полностью выходящий даёт ErrInvalidRegion.
func (r Rect) Crop(img image.Image) (image.Image, error) {
	if img == nil {
		return nil, NewInvalidImageError("", nil)
	}
	region := r.Bounds().Intersect(img.Bounds())
	if region.Empty() {
		return nil, NewInvalidRegionError(r, img.Bounds())
	}

	type subImager interface {
		SubImage(image.Rectangle) image.Image
	}
	if s, ok := img.(subImager); ok {
		return s.SubImage(region), nil
	}

	// Для изображений без SubImage копируем пиксели.
	dst := image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			dst.Set(x-region.Min.X, y-region.Min.Y, img.At(x, y))
		}
	}
	return dst, nil
}

// MarshalJSON кодирует прямоугольник как [x, y, w, h]
func (r Rect) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Tuple())
}

// UnmarshalJSON принимает прямоугольник в виде [x, y, w, h]
func (r *Rect) UnmarshalJSON(data []byte) error {
	var tuple []int
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("rect must be an array of 4 integers: %w", err)
	}
	if len(tuple) != 4 {
		return fmt.Errorf("rect must have 4 integers, got %d", len(tuple))
	}
	*r = NewRect(tuple[0], tuple[1], tuple[2], tuple[3])
	return nil
}
