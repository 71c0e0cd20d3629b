package vision

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"mcq-grader/internal/domain/entity"
	"mcq-grader/internal/domain/port"
)

// FileImageLoader декодирует листы из файлов и байтов (jpeg, png, bmp, tiff, webp).
type FileImageLoader struct{}

// NewFileImageLoader создаёт загрузчик изображений
func NewFileImageLoader() *FileImageLoader {
	return &FileImageLoader{}
}

// Load читает файл и декодирует изображение
func (l *FileImageLoader) Load(ctx context.Context, path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, entity.NewImageLoadError(path, err)
	}
	return l.Decode(ctx, path, data)
}

// Decode декодирует изображение; пустое изображение даёт ErrInvalidImage
func (l *FileImageLoader) Decode(ctx context.Context, name string, data []byte) (image.Image, error) {
	_ = ctx
	if len(data) == 0 {
		return nil, entity.NewImageLoadError(name, errors.New("no image data"))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, entity.NewImageLoadError(name, err)
	}
	if img.Bounds().Empty() {
		return nil, entity.NewInvalidImageError(name, nil)
	}

	return img, nil
}

// Проверка реализации интерфейса
var _ port.ImageLoader = (*FileImageLoader)(nil)
