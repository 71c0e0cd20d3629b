package port

import (
	"context"
	"image"
)

// ImageLoader интерфейс загрузки изображений листов
type ImageLoader interface {
	// Load читает и декодирует изображение из файла
	Load(ctx context.Context, path string) (image.Image, error)

	// Decode декодирует изображение из байтов
	Decode(ctx context.Context, name string, data []byte) (image.Image, error)
}
