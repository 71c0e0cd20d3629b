package vision

import (
	"encoding/binary"
	"image"
	"math"

	"golang.org/x/image/draw"

	"mcq-grader/internal/domain/entity"
)

// InputSize сторона квадратного входа модели
const InputSize = 128

// Preprocess приводит область к size×size и нормирует пиксели в [0, 1].
// Результат: тензор NHWC (1, size, size, 3) в порядке каналов BGR, как при обучении модели.
func Preprocess(region image.Image, size int) ([]float32, error) {
	if region == nil || region.Bounds().Empty() {
		return nil, &entity.GradingError{Code: entity.ErrorInvalidRegion, Message: "region is empty"}
	}
	if size <= 0 {
		size = InputSize
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), region, region.Bounds(), draw.Src, nil)

	tensor := make([]float32, size*size*3)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := dst.PixOffset(x, y)
			o := (y*size + x) * 3
			tensor[o] = float32(dst.Pix[i+2]) / 255
			tensor[o+1] = float32(dst.Pix[i+1]) / 255
			tensor[o+2] = float32(dst.Pix[i]) / 255
		}
	}
	return tensor, nil
}

// TensorBytes раскладывает тензор в little-endian байты для gocv.Mat
func TensorBytes(tensor []float32) []byte {
	buf := make([]byte, len(tensor)*4)
	for i, v := range tensor {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// ArgMax возвращает индекс максимальной вероятности или -1 для пустого выхода
func ArgMax(scores []float32) int {
	best := -1
	for i, v := range scores {
		if best < 0 || v > scores[best] {
			best = i
		}
	}
	return best
}
