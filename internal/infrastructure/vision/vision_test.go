package vision

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mcq-grader/internal/domain/entity"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestFileImageLoader_Decode(t *testing.T) {
	loader := NewFileImageLoader()
	ctx := context.Background()

	img, err := loader.Decode(ctx, "sheet.png", encodePNG(t, solidImage(20, 10, color.RGBA{A: 255})))
	require.NoError(t, err)
	require.Equal(t, 20, img.Bounds().Dx())

	_, err = loader.Decode(ctx, "junk.png", []byte("not an image"))
	require.ErrorIs(t, err, entity.ErrImageLoad)

	_, err = loader.Decode(ctx, "empty.png", nil)
	require.ErrorIs(t, err, entity.ErrImageLoad)
}

func TestFileImageLoader_Load(t *testing.T) {
	loader := NewFileImageLoader()
	ctx := context.Background()
	dir := t.TempDir()

	path := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, solidImage(4, 4, color.RGBA{A: 255})), 0644))

	_, err := loader.Load(ctx, path)
	require.NoError(t, err)

	_, err = loader.Load(ctx, filepath.Join(dir, "missing.png"))
	require.ErrorIs(t, err, entity.ErrImageLoad)
}

func TestSheetSources(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jpg", "a.png", "notes.txt", "c.JPEG", "d.bmp", "e.tiff", "f.webp", "g.gif"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0755))

	sheets, err := SheetSources(dir)
	require.NoError(t, err)

	var names []string
	for _, s := range sheets {
		names = append(names, s.Name)
	}
	require.Equal(t, []string{"a.png", "b.jpg", "c.JPEG", "d.bmp", "e.tiff", "f.webp"}, names)

	single, err := SheetSources(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	require.Len(t, single, 1)

	_, err = SheetSources(filepath.Join(dir, "missing"))
	require.Error(t, err)
}

func TestIsImageName(t *testing.T) {
	for _, name := range []string{"a.png", "b.JPG", "c.jpeg", "d.bmp", "e.tif", "f.TIFF", "g.webp"} {
		require.True(t, IsImageName(name), name)
	}
	for _, name := range []string{"a.gif", "b.txt", "noext", ""} {
		require.False(t, IsImageName(name), name)
	}
}

func TestPreprocess(t *testing.T) {
	region := solidImage(63, 45, color.RGBA{R: 255, G: 51, B: 0, A: 255})

	tensor, err := Preprocess(region, InputSize)
	require.NoError(t, err)
	require.Len(t, tensor, InputSize*InputSize*3)

	// BGR, нормировано в [0, 1]
	require.InDelta(t, 0.0, tensor[0], 1e-6)
	require.InDelta(t, 0.2, tensor[1], 1e-6)
	require.InDelta(t, 1.0, tensor[2], 1e-6)
	for _, v := range tensor {
		require.GreaterOrEqual(t, v, float32(0))
		require.LessOrEqual(t, v, float32(1))
	}
}

func TestPreprocess_SubImage(t *testing.T) {
	img := solidImage(100, 100, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	region, err := entity.NewRect(50, 50, 20, 20).Crop(img)
	require.NoError(t, err)

	tensor, err := Preprocess(region, 8)
	require.NoError(t, err)
	require.Len(t, tensor, 8*8*3)
	require.InDelta(t, 30.0/255, tensor[0], 1e-6)
}

func TestPreprocess_EmptyRegion(t *testing.T) {
	_, err := Preprocess(image.NewRGBA(image.Rect(0, 0, 0, 0)), InputSize)
	require.ErrorIs(t, err, entity.ErrInvalidRegion)

	_, err = Preprocess(nil, InputSize)
	require.ErrorIs(t, err, entity.ErrInvalidRegion)
}

func TestTensorBytesAndArgMax(t *testing.T) {
	b := TensorBytes([]float32{1, 0.5})
	require.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f, 0x00, 0x00, 0x00, 0x3f}, b)

	require.Equal(t, 1, ArgMax([]float32{0.1, 0.7, 0.2}))
	require.Equal(t, 0, ArgMax([]float32{0.5, 0.5, 0.1}))
	require.Equal(t, -1, ArgMax(nil))
}
