//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"mcq-grader/internal/domain/entity"
	"mcq-grader/internal/domain/port"
)

// GoCVClassifier классифицирует области листа CNN-моделью через OpenCV DNN.
// Модель загружается один раз при первом обращении и живёт до Close.
type GoCVClassifier struct {
	ModelPath string
	InputSize int

	once    sync.Once
	loadErr error
	mu      sync.Mutex
	net     gocv.Net
	loaded  bool
}

// NewGoCVClassifier создаёт классификатор; модель читается лениво.
func NewGoCVClassifier(modelPath string) *GoCVClassifier {
	return &GoCVClassifier{
		ModelPath: modelPath,
		InputSize: InputSize,
	}
}

func (c *GoCVClassifier) load() error {
	c.once.Do(func() {
		if _, err := os.Stat(c.ModelPath); err != nil {
			c.loadErr = entity.NewMissingResourceError(c.ModelPath, err)
			return
		}

		net := gocv.ReadNet(c.ModelPath, "")
		if net.Empty() {
			net.Close()
			c.loadErr = entity.NewMissingResourceError(c.ModelPath, errors.New("failed to read model"))
			return
		}
		if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
			log.Printf("Classifier backend: %v", err)
		}

		c.net = net
		c.loaded = true
		log.Printf("Classifier model loaded from %s", c.ModelPath)
	})
	return c.loadErr
}

// Ready загружает модель, если она ещё не загружена
func (c *GoCVClassifier) Ready(ctx context.Context) error {
	_ = ctx
	return c.load()
}

// Classify возвращает метку класса с максимальной вероятностью
func (c *GoCVClassifier) Classify(ctx context.Context, region image.Image) (entity.Label, error) {
	_ = ctx
	if err := c.load(); err != nil {
		return "", err
	}

	tensor, err := Preprocess(region, c.InputSize)
	if err != nil {
		return "", err
	}

	blob, err := gocv.NewMatWithSizesFromBytes([]int{1, c.InputSize, c.InputSize, 3}, gocv.MatTypeCV32F, TensorBytes(tensor))
	if err != nil {
		return "", fmt.Errorf("build input blob: %w", err)
	}
	defer blob.Close()

	// Модель обслуживает один запрос за раз.
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		return "", entity.NewMissingResourceError(c.ModelPath, errors.New("classifier is closed"))
	}
	c.net.SetInput(blob, "")
	prob := c.net.Forward("")
	defer prob.Close()

	if prob.Empty() {
		return "", errors.New("classifier returned empty output")
	}
	scores, err := prob.DataPtrFloat32()
	if err != nil {
		return "", fmt.Errorf("read classifier output: %w", err)
	}
	if len(scores) != len(entity.ClassLabels) {
		return "", fmt.Errorf("classifier returned %d scores, want %d", len(scores), len(entity.ClassLabels))
	}

	return entity.LabelFromIndex(ArgMax(scores))
}

// Close освобождает модель
func (c *GoCVClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		c.loaded = false
		return c.net.Close()
	}
	return nil
}

// Проверка реализации интерфейса
var _ port.RegionClassifier = (*GoCVClassifier)(nil)
