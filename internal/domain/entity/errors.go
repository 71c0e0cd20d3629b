package entity

import (
	"errors"
	"fmt"
	"image"
)

// ErrorCode код ошибки обработки изображения
type ErrorCode string

const (
	ErrorImageLoad       ErrorCode = "IMAGE_LOAD"       // файл не декодируется как изображение
	ErrorInvalidImage    ErrorCode = "INVALID_IMAGE"    // изображение пустое или нулевого размера
	ErrorMissingResource ErrorCode = "MISSING_RESOURCE" // модель классификатора недоступна
	ErrorInvalidRegion   ErrorCode = "INVALID_REGION"   // область варианта вне изображения
	ErrorInvalidMetadata ErrorCode = "INVALID_METADATA" // метаданные эталона некорректны
)

// GradingError структурированная ошибка конвейера проверки
type GradingError struct {
	Code    ErrorCode
	Message string
	Source  string // имя файла или модели, если известно
	Cause   error
}

// Сигнальные ошибки для errors.Is.
var (
	ErrImageLoad       = &GradingError{Code: ErrorImageLoad}
	ErrInvalidImage    = &GradingError{Code: ErrorInvalidImage}
	ErrMissingResource = &GradingError{Code: ErrorMissingResource}
	ErrInvalidRegion   = &GradingError{Code: ErrorInvalidRegion}
	ErrInvalidMetadata = &GradingError{Code: ErrorInvalidMetadata}
)

func (e *GradingError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Source != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Source)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s (caused by: %v)", msg, e.Cause)
	}
	return msg
}

func (e *GradingError) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду
func (e *GradingError) Is(target error) bool {
	t, ok := target.(*GradingError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf возвращает код ошибки или пустую строку для посторонних ошибок
func CodeOf(err error) ErrorCode {
	var ge *GradingError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

func NewImageLoadError(source string, cause error) *GradingError {
	return &GradingError{
		Code:    ErrorImageLoad,
		Message: "unable to load image",
		Source:  source,
		Cause:   cause,
	}
}

func NewInvalidImageError(source string, cause error) *GradingError {
	return &GradingError{
		Code:    ErrorInvalidImage,
		Message: "image is empty or has zero size",
		Source:  source,
		Cause:   cause,
	}
}

func NewMissingResourceError(source string, cause error) *GradingError {
	return &GradingError{
		Code:    ErrorMissingResource,
		Message: "classifier model is unavailable",
		Source:  source,
		Cause:   cause,
	}
}

func NewInvalidRegionError(r Rect, bounds image.Rectangle) *GradingError {
	return &GradingError{
		Code:    ErrorInvalidRegion,
		Message: fmt.Sprintf("option region %s is outside image bounds %v", r, bounds),
	}
}

func NewInvalidMetadataError(format string, args ...any) *GradingError {
	return &GradingError{
		Code:    ErrorInvalidMetadata,
		Message: fmt.Sprintf(format, args...),
	}
}
