package telegram

import (
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"mcq-grader/internal/domain/entity"
)

func TestImageFile(t *testing.T) {
	msg := &tgbotapi.Message{
		MessageID: 7,
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small"},
			{FileID: "large"},
		},
	}
	id, name, ok := imageFile(msg)
	require.True(t, ok)
	require.Equal(t, "large", id)
	require.Equal(t, "photo_7.jpg", name)

	msg = &tgbotapi.Message{Document: &tgbotapi.Document{FileID: "doc", FileName: "Sheet.PNG"}}
	id, name, ok = imageFile(msg)
	require.True(t, ok)
	require.Equal(t, "doc", id)
	require.Equal(t, "Sheet.PNG", name)

	msg = &tgbotapi.Message{Document: &tgbotapi.Document{FileID: "doc", FileName: "grades.pdf"}}
	_, _, ok = imageFile(msg)
	require.False(t, ok)
}

func TestErrorText(t *testing.T) {
	require.Equal(t, msgModelMissing, errorText(entity.NewMissingResourceError("m", nil)))
	require.Equal(t, msgProcessingError, errorText(entity.NewImageLoadError("a.png", nil)))
	require.Equal(t, "⚠️ model answer is not set", errorText(errors.New("model answer is not set")))
}

func TestFormatResults(t *testing.T) {
	text := formatResults([]entity.GradingResult{
		entity.NewGradingResult("a.png", entity.NewScore(3, 4)),
		entity.NewFailedResult("b.png", errors.New("bad file")),
	})
	require.True(t, strings.Contains(text, "1. a.png — 3 из 4 (75.00%)"))
	require.True(t, strings.Contains(text, "2. b.png — ошибка: bad file"))
}
