package entity

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewScore(t *testing.T) {
	tests := []struct {
		score, total int
		want         float64
	}{
		{4, 4, 100},
		{2, 4, 50},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{0, 4, 0},
		{0, 0, 0},
		{1, 32, 3.12},
		{5, 32, 15.62},
		{3, 32, 9.38},
	}

	for _, tt := range tests {
		s := NewScore(tt.score, tt.total)
		require.Equal(t, tt.score, s.Score)
		require.Equal(t, tt.total, s.Total)
		require.InDelta(t, tt.want, s.Percentage, 1e-9)
	}
}

func TestGradingResultShape(t *testing.T) {
	ok := NewGradingResult("a.png", NewScore(3, 4))
	require.False(t, ok.Failed())
	require.Equal(t, 3, *ok.Score)
	require.Equal(t, 4, *ok.Total)
	require.Equal(t, 75.0, *ok.Percentage)

	failed := NewFailedResult("b.png", NewImageLoadError("b.png", errors.New("bad header")))
	require.True(t, failed.Failed())
	require.Nil(t, failed.Score)
	require.Nil(t, failed.Total)
	require.Nil(t, failed.Percentage)
	require.Equal(t, ErrorImageLoad, failed.ErrorCode)

	data, err := json.Marshal(failed)
	require.NoError(t, err)
	require.JSONEq(t, `{"filename":"b.png","score":null,"total":null,"percentage":null,
		"error":"unable to load image: b.png (caused by: bad header)","error_code":"IMAGE_LOAD"}`, string(data))
}

type silentError struct{}

func (silentError) Error() string { return "" }

func TestNewFailedResult_EmptyMessage(t *testing.T) {
	r := NewFailedResult("c.png", silentError{})
	require.True(t, r.Failed())
	require.Equal(t, "unknown error", r.Error)

	r = NewFailedResult("d.png", &GradingError{Code: ErrorInvalidRegion, Message: ""})
	require.True(t, r.Failed())
	require.Equal(t, "INVALID_REGION", r.Error)

	var zero GradingResult
	require.True(t, zero.Failed())
}

func TestGradingErrorIs(t *testing.T) {
	err := NewInvalidImageError("x.png", nil)
	wrapped := errors.Join(errors.New("grade"), err)

	require.ErrorIs(t, wrapped, ErrInvalidImage)
	require.NotErrorIs(t, wrapped, ErrImageLoad)
	require.Equal(t, ErrorInvalidImage, CodeOf(wrapped))
	require.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
}
