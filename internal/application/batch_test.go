package app

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"mcq-grader/internal/domain/entity"
)

func TestBatchRunner_IsolatesFailures(t *testing.T) {
	key := keyFor(t, 0, 1, 2, 0)
	loader := &mapLoader{images: map[string]image.Image{
		"/in/alice.png": paintSheet(0, 1, 2, 0),
		"/in/bob.png":   paintSheet(0, 1, 0, 1),
		"/in/carol.png": paintSheet(-1, -1, -1, -1),
	}}
	runner := NewBatchRunner(NewSheetGrader(&paintClassifier{}, loader), &paintClassifier{})

	sheets := []entity.SheetSource{
		{Path: "/in/alice.png"},
		{Path: "/in/broken.png"},
		{Name: "Bob", Path: "/in/bob.png"},
		{Path: "/in/carol.png"},
	}
	results, err := runner.GradeMany(context.Background(), sheets, key)
	require.NoError(t, err)
	require.Len(t, results, len(sheets))

	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Filename)
	}
	require.Equal(t, []string{"alice.png", "broken.png", "Bob", "carol.png"}, names)

	require.False(t, results[0].Failed())
	require.Equal(t, 4, *results[0].Score)
	require.Equal(t, 100.0, *results[0].Percentage)

	require.True(t, results[1].Failed())
	require.Equal(t, entity.ErrorImageLoad, results[1].ErrorCode)
	require.Nil(t, results[1].Score)
	require.Nil(t, results[1].Total)
	require.Nil(t, results[1].Percentage)

	require.Equal(t, 2, *results[2].Score)
	require.Equal(t, 50.0, *results[2].Percentage)
	require.Equal(t, 0, *results[3].Score)
	require.Equal(t, 4, *results[3].Total)

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	require.Equal(t, 1, failed)
}

func TestBatchRunner_ClassifierUnavailable(t *testing.T) {
	key := keyFor(t, 0, 0, 0, 0)
	classifier := &paintClassifier{readyErr: entity.NewMissingResourceError("cnn_model.onnx", nil)}
	runner := NewBatchRunner(NewSheetGrader(classifier, &mapLoader{}), classifier)

	results, err := runner.GradeMany(context.Background(), []entity.SheetSource{{Path: "a.png"}}, key)
	require.ErrorIs(t, err, entity.ErrMissingResource)
	require.Nil(t, results)
	require.Zero(t, classifier.calls)
}

func TestBatchRunner_InvalidKey(t *testing.T) {
	classifier := &paintClassifier{}
	runner := NewBatchRunner(NewSheetGrader(classifier, &mapLoader{}), classifier)

	_, err := runner.GradeMany(context.Background(), nil, nil)
	require.ErrorIs(t, err, entity.ErrInvalidMetadata)
}

func TestBatchRunner_Empty(t *testing.T) {
	classifier := &paintClassifier{}
	runner := NewBatchRunner(NewSheetGrader(classifier, &mapLoader{}), classifier)

	results, err := runner.GradeMany(context.Background(), nil, keyFor(t, 0, 0, 0, 0))
	require.NoError(t, err)
	require.Empty(t, results)
}
