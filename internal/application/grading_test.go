package app

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"mcq-grader/internal/domain/entity"
	"mcq-grader/internal/infrastructure/storage"
)

type fakeAnnotator struct {
	calls int
	err   error
}

func (a *fakeAnnotator) Annotate(img image.Image, key *entity.Metadata, report *entity.SheetReport) ([]byte, error) {
	a.calls++
	if a.err != nil {
		return []byte("partial"), a.err
	}
	return []byte("jpeg"), nil
}

func newTestService(loader *mapLoader, classifier *paintClassifier) (*GradingService, *storage.MemoryResultStore, *fakeAnnotator) {
	store := storage.NewMemoryResultStore()
	annotator := &fakeAnnotator{}
	users := NewUserService(storage.NewMemoryUserRepository())
	return NewGradingService(users, classifier, loader, annotator, store, entity.DefaultLayout()), store, annotator
}

func TestGradingService_RunSession(t *testing.T) {
	loader := &mapLoader{images: map[string]image.Image{
		"key.png": paintSheet(0, 1, 2, 0),
		"a.png":   paintSheet(0, 1, 2, 0),
	}}
	svc, store, _ := newTestService(loader, &paintClassifier{})
	ctx := context.Background()

	key, err := svc.ExtractMetadataFile(ctx, "key.png")
	require.NoError(t, err)

	session, err := svc.RunSession(ctx, []entity.SheetSource{{Path: "a.png"}, {Path: "b.png"}}, key)
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)
	require.Len(t, session.Results, 2)

	saved, err := store.Results(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, session.Results, saved)

	got, err := svc.Results(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, saved, got)
}

func TestGradingService_BotFlow(t *testing.T) {
	loader := &mapLoader{images: map[string]image.Image{
		"key.jpg":   paintSheet(2, 2, 2, 2),
		"sheet.jpg": paintSheet(2, 2, 0, -1),
	}}
	svc, store, annotator := newTestService(loader, &paintClassifier{})
	ctx := context.Background()

	_, err := svc.AcceptSheet(ctx, 1, 10, "sheet.jpg", []byte("data"))
	require.Error(t, err)

	user, err := svc.AcceptModelAnswer(ctx, 1, 10, "key.jpg", []byte("data"))
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingSheets, user.State)
	require.NotEmpty(t, user.SessionID)
	require.Len(t, user.Key.Questions, 4)

	out, err := svc.AcceptSheet(ctx, 1, 10, "sheet.jpg", []byte("data"))
	require.NoError(t, err)
	require.Equal(t, 2, *out.Result.Score)
	require.Equal(t, []byte("jpeg"), out.Annotated)
	require.Equal(t, 1, annotator.calls)

	out, err = svc.AcceptSheet(ctx, 1, 10, "broken.jpg", []byte("junk"))
	require.NoError(t, err)
	require.True(t, out.Result.Failed())
	require.Nil(t, out.Annotated)

	results, err := svc.SessionResults(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	saved, err := store.Results(ctx, user.SessionID)
	require.NoError(t, err)
	require.Equal(t, results, saved)
}

func TestGradingService_NotReady(t *testing.T) {
	classifier := &paintClassifier{readyErr: entity.NewMissingResourceError("m", errors.New("absent"))}
	svc, _, _ := newTestService(&mapLoader{}, classifier)

	require.ErrorIs(t, svc.Ready(context.Background()), entity.ErrMissingResource)
}

func TestGradingService_DecodedImages(t *testing.T) {
	loader := &mapLoader{images: map[string]image.Image{
		"b.png": paintSheet(1, 1, 1, 1),
	}}
	svc, _, _ := newTestService(loader, &paintClassifier{})
	ctx := context.Background()

	require.Len(t, svc.Layout().Questions, 4)

	key, err := svc.ExtractMetadata(ctx, paintSheet(0, 1, 2, 0))
	require.NoError(t, err)
	require.Equal(t, 1, key.Questions[1].ConfirmedIndex())

	score, err := svc.GradeOne(ctx, paintSheet(0, 1, 0, 0), key)
	require.NoError(t, err)
	require.Equal(t, entity.NewScore(3, 4), score)

	score, err = svc.GradeOneFile(ctx, "b.png", key)
	require.NoError(t, err)
	require.Equal(t, 1, score.Score)

	_, err = svc.GradeOneFile(ctx, "missing.png", key)
	require.ErrorIs(t, err, entity.ErrImageLoad)

	results, err := svc.GradeMany(ctx, []entity.SheetSource{{Path: "b.png"}, {Path: "missing.png"}}, key)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, 1, *results[0].Score)
	require.True(t, results[1].Failed())
}

func TestGradingService_AnnotationFailureKeepsResult(t *testing.T) {
	loader := &mapLoader{images: map[string]image.Image{
		"key.jpg":   paintSheet(0, 0, 0, 0),
		"sheet.jpg": paintSheet(0, 0, 0, 0),
	}}
	svc, _, annotator := newTestService(loader, &paintClassifier{})
	annotator.err = errors.New("gocv build tag is not enabled")
	ctx := context.Background()

	_, err := svc.AcceptModelAnswer(ctx, 3, 30, "key.jpg", []byte("data"))
	require.NoError(t, err)

	out, err := svc.AcceptSheet(ctx, 3, 30, "sheet.jpg", []byte("data"))
	require.NoError(t, err)
	require.False(t, out.Result.Failed())
	require.Equal(t, 4, *out.Result.Score)
	require.Nil(t, out.Annotated)
	require.Equal(t, 1, annotator.calls)
}
