package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/google/uuid"

	"mcq-grader/internal/domain/entity"
	"mcq-grader/internal/domain/port"
)

// GradingService объединяет извлечение ключа, проверку листов и хранение результатов.
type GradingService struct {
	users      *UserService
	classifier port.RegionClassifier
	loader     port.ImageLoader
	annotator  port.SheetAnnotator
	store      port.ResultStore
	layout     entity.SheetLayout

	extractor *MetadataExtractor
	grader    *SheetGrader
	batch     *BatchRunner
}

// Session итог проверки пачки листов
type Session struct {
	ID      string                 `json:"session_id"`
	Results []entity.GradingResult `json:"results"`
}

// SheetOutput результат проверки одного листа для бота
type SheetOutput struct {
	Result    entity.GradingResult
	Report    *entity.SheetReport
	Annotated []byte
}

// NewGradingService создаёт сервис проверки листов.
func NewGradingService(
	users *UserService,
	classifier port.RegionClassifier,
	loader port.ImageLoader,
	annotator port.SheetAnnotator,
	store port.ResultStore,
	layout entity.SheetLayout,
) *GradingService {
	grader := NewSheetGrader(classifier, loader)
	return &GradingService{
		users:      users,
		classifier: classifier,
		loader:     loader,
		annotator:  annotator,
		store:      store,
		layout:     layout,
		extractor:  NewMetadataExtractor(classifier, loader),
		grader:     grader,
		batch:      NewBatchRunner(grader, classifier),
	}
}

// Layout возвращает шаблон листа, с которым работает сервис
func (s *GradingService) Layout() entity.SheetLayout {
	return s.layout
}

// Ready проверяет доступность модели классификатора
func (s *GradingService) Ready(ctx context.Context) error {
	if s.classifier == nil {
		return entity.NewMissingResourceError("", errors.New("classifier is not configured"))
	}
	return s.classifier.Ready(ctx)
}

// ExtractMetadata строит ключ ответов по декодированному эталону
func (s *GradingService) ExtractMetadata(ctx context.Context, img image.Image) (*entity.Metadata, error) {
	return s.extractor.Extract(ctx, img, s.layout)
}

// ExtractMetadataFile строит ключ ответов по файлу эталона
func (s *GradingService) ExtractMetadataFile(ctx context.Context, path string) (*entity.Metadata, error) {
	return s.extractor.ExtractFile(ctx, path, s.layout)
}

// ExtractMetadataBytes строит ключ ответов по содержимому файла эталона
func (s *GradingService) ExtractMetadataBytes(ctx context.Context, name string, data []byte) (*entity.Metadata, error) {
	return s.extractor.ExtractBytes(ctx, name, data, s.layout)
}

// GradeOne проверяет один декодированный лист
func (s *GradingService) GradeOne(ctx context.Context, img image.Image, key *entity.Metadata) (entity.Score, error) {
	return s.grader.GradeOne(ctx, img, key)
}

// GradeOneFile проверяет один лист из файла
func (s *GradingService) GradeOneFile(ctx context.Context, path string, key *entity.Metadata) (entity.Score, error) {
	return s.grader.GradeFile(ctx, path, key)
}

// GradeMany проверяет пачку листов без сохранения
func (s *GradingService) GradeMany(ctx context.Context, sheets []entity.SheetSource, key *entity.Metadata) ([]entity.GradingResult, error) {
	return s.batch.GradeMany(ctx, sheets, key)
}

// RunSession проверяет пачку листов и сохраняет результаты под новым идентификатором сессии
func (s *GradingService) RunSession(ctx context.Context, sheets []entity.SheetSource, key *entity.Metadata) (*Session, error) {
	results, err := s.batch.GradeMany(ctx, sheets, key)
	if err != nil {
		return nil, err
	}

	session := &Session{ID: uuid.NewString(), Results: results}
	if s.store != nil {
		if err := s.store.SaveResults(ctx, session.ID, results); err != nil {
			return nil, fmt.Errorf("save results: %w", err)
		}
	}
	return session, nil
}

// Results возвращает сохранённые результаты сессии
func (s *GradingService) Results(ctx context.Context, sessionID string) ([]entity.GradingResult, error) {
	if s.store == nil {
		return nil, errors.New("result store is not configured")
	}
	return s.store.Results(ctx, sessionID)
}

// AcceptModelAnswer строит ключ ответов по присланному эталону и открывает новую сессию.
func (s *GradingService) AcceptModelAnswer(ctx context.Context, userID, chatID int64, name string, data []byte) (*entity.User, error) {
	key, err := s.ExtractMetadataBytes(ctx, name, data)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	user.StartSession(uuid.NewString(), key)
	user.SetState(entity.StateAwaitingSheets)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// AcceptSheet проверяет присланный лист студента в рамках текущей сессии.
// Нечитаемый лист попадает в ведомость строкой с ошибкой.
func (s *GradingService) AcceptSheet(ctx context.Context, userID, chatID int64, name string, data []byte) (*SheetOutput, error) {
	user, err := s.users.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if user.Key == nil {
		return nil, errors.New("model answer is not set")
	}
	if err := s.Ready(ctx); err != nil {
		return nil, err
	}

	out := &SheetOutput{}
	img, err := s.loader.Decode(ctx, name, data)
	if err == nil {
		out.Report, err = s.grader.Inspect(ctx, img, user.Key)
	}
	if err != nil {
		log.Printf("Error grading sheet %s: %v", name, err)
		out.Result = entity.NewFailedResult(name, err)
	} else {
		out.Result = entity.NewGradingResult(name, out.Report.Score)
		if s.annotator != nil {
			// Подсветка не обязательна: без неё отправим только текст.
			annotated, err := s.annotator.Annotate(img, user.Key, out.Report)
			if err != nil {
				log.Printf("Error annotating sheet %s: %v", name, err)
			} else {
				out.Annotated = annotated
			}
		}
	}

	user.AddResult(out.Result)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	if s.store != nil {
		if err := s.store.SaveResults(ctx, user.SessionID, user.Results); err != nil {
			log.Printf("Error saving results for session %s: %v", user.SessionID, err)
		}
	}
	return out, nil
}

// SessionResults возвращает ведомость текущей сессии пользователя
func (s *GradingService) SessionResults(ctx context.Context, userID, chatID int64) ([]entity.GradingResult, error) {
	user, err := s.users.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if user.Key == nil {
		return nil, errors.New("model answer is not set")
	}
	return user.Results, nil
}
