package storage

import (
	"context"
	"fmt"
	"sync"

	"mcq-grader/internal/domain/entity"
	"mcq-grader/internal/domain/port"
)

// MemoryResultStore in-memory хранилище результатов проверки
type MemoryResultStore struct {
	mu       sync.RWMutex
	sessions map[string][]entity.GradingResult
}

// NewMemoryResultStore создаёт новое in-memory хранилище результатов
func NewMemoryResultStore() *MemoryResultStore {
	return &MemoryResultStore{
		sessions: make(map[string][]entity.GradingResult),
	}
}

// SaveResults сохраняет копию результатов сессии
func (s *MemoryResultStore) SaveResults(ctx context.Context, sessionID string, results []entity.GradingResult) error {
	s.mu.Lock()
	s.sessions[sessionID] = append([]entity.GradingResult(nil), results...)
	s.mu.Unlock()

	return nil
}

// Results возвращает результаты сессии
func (s *MemoryResultStore) Results(ctx context.Context, sessionID string) ([]entity.GradingResult, error) {
	s.mu.RLock()
	results, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}
	return append([]entity.GradingResult(nil), results...), nil
}

// Проверка реализации интерфейса
var _ port.ResultStore = (*MemoryResultStore)(nil)
