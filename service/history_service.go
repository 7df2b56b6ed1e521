package service

import (
	"context"
	"errors"
	"fmt"

	"legalinsight-backend/models"

	"github.com/google/uuid"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// HistoryService exposes the saved queries of authenticated users
type HistoryService struct {
	history HistoryStore
}

// NewHistoryService creates a new history service. A nil store means history
// is not configured.
func NewHistoryService(history HistoryStore) *HistoryService {
	return &HistoryService{history: history}
}

// List returns the session's history, newest first
func (s *HistoryService) List(ctx context.Context, session models.Session, limit int) ([]*models.QueryHistoryItem, error) {
	if err := s.check(session); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	items, err := s.history.ListByUserID(ctx, session.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return items, nil
}

// Delete removes one item owned by the session's user
func (s *HistoryService) Delete(ctx context.Context, session models.Session, id uuid.UUID) error {
	if err := s.check(session); err != nil {
		return err
	}
	if err := s.history.Delete(ctx, session.UserID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete history item: %w", err)
	}
	return nil
}

func (s *HistoryService) check(session models.Session) error {
	if !session.Authenticated() {
		return ErrUnauthenticated
	}
	if s.history == nil {
		return ErrHistoryUnavailable
	}
	return nil
}
