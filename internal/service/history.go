package service

import (
	"context"
	"fmt"
	"time"

	"github.com/msomdec/factcheck/internal/domain"
)

// HistoryService stamps and stores completed analyses.
type HistoryService struct {
	users domain.UserRepository
	now   func() time.Time
}

// NewHistoryService creates a HistoryService using the wall clock.
func NewHistoryService(users domain.UserRepository) *HistoryService {
	return &HistoryService{users: users, now: time.Now}
}

// WithClock replaces the clock, for tests.
func (s *HistoryService) WithClock(now func() time.Time) *HistoryService {
	s.now = now
	return s
}

// Record prepends a new entry to username's history. Store failures,
// including an unknown user, are returned to the caller.
func (s *HistoryService) Record(ctx context.Context, username, kind, source, response string) (domain.HistoryEntry, error) {
	entry := domain.HistoryEntry{
		Date:     s.now().Local().Truncate(time.Second),
		Type:     kind,
		Input:    source,
		Response: response,
	}
	if err := s.users.AppendHistory(ctx, username, entry); err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("record history: %w", err)
	}
	return entry, nil
}

// List returns username's history, newest first.
func (s *HistoryService) List(ctx context.Context, username string) ([]domain.HistoryEntry, error) {
	entries, err := s.users.GetHistory(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}
