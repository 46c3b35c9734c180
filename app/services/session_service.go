package services

import (
	"context"
	"fmt"

	"task-tracker/app/storage"
)

// SessionKey is the storage key holding the active username as a raw string.
const SessionKey = "taskTrackerUser"

// SessionService owns the identity of the currently active user.
type SessionService struct {
	store storage.Storage
}

// NewSessionService creates a new instance of SessionService.
func NewSessionService(store storage.Storage) *SessionService {
	return &SessionService{store: store}
}

// GetActiveUser returns the persisted username. An empty stored value counts
// as logged out.
func (s *SessionService) GetActiveUser(ctx context.Context) (string, bool, error) {
	username, ok, err := s.store.Get(ctx, SessionKey)
	if err != nil {
		return "", false, fmt.Errorf("failed to read session: %w", err)
	}
	if !ok || username == "" {
		return "", false, nil
	}
	return username, true, nil
}

// SetActiveUser overwrites the session with username. No trimming or case
// folding is applied.
func (s *SessionService) SetActiveUser(ctx context.Context, username string) error {
	if username == "" {
		return ErrEmptyUsername
	}
	if err := s.store.Set(ctx, SessionKey, username); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// ClearActiveUser removes the session. Clearing an absent session is a no-op.
func (s *SessionService) ClearActiveUser(ctx context.Context) error {
	if err := s.store.Remove(ctx, SessionKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
