package memory

import (
	"context"

	"github.com/arogya/reminder-api/internal/model"
	apperrors "github.com/arogya/reminder-api/pkg/errors"
)

type SettingsRepository struct {
	store *Store
}

func NewSettingsRepository(store *Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

func (r *SettingsRepository) Get(ctx context.Context, userID string) (*model.NotificationSettings, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings, ok := s.settings[userID]
	if !ok {
		return nil, apperrors.NotFound("notification settings")
	}
	clone := *settings
	return &clone, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, settings *model.NotificationSettings) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *settings
	s.settings[settings.UserID] = &clone
	s.saveSettings()
	return nil
}
