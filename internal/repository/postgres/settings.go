package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arogya/reminder-api/internal/model"
	apperrors "github.com/arogya/reminder-api/pkg/errors"
)

func (r *settingsRepository) Get(ctx context.Context, userID string) (*model.NotificationSettings, error) {
	query := `
		SELECT user_id, enable_notifications, sound_enabled, vibration_enabled,
			   reminder_advance_minutes, quiet_hours_start, quiet_hours_end, updated_at
		FROM notification_settings
		WHERE user_id = $1
	`
	var settings model.NotificationSettings
	err := r.db.GetContext(ctx, &settings, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("notification settings")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification settings: %w", err)
	}
	return &settings, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, settings *model.NotificationSettings) error {
	query := `
		INSERT INTO notification_settings (
			user_id, enable_notifications, sound_enabled, vibration_enabled,
			reminder_advance_minutes, quiet_hours_start, quiet_hours_end, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			enable_notifications = EXCLUDED.enable_notifications,
			sound_enabled = EXCLUDED.sound_enabled,
			vibration_enabled = EXCLUDED.vibration_enabled,
			reminder_advance_minutes = EXCLUDED.reminder_advance_minutes,
			quiet_hours_start = EXCLUDED.quiet_hours_start,
			quiet_hours_end = EXCLUDED.quiet_hours_end,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		settings.UserID,
		settings.EnableNotifications,
		settings.SoundEnabled,
		settings.VibrationEnabled,
		settings.ReminderAdvanceMinutes,
		settings.QuietHoursStart,
		settings.QuietHoursEnd,
		settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert notification settings: %w", err)
	}
	return nil
}
