package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/arogya/reminder-api/internal/model"
)

// Storage abstractions for the reminder engine. Get returns a not-found
// AppError on a miss; listing never does.
type (
	ReminderRepository interface {
		Create(ctx context.Context, reminder *model.Reminder) error
		Get(ctx context.Context, id uuid.UUID) (*model.Reminder, error)
		Update(ctx context.Context, reminder *model.Reminder) error
		Delete(ctx context.Context, id uuid.UUID) error
		// List returns the owner's reminders ordered by next dose time
		// ascending, reminders with no due time last.
		List(ctx context.Context, filters *model.ReminderFilters) ([]*model.Reminder, error)
	}

	LogRepository interface {
		Create(ctx context.Context, log *model.MedicationLog) error
		// List returns matching logs newest-scheduled-first, capped at
		// filters.Limit.
		List(ctx context.Context, filters *model.LogFilters) ([]*model.MedicationLog, error)
		DeleteByReminder(ctx context.Context, reminderID uuid.UUID) error
	}

	SettingsRepository interface {
		Get(ctx context.Context, userID string) (*model.NotificationSettings, error)
		Upsert(ctx context.Context, settings *model.NotificationSettings) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	}
)
