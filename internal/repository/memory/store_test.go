package memory_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arogya/reminder-api/internal/model"
	"github.com/arogya/reminder-api/internal/repository/memory"
	apperrors "github.com/arogya/reminder-api/pkg/errors"
	"github.com/arogya/reminder-api/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func sampleReminder(userID string, next *time.Time) *model.Reminder {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	return &model.Reminder{
		ID:             uuid.New(),
		UserID:         userID,
		MedicationName: "Metformin",
		Dosage:         "500mg",
		Frequency:      model.FrequencyDaily,
		ReminderTimes:  model.TimeOfDayList{{Hour: 8}, {Hour: 20}},
		StartDate:      model.DateOf(now),
		Ringtone:       "default",
		Status:         model.ReminderStatusActive,
		NextDoseTime:   next,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store := memory.NewStore(dir, testLogger())
	reminders := memory.NewReminderRepository(store)
	logs := memory.NewLogRepository(store)
	settings := memory.NewSettingsRepository(store)

	rem := sampleReminder("user-123", nil)
	require.NoError(t, reminders.Create(ctx, rem))
	require.NoError(t, logs.Create(ctx, &model.MedicationLog{
		ID:            uuid.New(),
		ReminderID:    rem.ID,
		UserID:        "user-123",
		ScheduledTime: time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local),
		Status:        model.LogStatusTaken,
		CreatedAt:     time.Now(),
	}))
	require.NoError(t, settings.Upsert(ctx, model.DefaultNotificationSettings("user-123")))

	// A fresh store over the same directory sees everything.
	reloaded := memory.NewStore(dir, testLogger())

	got, err := memory.NewReminderRepository(reloaded).Get(ctx, rem.ID)
	require.NoError(t, err)
	assert.Equal(t, "Metformin", got.MedicationName)
	assert.Equal(t, rem.ReminderTimes, got.ReminderTimes)
	assert.Equal(t, rem.StartDate.String(), got.StartDate.String())

	gotLogs, err := memory.NewLogRepository(reloaded).List(ctx, &model.LogFilters{UserID: "user-123"})
	require.NoError(t, err)
	assert.Len(t, gotLogs, 1)

	gotSettings, err := memory.NewSettingsRepository(reloaded).Get(ctx, "user-123")
	require.NoError(t, err)
	assert.True(t, gotSettings.EnableNotifications)
}

func TestCorruptSnapshotSkipped(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store := memory.NewStore(dir, testLogger())
	require.NoError(t, memory.NewSettingsRepository(store).Upsert(ctx, model.DefaultNotificationSettings("user-123")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reminders.json"), []byte("{not json"), 0o644))

	// The corrupt collection loads empty, the intact one survives.
	reloaded := memory.NewStore(dir, testLogger())

	got, err := memory.NewReminderRepository(reloaded).List(ctx, &model.ReminderFilters{})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = memory.NewSettingsRepository(reloaded).Get(ctx, "user-123")
	assert.NoError(t, err)
}

func TestReminderListOrdering(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore("", testLogger())
	reminders := memory.NewReminderRepository(store)

	later := time.Date(2026, 3, 2, 20, 0, 0, 0, time.Local)
	sooner := time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local)

	unscheduled := sampleReminder("user-123", nil)
	require.NoError(t, reminders.Create(ctx, unscheduled))
	second := sampleReminder("user-123", &later)
	require.NoError(t, reminders.Create(ctx, second))
	first := sampleReminder("user-123", &sooner)
	require.NoError(t, reminders.Create(ctx, first))
	require.NoError(t, reminders.Create(ctx, sampleReminder("other-user", &sooner)))

	out, err := reminders.List(ctx, &model.ReminderFilters{UserID: "user-123"})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, first.ID, out[0].ID)
	assert.Equal(t, second.ID, out[1].ID)
	// No due time sorts last.
	assert.Equal(t, unscheduled.ID, out[2].ID)
}

func TestLogListFilters(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore("", testLogger())
	logs := memory.NewLogRepository(store)

	reminderID := uuid.New()
	days := []time.Time{
		time.Date(2026, 3, 1, 8, 0, 0, 0, time.Local),
		time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local),
		time.Date(2026, 3, 3, 8, 0, 0, 0, time.Local),
	}
	for _, d := range days {
		require.NoError(t, logs.Create(ctx, &model.MedicationLog{
			ID:            uuid.New(),
			ReminderID:    reminderID,
			UserID:        "user-123",
			ScheduledTime: d,
			Status:        model.LogStatusTaken,
			CreatedAt:     d,
		}))
	}

	// Date range is inclusive on both ends.
	out, err := logs.List(ctx, &model.LogFilters{
		UserID:    "user-123",
		StartDate: model.NewDate(2026, 3, 2),
		EndDate:   model.NewDate(2026, 3, 3),
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	// Newest scheduled first.
	assert.True(t, out[0].ScheduledTime.After(out[1].ScheduledTime))

	out, err = logs.List(ctx, &model.LogFilters{UserID: "user-123", Limit: 1})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, days[2], out[0].ScheduledTime)

	out, err = logs.List(ctx, &model.LogFilters{UserID: "user-123", ReminderID: uuid.New()})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDeleteByReminder(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore("", testLogger())
	logs := memory.NewLogRepository(store)

	keep := uuid.New()
	drop := uuid.New()
	for _, rid := range []uuid.UUID{keep, drop, drop} {
		require.NoError(t, logs.Create(ctx, &model.MedicationLog{
			ID:            uuid.New(),
			ReminderID:    rid,
			UserID:        "user-123",
			ScheduledTime: time.Now(),
			Status:        model.LogStatusTaken,
			CreatedAt:     time.Now(),
		}))
	}

	require.NoError(t, logs.DeleteByReminder(ctx, drop))

	out, err := logs.List(ctx, &model.LogFilters{UserID: "user-123"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, keep, out[0].ReminderID)
}

func TestReminderNotFound(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore("", testLogger())
	reminders := memory.NewReminderRepository(store)

	_, err := reminders.Get(ctx, uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
	assert.True(t, apperrors.IsNotFound(reminders.Delete(ctx, uuid.New())))
	assert.True(t, apperrors.IsNotFound(reminders.Update(ctx, sampleReminder("user-123", nil))))
}
