package reminder_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arogya/reminder-api/internal/model"
	"github.com/arogya/reminder-api/internal/repository/memory"
	"github.com/arogya/reminder-api/internal/service/reminder"
	apperrors "github.com/arogya/reminder-api/pkg/errors"
	"github.com/arogya/reminder-api/pkg/logger"
)

const testUser = "user-123"

type fixture struct {
	svc       *reminder.Service
	reminders *memory.ReminderRepository
	logs      *memory.LogRepository
	settings  *memory.SettingsRepository
	outbox    *memory.OutboxRepository
}

func newFixture(now time.Time) *fixture {
	log := logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	store := memory.NewStore("", log)
	f := &fixture{
		reminders: memory.NewReminderRepository(store),
		logs:      memory.NewLogRepository(store),
		settings:  memory.NewSettingsRepository(store),
		outbox:    memory.NewOutboxRepository(store),
	}
	f.svc = reminder.NewService(f.reminders, f.logs, f.settings, f.outbox, log).
		WithClock(func() time.Time { return now })
	return f
}

func createRequest(now time.Time) *model.CreateReminderRequest {
	return &model.CreateReminderRequest{
		MedicationName: "Metformin",
		Dosage:         "500mg",
		Frequency:      model.FrequencyDaily,
		ReminderTimes:  []string{"08:00", "20:00"},
		StartDate:      model.DateOf(now).String(),
	}
}

func TestCreateReminder(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	f := newFixture(now)

	created, err := f.svc.CreateReminder(context.Background(), testUser, createRequest(now))
	require.NoError(t, err)

	assert.Equal(t, model.ReminderStatusActive, created.Status)
	assert.Equal(t, "default", created.Ringtone)
	assert.Equal(t, 0, created.TotalDoses)
	require.NotNil(t, created.NextDoseTime)
	assert.Equal(t, time.Date(2026, 3, 2, 20, 0, 0, 0, time.Local), *created.NextDoseTime)

	stored, err := f.reminders.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, testUser, stored.UserID)

	events, err := f.outbox.GetPendingEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventReminderCreated, events[0].EventType)
}

func TestCreateReminderValidation(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	f := newFixture(now)
	ctx := context.Background()

	req := createRequest(now)
	req.MedicationName = ""
	_, err := f.svc.CreateReminder(ctx, testUser, req)
	assert.True(t, apperrors.IsValidation(err))

	req = createRequest(now)
	req.Frequency = "hourly"
	_, err = f.svc.CreateReminder(ctx, testUser, req)
	assert.True(t, apperrors.IsValidation(err))

	req = createRequest(now)
	req.ReminderTimes = []string{"25:99"}
	_, err = f.svc.CreateReminder(ctx, testUser, req)
	assert.True(t, apperrors.IsValidation(err))

	req = createRequest(now)
	before := model.DateOf(now.AddDate(0, 0, -1)).String()
	req.EndDate = &before
	_, err = f.svc.CreateReminder(ctx, testUser, req)
	assert.True(t, apperrors.IsValidation(err))
}

func TestGetReminderOwnership(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	f := newFixture(now)
	ctx := context.Background()

	created, err := f.svc.CreateReminder(ctx, testUser, createRequest(now))
	require.NoError(t, err)

	// Another owner's lookup is indistinguishable from a miss.
	_, err = f.svc.GetReminder(ctx, "someone-else", created.ID)
	assert.True(t, apperrors.IsNotFound(err))

	got, err := f.svc.GetReminder(ctx, testUser, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestUpdateReminder(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	f := newFixture(now)
	ctx := context.Background()

	created, err := f.svc.CreateReminder(ctx, testUser, createRequest(now))
	require.NoError(t, err)
	originalNext := *created.NextDoseTime

	// A cosmetic patch must not move the next due time.
	dosage := "850mg"
	updated, err := f.svc.UpdateReminder(ctx, testUser, created.ID, &model.UpdateReminderRequest{Dosage: &dosage})
	require.NoError(t, err)
	assert.Equal(t, "850mg", updated.Dosage)
	require.NotNil(t, updated.NextDoseTime)
	assert.Equal(t, originalNext, *updated.NextDoseTime)

	// Changing the times does.
	times := []string{"10:00"}
	updated, err = f.svc.UpdateReminder(ctx, testUser, created.ID, &model.UpdateReminderRequest{ReminderTimes: &times})
	require.NoError(t, err)
	require.NotNil(t, updated.NextDoseTime)
	assert.Equal(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local), *updated.NextDoseTime)

	// Pausing clears it.
	paused := model.ReminderStatusPaused
	updated, err = f.svc.UpdateReminder(ctx, testUser, created.ID, &model.UpdateReminderRequest{Status: &paused})
	require.NoError(t, err)
	assert.Nil(t, updated.NextDoseTime)

	bad := model.ReminderStatus("archived")
	_, err = f.svc.UpdateReminder(ctx, testUser, created.ID, &model.UpdateReminderRequest{Status: &bad})
	assert.True(t, apperrors.IsValidation(err))
}

func TestDeleteReminderCascades(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	f := newFixture(now)
	ctx := context.Background()

	created, err := f.svc.CreateReminder(ctx, testUser, createRequest(now))
	require.NoError(t, err)

	_, err = f.svc.LogDose(ctx, testUser, created.ID, &model.LogDoseRequest{Status: model.LogStatusTaken})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteReminder(ctx, testUser, created.ID))

	_, err = f.svc.GetReminder(ctx, testUser, created.ID)
	assert.True(t, apperrors.IsNotFound(err))

	logs, err := f.logs.List(ctx, &model.LogFilters{UserID: testUser})
	require.NoError(t, err)
	assert.Empty(t, logs)

	err = f.svc.DeleteReminder(ctx, testUser, created.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestLogDose(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	f := newFixture(now)
	ctx := context.Background()

	created, err := f.svc.CreateReminder(ctx, testUser, createRequest(now))
	require.NoError(t, err)
	due := *created.NextDoseTime

	taken, err := f.svc.LogDose(ctx, testUser, created.ID, &model.LogDoseRequest{Status: model.LogStatusTaken})
	require.NoError(t, err)
	assert.Equal(t, due, taken.ScheduledTime)
	require.NotNil(t, taken.TakenTime)
	assert.Equal(t, now, *taken.TakenTime)

	skipped, err := f.svc.LogDose(ctx, testUser, created.ID, &model.LogDoseRequest{Status: model.LogStatusSkipped})
	require.NoError(t, err)
	assert.Nil(t, skipped.TakenTime)

	after, err := f.svc.GetReminder(ctx, testUser, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.TotalDoses)
	assert.Equal(t, 1, after.TakenDoses)
	// Skipped doses count toward missed.
	assert.Equal(t, 1, after.MissedDoses)
	assert.InDelta(t, 50.0, after.CompletionRate(), 0.001)

	_, err = f.svc.LogDose(ctx, testUser, created.ID, &model.LogDoseRequest{Status: "late"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestLogDoseConcurrent(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	f := newFixture(now)
	ctx := context.Background()

	created, err := f.svc.CreateReminder(ctx, testUser, createRequest(now))
	require.NoError(t, err)

	const n = 25
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := f.svc.LogDose(ctx, testUser, created.ID, &model.LogDoseRequest{Status: model.LogStatusTaken})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	after, err := f.svc.GetReminder(ctx, testUser, created.ID)
	require.NoError(t, err)
	assert.Equal(t, n, after.TotalDoses)
	assert.Equal(t, n, after.TakenDoses)
}

func TestNotificationSettings(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	f := newFixture(now)
	ctx := context.Background()

	// First read returns defaults without persisting them.
	defaults, err := f.svc.GetNotificationSettings(ctx, testUser)
	require.NoError(t, err)
	assert.True(t, defaults.EnableNotifications)
	assert.Equal(t, 5, defaults.ReminderAdvanceMinutes)

	_, err = f.settings.Get(ctx, testUser)
	assert.True(t, apperrors.IsNotFound(err))

	advance := 15
	quietStart := "22:00"
	updated, err := f.svc.UpdateNotificationSettings(ctx, testUser, &model.UpdateNotificationSettingsRequest{
		ReminderAdvanceMinutes: &advance,
		QuietHoursStart:        &quietStart,
	})
	require.NoError(t, err)
	assert.Equal(t, 15, updated.ReminderAdvanceMinutes)
	require.NotNil(t, updated.QuietHoursStart)
	assert.Equal(t, "22:00:00", updated.QuietHoursStart.String())

	stored, err := f.settings.Get(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 15, stored.ReminderAdvanceMinutes)

	badQuiet := "late"
	_, err = f.svc.UpdateNotificationSettings(ctx, testUser, &model.UpdateNotificationSettingsRequest{
		QuietHoursStart: &badQuiet,
	})
	assert.True(t, apperrors.IsValidation(err))
}
