package schedule_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arogya/reminder-api/internal/model"
	"github.com/arogya/reminder-api/internal/repository/memory"
	"github.com/arogya/reminder-api/internal/service/reminder"
	"github.com/arogya/reminder-api/internal/service/schedule"
	apperrors "github.com/arogya/reminder-api/pkg/errors"
	"github.com/arogya/reminder-api/pkg/logger"
)

const testUser = "user-123"

type fixture struct {
	registry  *reminder.Service
	projector *schedule.Service
}

func newFixture(now time.Time) *fixture {
	log := logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	store := memory.NewStore("", log)
	reminders := memory.NewReminderRepository(store)
	logs := memory.NewLogRepository(store)

	clock := func() time.Time { return now }
	return &fixture{
		registry: reminder.NewService(reminders, logs,
			memory.NewSettingsRepository(store), memory.NewOutboxRepository(store), log).
			WithClock(clock),
		projector: schedule.NewService(reminders, logs, 0).WithClock(clock),
	}
}

func (f *fixture) create(t *testing.T, now time.Time, freq model.FrequencyType, times ...string) *model.Reminder {
	t.Helper()
	created, err := f.registry.CreateReminder(context.Background(), testUser, &model.CreateReminderRequest{
		MedicationName: "Metformin",
		Dosage:         "500mg",
		Frequency:      freq,
		ReminderTimes:  times,
		StartDate:      model.DateOf(now).String(),
	})
	require.NoError(t, err)
	return created
}

func TestTodaySchedule(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	f := newFixture(now)
	ctx := context.Background()

	daily := f.create(t, now, model.FrequencyDaily, "08:00", "20:00")
	asNeeded := f.create(t, now, model.FrequencyAsNeeded, "08:00")

	view, err := f.projector.TodaySchedule(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, model.DateOf(now).String(), view.Date)
	require.Len(t, view.Reminders, 1)
	assert.Equal(t, daily.ID, view.Reminders[0].ID)
	assert.Equal(t, 0, view.TakenToday)
	// 08:00 has passed unlogged, only 20:00 remains.
	assert.Equal(t, 1, view.PendingToday)
	assert.Equal(t, 0, view.MissedToday)

	_, err = f.registry.LogDose(ctx, testUser, daily.ID, &model.LogDoseRequest{Status: model.LogStatusTaken})
	require.NoError(t, err)

	// As-needed doses never appear in the schedule counts.
	_, err = f.registry.LogDose(ctx, testUser, asNeeded.ID, &model.LogDoseRequest{Status: model.LogStatusTaken})
	require.NoError(t, err)

	view, err = f.projector.TodaySchedule(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 1, view.TakenToday)
	assert.Equal(t, 0, view.PendingToday)
}

func TestTodayScheduleSkipsExpiredWindow(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	f := newFixture(now)
	ctx := context.Background()

	created := f.create(t, now, model.FrequencyDaily, "08:00")
	past := model.DateOf(now.AddDate(0, 0, -10)).String()
	ended := model.DateOf(now.AddDate(0, 0, -1)).String()
	_, err := f.registry.UpdateReminder(ctx, testUser, created.ID, &model.UpdateReminderRequest{
		StartDate: &past,
		EndDate:   &ended,
	})
	require.NoError(t, err)

	view, err := f.projector.TodaySchedule(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Total)
}

func TestStats(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	f := newFixture(now)
	ctx := context.Background()

	// No reminders, no logs: adherence is 0, not NaN.
	stats, err := f.projector.Stats(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalReminders)
	assert.Equal(t, 0.0, stats.WeeklyAdherence)
	assert.Equal(t, 0.0, stats.MonthlyAdherence)

	daily := f.create(t, now, model.FrequencyDaily, "08:00", "20:00")

	_, err = f.registry.LogDose(ctx, testUser, daily.ID, &model.LogDoseRequest{Status: model.LogStatusTaken})
	require.NoError(t, err)
	_, err = f.registry.LogDose(ctx, testUser, daily.ID, &model.LogDoseRequest{Status: model.LogStatusSkipped})
	require.NoError(t, err)

	stats, err = f.projector.Stats(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalReminders)
	assert.Equal(t, 1, stats.ActiveReminders)
	assert.Equal(t, 1, stats.CompletedToday)
	assert.Equal(t, 1, stats.MissedToday)
	assert.Equal(t, 0, stats.PendingToday)
	assert.InDelta(t, 50.0, stats.WeeklyAdherence, 0.001)
	assert.InDelta(t, 50.0, stats.MonthlyAdherence, 0.001)
}

func TestUpcoming(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	f := newFixture(now)
	ctx := context.Background()

	daily := f.create(t, now, model.FrequencyDaily, "20:00")
	f.create(t, now, model.FrequencyWeekly, "08:00")

	_, err := f.projector.Upcoming(ctx, testUser, 0)
	assert.True(t, apperrors.IsValidation(err))
	_, err = f.projector.Upcoming(ctx, testUser, 169)
	assert.True(t, apperrors.IsValidation(err))

	// 20:00 today is 11 hours out.
	within, err := f.projector.Upcoming(ctx, testUser, 1)
	require.NoError(t, err)
	assert.Empty(t, within)

	within, err = f.projector.Upcoming(ctx, testUser, 24)
	require.NoError(t, err)
	require.Len(t, within, 1)
	assert.Equal(t, daily.ID, within[0].ID)

	// The weekly reminder's next dose is 7 days out.
	within, err = f.projector.Upcoming(ctx, testUser, 168)
	require.NoError(t, err)
	assert.Len(t, within, 2)
}
