package reminder_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arogya/reminder-api/internal/model"
	"github.com/arogya/reminder-api/internal/service/reminder"
)

func mustTimes(t *testing.T, raw ...string) model.TimeOfDayList {
	t.Helper()
	times := make(model.TimeOfDayList, 0, len(raw))
	for _, s := range raw {
		tod, err := model.ParseTimeOfDay(s)
		require.NoError(t, err)
		times = append(times, tod)
	}
	return times
}

func scheduledReminder(t *testing.T, freq model.FrequencyType, raw ...string) *model.Reminder {
	t.Helper()
	return &model.Reminder{
		Frequency:     freq,
		ReminderTimes: mustTimes(t, raw...),
		Status:        model.ReminderStatusActive,
	}
}

func TestNextDueDaily(t *testing.T) {
	r := scheduledReminder(t, model.FrequencyDaily, "08:00", "20:00")

	// Mid-morning: the 08:00 anchor has passed, 20:00 is next.
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	next := reminder.NextDue(r, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2026, 3, 2, 20, 0, 0, 0, time.Local), *next)

	// After the last anchor the schedule rolls to tomorrow's earliest.
	now = time.Date(2026, 3, 2, 21, 0, 0, 0, time.Local)
	next = reminder.NextDue(r, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2026, 3, 3, 8, 0, 0, 0, time.Local), *next)

	// Exactly on an anchor: the result must be strictly later.
	now = time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local)
	next = reminder.NextDue(r, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2026, 3, 2, 20, 0, 0, 0, time.Local), *next)
}

func TestNextDueWeeklyAndMonthly(t *testing.T) {
	now := time.Date(2026, 3, 2, 23, 30, 0, 0, time.Local)

	weekly := scheduledReminder(t, model.FrequencyWeekly, "20:00", "08:00")
	next := reminder.NextDue(weekly, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2026, 3, 9, 8, 0, 0, 0, time.Local), *next)

	monthly := scheduledReminder(t, model.FrequencyMonthly, "09:30")
	next = reminder.NextDue(monthly, now)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2026, 4, 1, 9, 30, 0, 0, time.Local), *next)
}

func TestNextDueStrictlyAfterNow(t *testing.T) {
	cases := []*model.Reminder{
		scheduledReminder(t, model.FrequencyDaily, "00:00", "12:00", "23:59"),
		scheduledReminder(t, model.FrequencyWeekly, "00:00"),
		scheduledReminder(t, model.FrequencyMonthly, "23:59"),
	}
	instants := []time.Time{
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local),
		time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local),
		time.Date(2026, 3, 2, 23, 59, 0, 0, time.Local),
	}
	for _, r := range cases {
		for _, now := range instants {
			next := reminder.NextDue(r, now)
			require.NotNil(t, next)
			assert.True(t, next.After(now), "next due %v not after %v", next, now)
		}
	}
}

func TestNextDueNoSchedule(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)

	paused := scheduledReminder(t, model.FrequencyDaily, "08:00")
	paused.Status = model.ReminderStatusPaused
	assert.Nil(t, reminder.NextDue(paused, now))

	asNeeded := scheduledReminder(t, model.FrequencyAsNeeded, "08:00")
	assert.Nil(t, reminder.NextDue(asNeeded, now))

	empty := scheduledReminder(t, model.FrequencyDaily)
	assert.Nil(t, reminder.NextDue(empty, now))
}

func TestNextDuePure(t *testing.T) {
	r := scheduledReminder(t, model.FrequencyDaily, "08:00", "20:00")
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)

	first := reminder.NextDue(r, now)
	second := reminder.NextDue(r, now)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
}
