package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arogya/reminder-api/internal/model"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := model.ParseTimeOfDay("08:30")
	require.NoError(t, err)
	assert.Equal(t, "08:30:00", tod.String())

	tod, err = model.ParseTimeOfDay("20:15:45")
	require.NoError(t, err)
	assert.Equal(t, "20:15:45", tod.String())

	for _, bad := range []string{"", "8am", "25:00", "12:60"} {
		_, err := model.ParseTimeOfDay(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestTimeOfDayOn(t *testing.T) {
	tod := model.TimeOfDay{Hour: 20, Minute: 30}
	day := time.Date(2026, 3, 2, 9, 45, 12, 0, time.Local)
	assert.Equal(t, time.Date(2026, 3, 2, 20, 30, 0, 0, time.Local), tod.On(day))
}

func TestTimeOfDayBefore(t *testing.T) {
	assert.True(t, model.TimeOfDay{Hour: 8}.Before(model.TimeOfDay{Hour: 20}))
	assert.True(t, model.TimeOfDay{Hour: 8, Minute: 15}.Before(model.TimeOfDay{Hour: 8, Minute: 30}))
	assert.False(t, model.TimeOfDay{Hour: 8}.Before(model.TimeOfDay{Hour: 8}))
}

func TestTimeOfDayListJSON(t *testing.T) {
	list := model.TimeOfDayList{{Hour: 8}, {Hour: 20, Minute: 30}}
	raw, err := json.Marshal(list)
	require.NoError(t, err)
	assert.JSONEq(t, `["08:00:00","20:30:00"]`, string(raw))

	var decoded model.TimeOfDayList
	require.NoError(t, json.Unmarshal([]byte(`["07:00","21:05:30"]`), &decoded))
	assert.Equal(t, model.TimeOfDayList{{Hour: 7}, {Hour: 21, Minute: 5, Second: 30}}, decoded)
}

func TestDateWindow(t *testing.T) {
	start, err := model.ParseDate("2026-03-01")
	require.NoError(t, err)
	end, err := model.ParseDate("2026-03-10")
	require.NoError(t, err)

	r := &model.Reminder{
		Status:    model.ReminderStatusActive,
		StartDate: start,
		EndDate:   &end,
	}
	assert.True(t, r.ActiveOn(model.NewDate(2026, 3, 1)))
	assert.True(t, r.ActiveOn(model.NewDate(2026, 3, 10)))
	assert.False(t, r.ActiveOn(model.NewDate(2026, 2, 28)))
	assert.False(t, r.ActiveOn(model.NewDate(2026, 3, 11)))

	r.Status = model.ReminderStatusPaused
	assert.False(t, r.ActiveOn(model.NewDate(2026, 3, 5)))

	_, err = model.ParseDate("03/02/2026")
	assert.Error(t, err)
}
