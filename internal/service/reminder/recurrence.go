package reminder

import (
	"time"

	"github.com/arogya/reminder-api/internal/model"
)

// NextDue computes the next due instant for a reminder given the current
// time. It is a pure function: same (reminder, now) in, same instant out.
//
// Reminders that are not active, are as-needed, or have no reminder times
// generate no schedule and yield nil. For daily reminders the next due is the
// earliest unpassed anchor on now's date, falling over to the earliest anchor
// tomorrow once all of today's anchors have passed. Weekly and monthly
// cadences project the earliest anchor a flat 7 or 30 days ahead; they do not
// track a weekday or day-of-month. The result is always strictly after now.
func NextDue(r *model.Reminder, now time.Time) *time.Time {
	if r.Status != model.ReminderStatusActive {
		return nil
	}
	if r.Frequency == model.FrequencyAsNeeded || len(r.ReminderTimes) == 0 {
		return nil
	}

	switch r.Frequency {
	case model.FrequencyDaily:
		if next := earliestAfter(r.ReminderTimes, now); next != nil {
			return next
		}
		next := earliestAnchor(r.ReminderTimes).On(now.AddDate(0, 0, 1))
		return &next
	case model.FrequencyWeekly:
		next := earliestAnchor(r.ReminderTimes).On(now.AddDate(0, 0, 7))
		return &next
	case model.FrequencyMonthly:
		next := earliestAnchor(r.ReminderTimes).On(now.AddDate(0, 0, 30))
		return &next
	}
	return nil
}

// earliestAfter returns the earliest anchor on now's date that is strictly
// after now, or nil when every anchor has already passed today.
func earliestAfter(times model.TimeOfDayList, now time.Time) *time.Time {
	var best *time.Time
	for _, tod := range times {
		candidate := tod.On(now)
		if !candidate.After(now) {
			continue
		}
		if best == nil || candidate.Before(*best) {
			c := candidate
			best = &c
		}
	}
	return best
}

func earliestAnchor(times model.TimeOfDayList) model.TimeOfDay {
	earliest := times[0]
	for _, tod := range times[1:] {
		if tod.Before(earliest) {
			earliest = tod
		}
	}
	return earliest
}
