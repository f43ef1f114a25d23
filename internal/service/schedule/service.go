package schedule

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/arogya/reminder-api/internal/model"
	"github.com/arogya/reminder-api/internal/repository"
	apperrors "github.com/arogya/reminder-api/pkg/errors"
)

// Adherence windows in trailing days.
const (
	weeklyWindowDays  = 7
	monthlyWindowDays = 30
)

// Service projects read-only schedule and adherence views by joining the
// reminder registry with the dose log store. It is the only place the two
// are joined; it never mutates either.
type Service struct {
	reminders repository.ReminderRepository
	logs      repository.LogRepository
	cache     *gocache.Cache
	now       func() time.Time
}

// NewService creates a projector. A zero cacheTTL disables caching.
func NewService(reminders repository.ReminderRepository, logs repository.LogRepository, cacheTTL time.Duration) *Service {
	var c *gocache.Cache
	if cacheTTL > 0 {
		c = gocache.New(cacheTTL, 2*cacheTTL)
	}
	return &Service{
		reminders: reminders,
		logs:      logs,
		cache:     c,
		now:       time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// TodaySchedule returns the owner's schedule for the current day: which
// active reminders have doses due today and how today's doses have gone so
// far.
func (s *Service) TodaySchedule(ctx context.Context, userID string) (*model.TodaySchedule, error) {
	if cached, ok := s.cacheGet("schedule:" + userID); ok {
		return cached.(*model.TodaySchedule), nil
	}

	now := s.now()
	today := model.DateOf(now)

	reminders, err := s.reminders.List(ctx, &model.ReminderFilters{
		UserID: userID,
		Status: model.ReminderStatusActive,
	})
	if err != nil {
		return nil, err
	}

	var qualifying []*model.Reminder
	for _, r := range reminders {
		if dueToday(r, today) {
			qualifying = append(qualifying, r)
		}
	}

	todayLogs, err := s.logsOn(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	qualifyingIDs := make(map[string]bool, len(qualifying))
	responses := make([]*model.ReminderResponse, 0, len(qualifying))
	for _, r := range qualifying {
		qualifyingIDs[r.ID.String()] = true
		responses = append(responses, r.ToResponse())
	}

	taken, missed := 0, 0
	for _, l := range todayLogs {
		if !qualifyingIDs[l.ReminderID.String()] {
			continue
		}
		if l.Status == model.LogStatusTaken {
			taken++
		} else {
			missed++
		}
	}

	pending := 0
	for _, r := range qualifying {
		pending += anchorsRemaining(r.ReminderTimes, now)
	}
	pending -= taken
	if pending < 0 {
		pending = 0
	}

	result := &model.TodaySchedule{
		Date:         today.String(),
		Reminders:    responses,
		Total:        len(responses),
		TakenToday:   taken,
		PendingToday: pending,
		MissedToday:  missed,
	}
	s.cacheSet("schedule:"+userID, result)
	return result, nil
}

// Stats returns the owner's adherence aggregates. Weekly and monthly
// adherence consider only logs of currently active reminders inside the
// trailing window and are 0 when that window holds no logs.
func (s *Service) Stats(ctx context.Context, userID string) (*model.ReminderStats, error) {
	if cached, ok := s.cacheGet("stats:" + userID); ok {
		return cached.(*model.ReminderStats), nil
	}

	now := s.now()
	today := model.DateOf(now)

	all, err := s.reminders.List(ctx, &model.ReminderFilters{UserID: userID})
	if err != nil {
		return nil, err
	}

	activeIDs := make(map[string]bool)
	active := 0
	pending := 0
	for _, r := range all {
		if r.Status != model.ReminderStatusActive {
			continue
		}
		active++
		activeIDs[r.ID.String()] = true
		if dueToday(r, today) {
			pending += anchorsRemaining(r.ReminderTimes, now)
		}
	}

	todayLogs, err := s.logsOn(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	completedToday, missedToday := 0, 0
	for _, l := range todayLogs {
		if l.Status == model.LogStatusTaken {
			completedToday++
		} else {
			missedToday++
		}
	}
	pending -= completedToday
	if pending < 0 {
		pending = 0
	}

	monthLogs, err := s.logs.List(ctx, &model.LogFilters{
		UserID:    userID,
		StartDate: model.DateOf(now.AddDate(0, 0, -monthlyWindowDays)),
	})
	if err != nil {
		return nil, err
	}

	weekCutoff := now.AddDate(0, 0, -weeklyWindowDays)
	weekTaken, weekTotal := 0, 0
	monthTaken, monthTotal := 0, 0
	for _, l := range monthLogs {
		if !activeIDs[l.ReminderID.String()] {
			continue
		}
		monthTotal++
		if l.Status == model.LogStatusTaken {
			monthTaken++
		}
		if !l.ScheduledTime.Before(weekCutoff) {
			weekTotal++
			if l.Status == model.LogStatusTaken {
				weekTaken++
			}
		}
	}

	result := &model.ReminderStats{
		TotalReminders:   len(all),
		ActiveReminders:  active,
		CompletedToday:   completedToday,
		PendingToday:     pending,
		MissedToday:      missedToday,
		WeeklyAdherence:  adherence(weekTaken, weekTotal),
		MonthlyAdherence: adherence(monthTaken, monthTotal),
	}
	s.cacheSet("stats:"+userID, result)
	return result, nil
}

// Upcoming returns active reminders whose next dose falls within the given
// number of hours from now, soonest first.
func (s *Service) Upcoming(ctx context.Context, userID string, hoursAhead int) ([]*model.Reminder, error) {
	if hoursAhead < 1 || hoursAhead > 168 {
		return nil, apperrors.Validation("hours_ahead must be between 1 and 168")
	}

	reminders, err := s.reminders.List(ctx, &model.ReminderFilters{
		UserID: userID,
		Status: model.ReminderStatusActive,
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	cutoff := now.Add(time.Duration(hoursAhead) * time.Hour)
	var out []*model.Reminder
	for _, r := range reminders {
		if r.NextDoseTime == nil {
			continue
		}
		if r.NextDoseTime.After(now) && !r.NextDoseTime.After(cutoff) {
			out = append(out, r)
		}
	}
	return out, nil
}

// dueToday reports whether the reminder has at least one dose due on the
// given day under the simplified cadence model: daily, weekly and monthly all
// qualify while the date window contains the day, as-needed never does.
func dueToday(r *model.Reminder, day model.Date) bool {
	if !r.ActiveOn(day) {
		return false
	}
	return r.Frequency != model.FrequencyAsNeeded
}

// anchorsRemaining counts the reminder's wall-clock anchors still ahead of
// now on now's date.
func anchorsRemaining(times model.TimeOfDayList, now time.Time) int {
	n := 0
	for _, tod := range times {
		if tod.On(now).After(now) {
			n++
		}
	}
	return n
}

func adherence(taken, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(taken) / float64(total) * 100
}

func (s *Service) logsOn(ctx context.Context, userID string, day model.Date) ([]*model.MedicationLog, error) {
	return s.logs.List(ctx, &model.LogFilters{
		UserID:    userID,
		StartDate: day,
		EndDate:   day,
	})
}

func (s *Service) cacheGet(key string) (interface{}, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}

func (s *Service) cacheSet(key string, value interface{}) {
	if s.cache == nil {
		return
	}
	s.cache.SetDefault(key, value)
}
