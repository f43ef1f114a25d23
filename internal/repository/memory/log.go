package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/arogya/reminder-api/internal/model"
)

type LogRepository struct {
	store *Store
}

func NewLogRepository(store *Store) *LogRepository {
	return &LogRepository{store: store}
}

func (r *LogRepository) Create(ctx context.Context, log *model.MedicationLog) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *log
	s.logs[log.ID] = &clone
	s.saveLogs()
	return nil
}

func (r *LogRepository) List(ctx context.Context, filters *model.LogFilters) ([]*model.MedicationLog, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.MedicationLog
	for _, l := range s.logs {
		if filters.UserID != "" && l.UserID != filters.UserID {
			continue
		}
		if filters.ReminderID != uuid.Nil && l.ReminderID != filters.ReminderID {
			continue
		}
		if !filters.StartDate.IsZero() && model.DateOf(l.ScheduledTime).Before(filters.StartDate.Time) {
			continue
		}
		if !filters.EndDate.IsZero() && model.DateOf(l.ScheduledTime).After(filters.EndDate.Time) {
			continue
		}
		clone := *l
		out = append(out, &clone)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledTime.After(out[j].ScheduledTime)
	})

	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (r *LogRepository) DeleteByReminder(ctx context.Context, reminderID uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, l := range s.logs {
		if l.ReminderID == reminderID {
			delete(s.logs, id)
		}
	}
	s.saveLogs()
	return nil
}
