package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/arogya/reminder-api/internal/model"
	apperrors "github.com/arogya/reminder-api/pkg/errors"
)

type ReminderRepository struct {
	store *Store
}

func NewReminderRepository(store *Store) *ReminderRepository {
	return &ReminderRepository{store: store}
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *reminder
	s.reminders[reminder.ID] = &clone
	s.saveReminders()
	return nil
}

func (r *ReminderRepository) Get(ctx context.Context, id uuid.UUID) (*model.Reminder, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.reminders[id]
	if !ok {
		return nil, apperrors.NotFound("reminder")
	}
	clone := *rec
	return &clone, nil
}

func (r *ReminderRepository) Update(ctx context.Context, reminder *model.Reminder) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reminders[reminder.ID]; !ok {
		return apperrors.NotFound("reminder")
	}
	clone := *reminder
	s.reminders[reminder.ID] = &clone
	s.saveReminders()
	return nil
}

func (r *ReminderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reminders[id]; !ok {
		return apperrors.NotFound("reminder")
	}
	delete(s.reminders, id)
	s.saveReminders()
	return nil
}

func (r *ReminderRepository) List(ctx context.Context, filters *model.ReminderFilters) ([]*model.Reminder, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Reminder
	for _, rec := range s.reminders {
		if filters.UserID != "" && rec.UserID != filters.UserID {
			continue
		}
		if filters.Status != "" && rec.Status != filters.Status {
			continue
		}
		clone := *rec
		out = append(out, &clone)
	}

	// Next dose ascending, reminders with no due time last.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].NextDoseTime, out[j].NextDoseTime
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return out, nil
}
