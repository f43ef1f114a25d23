package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/arogya/reminder-api/internal/model"
	apperrors "github.com/arogya/reminder-api/pkg/errors"
)

// OutboxRepository keeps pending events in memory only. Events are transient
// integration plumbing, not part of the snapshotted domain state.
type OutboxRepository struct {
	store *Store
}

func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store}
}

func (r *OutboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *event
	s.outbox[event.ID] = &clone
	return nil
}

func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.OutboxEvent
	for _, e := range s.outbox {
		if e.Status != model.OutboxStatusPending {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *OutboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(id, model.OutboxStatusProcessed, nil)
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	return r.setStatus(id, model.OutboxStatusFailed, &errMsg)
}

func (r *OutboxRepository) setStatus(id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.outbox[id]
	if !ok {
		return apperrors.NotFound("outbox event")
	}
	e.Status = status
	e.ErrorMessage = errMsg
	now := time.Now()
	e.ProcessedAt = &now
	if status == model.OutboxStatusFailed {
		e.RetryCount++
	}
	return nil
}
