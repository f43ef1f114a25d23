package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/arogya/reminder-api/internal/model"
)

func (r *logRepository) Create(ctx context.Context, log *model.MedicationLog) error {
	query := `
		INSERT INTO medication_logs (
			id, reminder_id, user_id, scheduled_time, taken_time,
			status, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.ReminderID,
		log.UserID,
		log.ScheduledTime,
		log.TakenTime,
		log.Status,
		log.Notes,
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medication log: %w", err)
	}
	return nil
}

func (r *logRepository) List(ctx context.Context, filters *model.LogFilters) ([]*model.MedicationLog, error) {
	query := `
		SELECT id, reminder_id, user_id, scheduled_time, taken_time,
			   status, notes, created_at
		FROM medication_logs
		WHERE user_id = $1
	`
	args := []interface{}{filters.UserID}
	argCount := 2

	if filters.ReminderID != uuid.Nil {
		query += fmt.Sprintf(" AND reminder_id = $%d", argCount)
		args = append(args, filters.ReminderID)
		argCount++
	}

	if !filters.StartDate.IsZero() {
		query += fmt.Sprintf(" AND scheduled_time >= $%d", argCount)
		args = append(args, filters.StartDate.Time)
		argCount++
	}

	if !filters.EndDate.IsZero() {
		// Inclusive end date: everything before the following midnight.
		query += fmt.Sprintf(" AND scheduled_time < $%d", argCount)
		args = append(args, filters.EndDate.AddDate(0, 0, 1))
		argCount++
	}

	query += " ORDER BY scheduled_time DESC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filters.Limit)
	}

	var logs []*model.MedicationLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list medication logs: %w", err)
	}
	return logs, nil
}

func (r *logRepository) DeleteByReminder(ctx context.Context, reminderID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM medication_logs WHERE reminder_id = $1`, reminderID)
	if err != nil {
		return fmt.Errorf("failed to delete medication logs: %w", err)
	}
	return nil
}
