package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/arogya/reminder-api/internal/model"
	apperrors "github.com/arogya/reminder-api/pkg/errors"
)

func (r *reminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	query := `
		INSERT INTO reminders (
			id, user_id, medication_name, dosage, frequency, reminder_times,
			start_date, end_date, ringtone, notes, status, next_dose_time,
			total_doses, taken_doses, missed_doses, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.db.ExecContext(ctx, query,
		reminder.ID,
		reminder.UserID,
		reminder.MedicationName,
		reminder.Dosage,
		reminder.Frequency,
		reminder.ReminderTimes,
		reminder.StartDate,
		reminder.EndDate,
		reminder.Ringtone,
		reminder.Notes,
		reminder.Status,
		reminder.NextDoseTime,
		reminder.TotalDoses,
		reminder.TakenDoses,
		reminder.MissedDoses,
		reminder.CreatedAt,
		reminder.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

func (r *reminderRepository) Get(ctx context.Context, id uuid.UUID) (*model.Reminder, error) {
	query := `
		SELECT id, user_id, medication_name, dosage, frequency, reminder_times,
			   start_date, end_date, ringtone, notes, status, next_dose_time,
			   total_doses, taken_doses, missed_doses, created_at, updated_at
		FROM reminders
		WHERE id = $1
	`
	var reminder model.Reminder
	err := r.db.GetContext(ctx, &reminder, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("reminder")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return &reminder, nil
}

func (r *reminderRepository) Update(ctx context.Context, reminder *model.Reminder) error {
	query := `
		UPDATE reminders
		SET medication_name = $1, dosage = $2, frequency = $3, reminder_times = $4,
			start_date = $5, end_date = $6, ringtone = $7, notes = $8, status = $9,
			next_dose_time = $10, total_doses = $11, taken_doses = $12,
			missed_doses = $13, updated_at = $14
		WHERE id = $15
	`
	result, err := r.db.ExecContext(ctx, query,
		reminder.MedicationName,
		reminder.Dosage,
		reminder.Frequency,
		reminder.ReminderTimes,
		reminder.StartDate,
		reminder.EndDate,
		reminder.Ringtone,
		reminder.Notes,
		reminder.Status,
		reminder.NextDoseTime,
		reminder.TotalDoses,
		reminder.TakenDoses,
		reminder.MissedDoses,
		reminder.UpdatedAt,
		reminder.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("reminder")
	}
	return nil
}

func (r *reminderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("reminder")
	}
	return nil
}

func (r *reminderRepository) List(ctx context.Context, filters *model.ReminderFilters) ([]*model.Reminder, error) {
	query := `
		SELECT id, user_id, medication_name, dosage, frequency, reminder_times,
			   start_date, end_date, ringtone, notes, status, next_dose_time,
			   total_doses, taken_doses, missed_doses, created_at, updated_at
		FROM reminders
		WHERE user_id = $1
	`
	args := []interface{}{filters.UserID}

	if filters.Status != "" {
		query += " AND status = $2"
		args = append(args, filters.Status)
	}

	query += " ORDER BY next_dose_time ASC NULLS LAST, created_at ASC"

	var reminders []*model.Reminder
	if err := r.db.SelectContext(ctx, &reminders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}
