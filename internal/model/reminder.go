package model

import (
	"time"

	"github.com/google/uuid"
)

type FrequencyType string

const (
	FrequencyDaily    FrequencyType = "daily"
	FrequencyWeekly   FrequencyType = "weekly"
	FrequencyMonthly  FrequencyType = "monthly"
	FrequencyAsNeeded FrequencyType = "as_needed"
)

func (f FrequencyType) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyAsNeeded:
		return true
	}
	return false
}

type ReminderStatus string

const (
	ReminderStatusActive    ReminderStatus = "active"
	ReminderStatusPaused    ReminderStatus = "paused"
	ReminderStatusCompleted ReminderStatus = "completed"
	ReminderStatusCancelled ReminderStatus = "cancelled"
)

func (s ReminderStatus) Valid() bool {
	switch s {
	case ReminderStatusActive, ReminderStatusPaused, ReminderStatusCompleted, ReminderStatusCancelled:
		return true
	}
	return false
}

// Reminder is a standing instruction to take a medication on a schedule.
// NextDoseTime is derived state: it is recomputed on every mutation that can
// invalidate it and is nil whenever the reminder is not active, the frequency
// is as_needed, or no reminder times are set.
type Reminder struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	UserID         string         `db:"user_id" json:"user_id"`
	MedicationName string         `db:"medication_name" json:"medication_name"`
	Dosage         string         `db:"dosage" json:"dosage"`
	Frequency      FrequencyType  `db:"frequency" json:"frequency"`
	ReminderTimes  TimeOfDayList  `db:"reminder_times" json:"reminder_times"`
	StartDate      Date           `db:"start_date" json:"start_date"`
	EndDate        *Date          `db:"end_date" json:"end_date,omitempty"`
	Ringtone       string         `db:"ringtone" json:"ringtone"`
	Notes          *string        `db:"notes" json:"notes,omitempty"`
	Status         ReminderStatus `db:"status" json:"status"`
	NextDoseTime   *time.Time     `db:"next_dose_time" json:"next_dose_time,omitempty"`
	TotalDoses     int            `db:"total_doses" json:"total_doses"`
	TakenDoses     int            `db:"taken_doses" json:"taken_doses"`
	MissedDoses    int            `db:"missed_doses" json:"missed_doses"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// CompletionRate is the percentage of logged doses actually taken, 0 when
// nothing has been logged yet.
func (r *Reminder) CompletionRate() float64 {
	if r.TotalDoses == 0 {
		return 0
	}
	return float64(r.TakenDoses) / float64(r.TotalDoses) * 100
}

// ActiveOn reports whether the reminder's date window contains the given day.
func (r *Reminder) ActiveOn(day Date) bool {
	if r.Status != ReminderStatusActive {
		return false
	}
	if r.StartDate.After(day.Time) {
		return false
	}
	if r.EndDate != nil && r.EndDate.Before(day.Time) {
		return false
	}
	return true
}

type CreateReminderRequest struct {
	MedicationName string        `json:"medication_name" binding:"required,min=1,max=100"`
	Dosage         string        `json:"dosage" binding:"required,min=1,max=50"`
	Frequency      FrequencyType `json:"frequency" binding:"required,frequency"`
	ReminderTimes  []string      `json:"reminder_times" binding:"omitempty,dive,timeofday"`
	StartDate      string        `json:"start_date" binding:"required"`
	EndDate        *string       `json:"end_date"`
	Ringtone       string        `json:"ringtone"`
	Notes          *string       `json:"notes" binding:"omitempty,max=500"`
}

type UpdateReminderRequest struct {
	MedicationName *string         `json:"medication_name" binding:"omitempty,min=1,max=100"`
	Dosage         *string         `json:"dosage" binding:"omitempty,min=1,max=50"`
	Frequency      *FrequencyType  `json:"frequency" binding:"omitempty,frequency"`
	ReminderTimes  *[]string       `json:"reminder_times" binding:"omitempty,dive,timeofday"`
	StartDate      *string         `json:"start_date"`
	EndDate        *string         `json:"end_date"`
	Ringtone       *string         `json:"ringtone"`
	Notes          *string         `json:"notes" binding:"omitempty,max=500"`
	Status         *ReminderStatus `json:"status"`
}

// ReminderResponse is the wire representation of a reminder: dates in ISO-8601,
// reminder times as HH:MM:SS, plus the derived completion rate.
type ReminderResponse struct {
	ID             uuid.UUID      `json:"id"`
	UserID         string         `json:"user_id"`
	MedicationName string         `json:"medication_name"`
	Dosage         string         `json:"dosage"`
	Frequency      FrequencyType  `json:"frequency"`
	ReminderTimes  []string       `json:"reminder_times"`
	StartDate      string         `json:"start_date"`
	EndDate        *string        `json:"end_date,omitempty"`
	Ringtone       string         `json:"ringtone"`
	Notes          *string        `json:"notes,omitempty"`
	Status         ReminderStatus `json:"status"`
	NextDoseTime   *string        `json:"next_dose_time,omitempty"`
	TotalDoses     int            `json:"total_doses"`
	TakenDoses     int            `json:"taken_doses"`
	MissedDoses    int            `json:"missed_doses"`
	CompletionRate float64        `json:"completion_rate"`
	CreatedAt      string         `json:"created_at"`
	UpdatedAt      string         `json:"updated_at"`
}

func (r *Reminder) ToResponse() *ReminderResponse {
	resp := &ReminderResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		MedicationName: r.MedicationName,
		Dosage:         r.Dosage,
		Frequency:      r.Frequency,
		ReminderTimes:  r.ReminderTimes.Strings(),
		StartDate:      r.StartDate.String(),
		Ringtone:       r.Ringtone,
		Notes:          r.Notes,
		Status:         r.Status,
		TotalDoses:     r.TotalDoses,
		TakenDoses:     r.TakenDoses,
		MissedDoses:    r.MissedDoses,
		CompletionRate: r.CompletionRate(),
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      r.UpdatedAt.Format(time.RFC3339),
	}
	if r.EndDate != nil {
		s := r.EndDate.String()
		resp.EndDate = &s
	}
	if r.NextDoseTime != nil {
		s := r.NextDoseTime.Format(time.RFC3339)
		resp.NextDoseTime = &s
	}
	return resp
}

type ReminderFilters struct {
	UserID string
	Status ReminderStatus
}
