package model

import (
	"time"

	"github.com/google/uuid"
)

type LogStatus string

const (
	LogStatusTaken   LogStatus = "taken"
	LogStatusSkipped LogStatus = "skipped"
	LogStatusMissed  LogStatus = "missed"
)

func (s LogStatus) Valid() bool {
	switch s {
	case LogStatusTaken, LogStatusSkipped, LogStatusMissed:
		return true
	}
	return false
}

// MedicationLog is an immutable record of a single dose event. ScheduledTime
// is the due instant the event corresponds to; TakenTime is set only when the
// status is taken.
type MedicationLog struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	ReminderID    uuid.UUID  `db:"reminder_id" json:"reminder_id"`
	UserID        string     `db:"user_id" json:"user_id"`
	ScheduledTime time.Time  `db:"scheduled_time" json:"scheduled_time"`
	TakenTime     *time.Time `db:"taken_time" json:"taken_time,omitempty"`
	Status        LogStatus  `db:"status" json:"status"`
	Notes         *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

type LogDoseRequest struct {
	Status LogStatus `json:"status" binding:"required,logstatus"`
	Notes  *string   `json:"notes" binding:"omitempty,max=500"`
}

type LogFilters struct {
	UserID     string
	ReminderID uuid.UUID
	StartDate  Date
	EndDate    Date
	Limit      int
}
