package model

import "time"

// NotificationSettings is a per-user preference record, created lazily with
// defaults on first access. It does not affect due-time computation.
type NotificationSettings struct {
	UserID                 string     `db:"user_id" json:"user_id"`
	EnableNotifications    bool       `db:"enable_notifications" json:"enable_notifications"`
	SoundEnabled           bool       `db:"sound_enabled" json:"sound_enabled"`
	VibrationEnabled       bool       `db:"vibration_enabled" json:"vibration_enabled"`
	ReminderAdvanceMinutes int        `db:"reminder_advance_minutes" json:"reminder_advance_minutes"`
	QuietHoursStart        *TimeOfDay `db:"quiet_hours_start" json:"quiet_hours_start,omitempty"`
	QuietHoursEnd          *TimeOfDay `db:"quiet_hours_end" json:"quiet_hours_end,omitempty"`
	UpdatedAt              time.Time  `db:"updated_at" json:"updated_at"`
}

func DefaultNotificationSettings(userID string) *NotificationSettings {
	return &NotificationSettings{
		UserID:                 userID,
		EnableNotifications:    true,
		SoundEnabled:           true,
		VibrationEnabled:       true,
		ReminderAdvanceMinutes: 5,
		UpdatedAt:              time.Now(),
	}
}

type UpdateNotificationSettingsRequest struct {
	EnableNotifications    *bool   `json:"enable_notifications"`
	SoundEnabled           *bool   `json:"sound_enabled"`
	VibrationEnabled       *bool   `json:"vibration_enabled"`
	ReminderAdvanceMinutes *int    `json:"reminder_advance_minutes" binding:"omitempty,min=0,max=120"`
	QuietHoursStart        *string `json:"quiet_hours_start"`
	QuietHoursEnd          *string `json:"quiet_hours_end"`
}
