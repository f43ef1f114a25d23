package model

// TodaySchedule is the projector's view of one owner's day.
type TodaySchedule struct {
	Date         string              `json:"date"`
	Reminders    []*ReminderResponse `json:"reminders"`
	Total        int                 `json:"total"`
	TakenToday   int                 `json:"taken_today"`
	PendingToday int                 `json:"pending_today"`
	MissedToday  int                 `json:"missed_today"`
}

// ReminderStats aggregates adherence over trailing windows. Adherence values
// are percentages in [0, 100], defined as 0 when no logs fall in the window.
type ReminderStats struct {
	TotalReminders   int     `json:"total_reminders"`
	ActiveReminders  int     `json:"active_reminders"`
	CompletedToday   int     `json:"completed_today"`
	PendingToday     int     `json:"pending_today"`
	MissedToday      int     `json:"missed_today"`
	WeeklyAdherence  float64 `json:"weekly_adherence"`
	MonthlyAdherence float64 `json:"monthly_adherence"`
}
