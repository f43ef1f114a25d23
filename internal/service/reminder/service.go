package reminder

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/arogya/reminder-api/internal/model"
	"github.com/arogya/reminder-api/internal/repository"
	apperrors "github.com/arogya/reminder-api/pkg/errors"
	"github.com/arogya/reminder-api/pkg/logger"
	"github.com/arogya/reminder-api/pkg/metrics"
)

// Field length constraints for reminder input.
const (
	MaxMedicationNameLen = 100
	MaxDosageLen         = 50
	MaxNotesLen          = 500
)

// Service is the reminder registry: it owns reminder lifecycle, dose logging
// and notification settings. Every mutating operation is serialized per
// reminder id and refreshes the cached next dose time.
type Service struct {
	reminders repository.ReminderRepository
	logs      repository.LogRepository
	settings  repository.SettingsRepository
	outbox    repository.OutboxRepository
	locks     *keyedLocks
	logger    *logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewService(
	reminders repository.ReminderRepository,
	logs repository.LogRepository,
	settings repository.SettingsRepository,
	outbox repository.OutboxRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		reminders: reminders,
		logs:      logs,
		settings:  settings,
		outbox:    outbox,
		locks:     newKeyedLocks(),
		logger:    log,
		now:       time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithMetrics attaches the metric bundle. Without it the service records
// nothing.
func (s *Service) WithMetrics(m *metrics.Metrics) *Service {
	s.metrics = m
	return s
}

func (s *Service) CreateReminder(ctx context.Context, userID string, req *model.CreateReminderRequest) (*model.Reminder, error) {
	if err := validateName(req.MedicationName); err != nil {
		return nil, err
	}
	if err := validateDosage(req.Dosage); err != nil {
		return nil, err
	}
	if err := validateNotes(req.Notes); err != nil {
		return nil, err
	}
	if !req.Frequency.Valid() {
		return nil, apperrors.Validationf("invalid frequency %q", req.Frequency)
	}

	times, err := parseReminderTimes(req.ReminderTimes)
	if err != nil {
		return nil, err
	}

	startDate, err := model.ParseDate(req.StartDate)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	var endDate *model.Date
	if req.EndDate != nil {
		parsed, err := model.ParseDate(*req.EndDate)
		if err != nil {
			return nil, apperrors.Validation(err.Error())
		}
		if parsed.Before(startDate.Time) {
			return nil, apperrors.Validation("end_date must not be before start_date")
		}
		endDate = &parsed
	}

	ringtone := req.Ringtone
	if ringtone == "" {
		ringtone = "default"
	}

	now := s.now()
	reminder := &model.Reminder{
		ID:             uuid.New(),
		UserID:         userID,
		MedicationName: req.MedicationName,
		Dosage:         req.Dosage,
		Frequency:      req.Frequency,
		ReminderTimes:  times,
		StartDate:      startDate,
		EndDate:        endDate,
		Ringtone:       ringtone,
		Notes:          req.Notes,
		Status:         model.ReminderStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	reminder.NextDoseTime = NextDue(reminder, now)

	if err := s.reminders.Create(ctx, reminder); err != nil {
		return nil, err
	}

	s.emit(ctx, model.EventReminderCreated, reminder)
	s.logger.Info("reminder created", "reminder_id", reminder.ID.String(), "user_id", userID)
	return reminder, nil
}

func (s *Service) GetReminder(ctx context.Context, userID string, id uuid.UUID) (*model.Reminder, error) {
	reminder, err := s.reminders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// Cross-owner access is indistinguishable from a miss.
	if reminder.UserID != userID {
		return nil, apperrors.NotFound("reminder")
	}
	return reminder, nil
}

func (s *Service) ListReminders(ctx context.Context, userID string, status model.ReminderStatus) ([]*model.Reminder, error) {
	if status != "" && !status.Valid() {
		return nil, apperrors.Validationf("invalid status %q", status)
	}
	return s.reminders.List(ctx, &model.ReminderFilters{UserID: userID, Status: status})
}

func (s *Service) UpdateReminder(ctx context.Context, userID string, id uuid.UUID, req *model.UpdateReminderRequest) (*model.Reminder, error) {
	s.locks.lock(id)
	defer s.locks.unlock(id)

	reminder, err := s.GetReminder(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	recompute, err := s.applyPatch(reminder, req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	reminder.UpdatedAt = now
	if recompute {
		reminder.NextDoseTime = NextDue(reminder, now)
	}

	if err := s.reminders.Update(ctx, reminder); err != nil {
		return nil, err
	}

	s.emit(ctx, model.EventReminderUpdated, reminder)
	return reminder, nil
}

// applyPatch applies only the supplied fields and reports whether a field
// affecting recurrence was touched.
func (s *Service) applyPatch(reminder *model.Reminder, req *model.UpdateReminderRequest) (bool, error) {
	recompute := false

	if req.MedicationName != nil {
		if err := validateName(*req.MedicationName); err != nil {
			return false, err
		}
		reminder.MedicationName = *req.MedicationName
	}
	if req.Dosage != nil {
		if err := validateDosage(*req.Dosage); err != nil {
			return false, err
		}
		reminder.Dosage = *req.Dosage
	}
	if req.Frequency != nil {
		if !req.Frequency.Valid() {
			return false, apperrors.Validationf("invalid frequency %q", *req.Frequency)
		}
		reminder.Frequency = *req.Frequency
		recompute = true
	}
	if req.ReminderTimes != nil {
		times, err := parseReminderTimes(*req.ReminderTimes)
		if err != nil {
			return false, err
		}
		reminder.ReminderTimes = times
		recompute = true
	}
	if req.StartDate != nil {
		startDate, err := model.ParseDate(*req.StartDate)
		if err != nil {
			return false, apperrors.Validation(err.Error())
		}
		reminder.StartDate = startDate
		recompute = true
	}
	if req.EndDate != nil {
		endDate, err := model.ParseDate(*req.EndDate)
		if err != nil {
			return false, apperrors.Validation(err.Error())
		}
		reminder.EndDate = &endDate
		recompute = true
	}
	if reminder.EndDate != nil && reminder.EndDate.Before(reminder.StartDate.Time) {
		return false, apperrors.Validation("end_date must not be before start_date")
	}
	if req.Ringtone != nil {
		reminder.Ringtone = *req.Ringtone
	}
	if req.Notes != nil {
		if err := validateNotes(req.Notes); err != nil {
			return false, err
		}
		reminder.Notes = req.Notes
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return false, apperrors.Validationf("invalid status %q", *req.Status)
		}
		reminder.Status = *req.Status
		recompute = true
	}

	return recompute, nil
}

// DeleteReminder removes the reminder and cascades deletion of its logs.
func (s *Service) DeleteReminder(ctx context.Context, userID string, id uuid.UUID) error {
	s.locks.lock(id)
	defer s.locks.unlock(id)

	reminder, err := s.GetReminder(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.logs.DeleteByReminder(ctx, id); err != nil {
		return err
	}
	if err := s.reminders.Delete(ctx, id); err != nil {
		return err
	}

	s.emit(ctx, model.EventReminderDeleted, reminder)
	s.logger.Info("reminder deleted", "reminder_id", id.String(), "user_id", userID)
	return nil
}

// LogDose appends an immutable dose event, bumps the reminder's counters
// (skipped counts toward missed) and refreshes the next due time.
func (s *Service) LogDose(ctx context.Context, userID string, reminderID uuid.UUID, req *model.LogDoseRequest) (*model.MedicationLog, error) {
	if !req.Status.Valid() {
		return nil, apperrors.Validationf("invalid status %q: must be taken, skipped or missed", req.Status)
	}
	if err := validateNotes(req.Notes); err != nil {
		return nil, err
	}

	s.locks.lock(reminderID)
	defer s.locks.unlock(reminderID)

	reminder, err := s.GetReminder(ctx, userID, reminderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	scheduled := now
	if reminder.NextDoseTime != nil {
		scheduled = *reminder.NextDoseTime
	}

	log := &model.MedicationLog{
		ID:            uuid.New(),
		ReminderID:    reminderID,
		UserID:        userID,
		ScheduledTime: scheduled,
		Status:        req.Status,
		Notes:         req.Notes,
		CreatedAt:     now,
	}
	if req.Status == model.LogStatusTaken {
		taken := now
		log.TakenTime = &taken
	}

	if err := s.logs.Create(ctx, log); err != nil {
		return nil, err
	}

	reminder.TotalDoses++
	if req.Status == model.LogStatusTaken {
		reminder.TakenDoses++
	} else {
		reminder.MissedDoses++
	}
	reminder.NextDoseTime = NextDue(reminder, now)
	reminder.UpdatedAt = now

	if err := s.reminders.Update(ctx, reminder); err != nil {
		return nil, err
	}

	s.emit(ctx, model.EventReminderDoseLogged, log)
	if s.metrics != nil {
		s.metrics.DosesLogged.WithLabelValues(string(req.Status)).Inc()
	}
	return log, nil
}

func (s *Service) ListLogs(ctx context.Context, filters *model.LogFilters) ([]*model.MedicationLog, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 100
	}
	return s.logs.List(ctx, filters)
}

// GetNotificationSettings returns the user's settings, falling back to
// defaults without persisting them.
func (s *Service) GetNotificationSettings(ctx context.Context, userID string) (*model.NotificationSettings, error) {
	settings, err := s.settings.Get(ctx, userID)
	if apperrors.IsNotFound(err) {
		return model.DefaultNotificationSettings(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Service) UpdateNotificationSettings(ctx context.Context, userID string, req *model.UpdateNotificationSettingsRequest) (*model.NotificationSettings, error) {
	settings, err := s.GetNotificationSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.EnableNotifications != nil {
		settings.EnableNotifications = *req.EnableNotifications
	}
	if req.SoundEnabled != nil {
		settings.SoundEnabled = *req.SoundEnabled
	}
	if req.VibrationEnabled != nil {
		settings.VibrationEnabled = *req.VibrationEnabled
	}
	if req.ReminderAdvanceMinutes != nil {
		settings.ReminderAdvanceMinutes = *req.ReminderAdvanceMinutes
	}
	if req.QuietHoursStart != nil {
		tod, err := model.ParseTimeOfDay(*req.QuietHoursStart)
		if err != nil {
			return nil, apperrors.Validation(err.Error())
		}
		settings.QuietHoursStart = &tod
	}
	if req.QuietHoursEnd != nil {
		tod, err := model.ParseTimeOfDay(*req.QuietHoursEnd)
		if err != nil {
			return nil, apperrors.Validation(err.Error())
		}
		settings.QuietHoursEnd = &tod
	}
	settings.UpdatedAt = s.now()

	if err := s.settings.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// emit records an outbox event. Event emission is best-effort: a failure is
// logged and the mutation stands.
func (s *Service) emit(ctx context.Context, eventType string, payload interface{}) {
	if s.outbox == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error(err, "failed to marshal event payload", "event_type", eventType)
		return
	}
	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   raw,
		Status:    model.OutboxStatusPending,
		CreatedAt: s.now(),
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to record outbox event", "event_type", eventType)
	}
}

func validateName(name string) error {
	if name == "" || len(name) > MaxMedicationNameLen {
		return apperrors.Validationf("medication_name must be 1-%d characters", MaxMedicationNameLen)
	}
	return nil
}

func validateDosage(dosage string) error {
	if dosage == "" || len(dosage) > MaxDosageLen {
		return apperrors.Validationf("dosage must be 1-%d characters", MaxDosageLen)
	}
	return nil
}

func validateNotes(notes *string) error {
	if notes != nil && len(*notes) > MaxNotesLen {
		return apperrors.Validationf("notes must not exceed %d characters", MaxNotesLen)
	}
	return nil
}

func parseReminderTimes(raw []string) (model.TimeOfDayList, error) {
	times := make(model.TimeOfDayList, 0, len(raw))
	for _, s := range raw {
		tod, err := model.ParseTimeOfDay(s)
		if err != nil {
			return nil, apperrors.Validation(err.Error())
		}
		times = append(times, tod)
	}
	return times, nil
}
