package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/arogya/reminder-api/internal/model"
	"github.com/arogya/reminder-api/pkg/logger"
)

const (
	remindersFile = "reminders.json"
	logsFile      = "medication_logs.json"
	settingsFile  = "notification_settings.json"
)

// Store is a map-backed implementation of the repository interfaces with an
// optional JSON snapshot directory. Each collection is serialized to its own
// file so corruption in one cannot take down the others. Snapshot write
// failures are logged and the in-memory mutation stands; in-memory state is
// authoritative for the process lifetime.
type Store struct {
	mu        sync.RWMutex
	reminders map[uuid.UUID]*model.Reminder
	logs      map[uuid.UUID]*model.MedicationLog
	settings  map[string]*model.NotificationSettings
	outbox    map[uuid.UUID]*model.OutboxEvent

	snapshotDir string
	logger      *logger.Logger
}

// NewStore creates an empty store. If snapshotDir is non-empty, existing
// snapshots are loaded (files that are absent or unreadable are skipped) and
// mutations are persisted back to it.
func NewStore(snapshotDir string, log *logger.Logger) *Store {
	s := &Store{
		reminders:   make(map[uuid.UUID]*model.Reminder),
		logs:        make(map[uuid.UUID]*model.MedicationLog),
		settings:    make(map[string]*model.NotificationSettings),
		outbox:      make(map[uuid.UUID]*model.OutboxEvent),
		snapshotDir: snapshotDir,
		logger:      log,
	}
	if snapshotDir != "" {
		s.loadSnapshots()
	}
	return s
}

func (s *Store) loadSnapshots() {
	loadCollection(s, remindersFile, func(data map[string]*model.Reminder) {
		for _, r := range data {
			s.reminders[r.ID] = r
		}
	})
	loadCollection(s, logsFile, func(data map[string]*model.MedicationLog) {
		for _, l := range data {
			s.logs[l.ID] = l
		}
	})
	loadCollection(s, settingsFile, func(data map[string]*model.NotificationSettings) {
		for _, st := range data {
			s.settings[st.UserID] = st
		}
	})
	s.logger.Info("loaded snapshots",
		"reminders", len(s.reminders), "logs", len(s.logs), "settings", len(s.settings))
}

func loadCollection[T any](s *Store, file string, apply func(map[string]T)) {
	path := filepath.Join(s.snapshotDir, file)
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error(err, "failed to read snapshot", "file", file)
		}
		return
	}
	var data map[string]T
	if err := json.Unmarshal(raw, &data); err != nil {
		s.logger.Error(err, "skipping corrupt snapshot", "file", file)
		return
	}
	apply(data)
}

// saveCollection writes one collection snapshot. Must be called with at least
// a read lock held.
func (s *Store) saveCollection(file string, data interface{}) {
	if s.snapshotDir == "" {
		return
	}
	if err := s.writeSnapshot(file, data); err != nil {
		s.logger.Error(err, "snapshot write failed, in-memory state remains authoritative", "file", file)
	}
}

func (s *Store) writeSnapshot(file string, data interface{}) error {
	if err := os.MkdirAll(s.snapshotDir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	path := filepath.Join(s.snapshotDir, file)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return os.Rename(tmp, path)
}

func (s *Store) saveReminders() {
	data := make(map[string]*model.Reminder, len(s.reminders))
	for id, r := range s.reminders {
		data[id.String()] = r
	}
	s.saveCollection(remindersFile, data)
}

func (s *Store) saveLogs() {
	data := make(map[string]*model.MedicationLog, len(s.logs))
	for id, l := range s.logs {
		data[id.String()] = l
	}
	s.saveCollection(logsFile, data)
}

func (s *Store) saveSettings() {
	data := make(map[string]*model.NotificationSettings, len(s.settings))
	for uid, st := range s.settings {
		data[uid] = st
	}
	s.saveCollection(settingsFile, data)
}
