package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/arogya/reminder-api/internal/repository"
)

type reminderRepository struct {
	db *sqlx.DB
}

func NewReminderRepository(db *sqlx.DB) repository.ReminderRepository {
	return &reminderRepository{db: db}
}

type logRepository struct {
	db *sqlx.DB
}

func NewLogRepository(db *sqlx.DB) repository.LogRepository {
	return &logRepository{db: db}
}

type settingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

type outboxRepository struct {
	db *sqlx.DB
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}
