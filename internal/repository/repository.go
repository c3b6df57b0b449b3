package repository

import (
	"context"
	"database/sql"
	"time"

	"hazard_monitor/internal/models"
)

// Authorization stores local status API operators.
type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.Operator, error)
}

// EventRepo is the append-only node event log.
type EventRepo interface {
	Append(ctx context.Context, e models.NodeEvent) error
	List(ctx context.Context, from, to time.Time, typ string, limit int) ([]models.NodeEvent, error)
}

// TransmissionRepo keeps the outcome of the most recent telemetry POST.
type TransmissionRepo interface {
	Save(ctx context.Context, r models.TransmissionRecord) error
	Load(ctx context.Context) (*models.TransmissionRecord, error)
}

type Repository struct {
	EventRepo        EventRepo
	TransmissionRepo TransmissionRepo
	Auth             Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		EventRepo:        NewEventSQLite(db),
		TransmissionRepo: NewTransmissionSQLite(db),
		Auth:             NewOperatorRepository(db),
	}
}
