package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hazard_monitor/internal/models"
)

type TransmissionSQLite struct {
	db *sql.DB
}

func NewTransmissionSQLite(db *sql.DB) *TransmissionSQLite {
	return &TransmissionSQLite{db: db}
}

const (
	lastTransmissionRowID = 1

	upsertTransmissionSQL = `
		INSERT INTO last_transmission (id, url, payload, status_code, error, successful, attempted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			url=excluded.url,
			payload=excluded.payload,
			status_code=excluded.status_code,
			error=excluded.error,
			successful=excluded.successful,
			attempted_at=excluded.attempted_at
	`

	selectTransmissionSQL = `
		SELECT id, url, payload, status_code, error, successful, attempted_at
		FROM last_transmission WHERE id=?
	`
)

// Save overwrites the single last_transmission row.
func (r *TransmissionSQLite) Save(ctx context.Context, rec models.TransmissionRecord) error {
	at := rec.AttemptedAt
	if at.IsZero() {
		at = time.Now().UTC()
	} else {
		at = at.UTC()
	}

	_, err := r.db.ExecContext(ctx, upsertTransmissionSQL,
		lastTransmissionRowID,
		rec.URL,
		rec.Payload,
		rec.StatusCode,
		rec.Error,
		rec.Successful,
		at,
	)
	if err != nil {
		return fmt.Errorf("save last transmission: %w", err)
	}
	return nil
}

// Load returns the last transmission, or nil when nothing was sent yet.
func (r *TransmissionSQLite) Load(ctx context.Context) (*models.TransmissionRecord, error) {
	var rec models.TransmissionRecord
	err := r.db.QueryRowContext(ctx, selectTransmissionSQL, lastTransmissionRowID).Scan(
		&rec.ID,
		&rec.URL,
		&rec.Payload,
		&rec.StatusCode,
		&rec.Error,
		&rec.Successful,
		&rec.AttemptedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load last transmission: %w", err)
	}
	rec.AttemptedAt = rec.AttemptedAt.UTC()
	return &rec, nil
}
