package service

import (
	"context"
	"time"

	"hazard_monitor/internal/gas"
	"hazard_monitor/internal/models"
	"hazard_monitor/internal/node"
	"hazard_monitor/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Monitoring exposes the read-only node state.
type Monitoring interface {
	GetStatus(ctx context.Context) (models.NodeStatus, error)
	GetReading(ctx context.Context) (models.Reading, error)
}

// EventLog exposes the append-only node event log with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.NodeEvent, error)
}

// Runner is a background loop stopped by canceling ctx.
type Runner interface {
	Run(ctx context.Context)
}

// Service aggregates what the local status API needs.
type Service struct {
	Monitoring
	EventLog
	Authorization
}

// Options carries the settings NewService cannot get from repositories.
type Options struct {
	Calibration gas.Calibration
	SigningKey  string
	TokenTTL    time.Duration
}

func NewService(repos *repository.Repository, coord *node.Coordinator, opts Options) *Service {
	return &Service{
		Monitoring:    NewMonitoringService(coord, repos.TransmissionRepo, opts.Calibration),
		EventLog:      NewEventLogService(repos.EventRepo),
		Authorization: NewAuthService(repos.Auth, opts.SigningKey, opts.TokenTTL),
	}
}
