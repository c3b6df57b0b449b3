package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"hazard_monitor/internal/models"
	"hazard_monitor/internal/repository"
)

const maxLogLimit = 1000

// LogFilter selects event log entries.
type LogFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Type  string    // "" or one of the models.Event* types
	Limit int       // newest N entries; 0 means maxLogLimit
}

var (
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	ErrUnknownEventType = errors.New("unknown event type")
)

var knownEventTypes = map[string]struct{}{
	models.EventCalibrated:       {},
	models.EventCalibrationFault: {},
	models.EventAlert:            {},
	models.EventSensorFault:      {},
	models.EventConnected:        {},
	models.EventConnectFailed:    {},
	models.EventTelemetrySent:    {},
	models.EventTelemetryFailed:  {},
}

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

func normalizeAndValidateFilter(f LogFilter) (LogFilter, error) {
	f.From = normalizeToUTC(f.From)
	f.To = normalizeToUTC(f.To)
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return LogFilter{}, ErrInvalidTimeRange
	}

	f.Type = normalizeEventType(f.Type)
	if f.Type != "" {
		if _, ok := knownEventTypes[f.Type]; !ok {
			return LogFilter{}, ErrUnknownEventType
		}
	}

	if f.Limit <= 0 || f.Limit > maxLogLimit {
		f.Limit = maxLogLimit
	}
	return f, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.NodeEvent, error) {
	f, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, f.From, f.To, f.Type, f.Limit)
}

// IsFilterError reports whether err came from an invalid LogFilter.
func IsFilterError(err error) bool {
	return errors.Is(err, ErrInvalidTimeRange) || errors.Is(err, ErrUnknownEventType)
}
