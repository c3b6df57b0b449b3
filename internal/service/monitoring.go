package service

import (
	"context"
	"time"

	"hazard_monitor/internal/gas"
	"hazard_monitor/internal/models"
	"hazard_monitor/internal/node"
	"hazard_monitor/internal/repository"
)

type MonitoringService struct {
	coord         *node.Coordinator
	transmissions repository.TransmissionRepo
	cal           gas.Calibration
	now           func() time.Time
}

func NewMonitoringService(coord *node.Coordinator, transmissions repository.TransmissionRepo, cal gas.Calibration) *MonitoringService {
	return &MonitoringService{coord: coord, transmissions: transmissions, cal: cal, now: time.Now}
}

// GetStatus returns a consistent snapshot of the node plus the last
// transmission outcome, if any.
func (s *MonitoringService) GetStatus(ctx context.Context) (models.NodeStatus, error) {
	snap := s.coord.Snapshot()

	var last *models.TransmissionRecord
	if s.transmissions != nil {
		rec, err := s.transmissions.Load(ctx)
		if err != nil {
			return models.NodeStatus{}, err
		}
		last = rec
	}

	sources := make([]string, 0, len(snap.AlertSources))
	for _, q := range snap.AlertSources {
		sources = append(sources, string(q))
	}

	return models.NodeStatus{
		Mode:         string(snap.Mode),
		Connectivity: string(snap.Connectivity),
		AlertPending: snap.AlertPending,
		AlertSources: sources,
		Reading:      snap.Reading,
		Ro:           s.cal.Ro,
		LastTransmit: last,
		ObservedAt:   s.now().UTC(),
	}, nil
}

// GetReading returns the latest Reading only.
func (s *MonitoringService) GetReading(ctx context.Context) (models.Reading, error) {
	if err := ctx.Err(); err != nil {
		return models.Reading{}, err
	}
	return s.coord.Snapshot().Reading, nil
}
