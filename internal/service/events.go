package service

import (
	"context"
	"time"

	"hazard_monitor/internal/logger"
	"hazard_monitor/internal/models"
	"hazard_monitor/internal/repository"

	"github.com/google/uuid"
)

// eventRecorder appends to the event log. A failed append is logged and
// never interrupts the caller.
type eventRecorder struct {
	repo repository.EventRepo
	log  *logger.Logger
	now  func() time.Time
}

func newEventRecorder(repo repository.EventRepo, log *logger.Logger) eventRecorder {
	return eventRecorder{repo: repo, log: logger.OrNop(log), now: time.Now}
}

func (r eventRecorder) record(ctx context.Context, typ, description string, meta map[string]any) {
	if r.repo == nil {
		return
	}
	// shutdown must not lose the last events of an in-flight cycle
	ctx = context.WithoutCancel(ctx)
	err := r.repo.Append(ctx, models.NodeEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  r.now().UTC(),
		Type:        typ,
		Description: description,
		Metadata:    meta,
	})
	if err != nil {
		r.log.Errorw("event_append_failed", "type", typ, "err", err)
	}
}
