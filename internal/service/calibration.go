package service

import (
	"context"
	"time"

	"hazard_monitor/internal/gas"
	"hazard_monitor/internal/logger"
	"hazard_monitor/internal/models"
	"hazard_monitor/internal/repository"
)

// Calibrator produces the clean-air baseline.
type Calibrator interface {
	Calibrate(ctx context.Context) (gas.Calibration, error)
}

// Calibrate takes the startup baseline. A faulty calibration falls back to
// gas.DefaultRo so sampling can still start; only cancellation returns an error.
func Calibrate(ctx context.Context, c Calibrator, events repository.EventRepo, log *logger.Logger) (gas.Calibration, error) {
	log = logger.OrNop(log)
	rec := newEventRecorder(events, log)

	log.Infow("calibration_started", "samples", gas.CalibrationSamples, "spacing", gas.CalibrationSpacing)
	cal, err := c.Calibrate(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return gas.Calibration{}, ctx.Err()
		}
		log.Errorw("calibration_failed", "err", err, "fallback_ro", gas.DefaultRo)
		rec.record(ctx, models.EventCalibrationFault, "calibration failed, using default Ro: "+err.Error(), map[string]any{
			"ro": gas.DefaultRo,
		})
		return gas.Calibration{Ro: gas.DefaultRo, At: time.Now().UTC()}, nil
	}

	log.Infow("calibration_done", "ro", cal.Ro, "samples", cal.Samples)
	rec.record(ctx, models.EventCalibrated, "clean-air baseline Ro="+formatValue(cal.Ro), map[string]any{
		"ro":      cal.Ro,
		"samples": cal.Samples,
	})
	return cal, nil
}
