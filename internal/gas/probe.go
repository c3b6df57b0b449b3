package gas

import (
	"context"
	"fmt"
	"time"
)

// Sampling plans.
const (
	MeasureSamples     = 5
	MeasureSpacing     = 50 * time.Millisecond
	CalibrationSamples = 50
	CalibrationSpacing = 500 * time.Millisecond
)

// AnalogSampler reads one raw conversion from an analog pin.
type AnalogSampler interface {
	ReadRaw(ctx context.Context, pin int) (int, error)
}

// Calibration is the clean-air baseline. It is computed once and never mutated.
type Calibration struct {
	Ro      float64
	Samples int
	At      time.Time
}

// Probe measures sensor resistance on a single analog pin.
type Probe struct {
	sampler AnalogSampler
	pin     int
	maxADC  int
	sleep   func(ctx context.Context, d time.Duration) error
	now     func() time.Time
}

// NewProbe binds a sampler to a pin. maxADC <= 0 selects DefaultMaxADC.
func NewProbe(sampler AnalogSampler, pin, maxADC int) *Probe {
	if maxADC <= 0 {
		maxADC = DefaultMaxADC
	}
	return &Probe{
		sampler: sampler,
		pin:     pin,
		maxADC:  maxADC,
		sleep:   sleepCtx,
		now:     time.Now,
	}
}

// MeasureResistance averages MeasureSamples resistances taken MeasureSpacing apart.
func (p *Probe) MeasureResistance(ctx context.Context) (float64, error) {
	return p.average(ctx, MeasureSamples, MeasureSpacing)
}

// Calibrate averages CalibrationSamples resistances taken CalibrationSpacing
// apart (about 25s) and derives Ro. It must run in clean air before any
// concentration is estimated.
func (p *Probe) Calibrate(ctx context.Context) (Calibration, error) {
	rs, err := p.average(ctx, CalibrationSamples, CalibrationSpacing)
	if err != nil {
		return Calibration{}, fmt.Errorf("calibrate pin %d: %w", p.pin, err)
	}
	return Calibration{
		Ro:      rs / CleanAirFactor,
		Samples: CalibrationSamples,
		At:      p.now().UTC(),
	}, nil
}

// average keeps a running mean so a constant input yields exactly that input.
func (p *Probe) average(ctx context.Context, n int, spacing time.Duration) (float64, error) {
	var mean float64
	for i := 0; i < n; i++ {
		raw, err := p.sampler.ReadRaw(ctx, p.pin)
		if err != nil {
			return 0, fmt.Errorf("read pin %d: %w", p.pin, err)
		}
		rs, err := ResistanceFromRaw(raw, p.maxADC)
		if err != nil {
			return 0, err
		}
		mean += (rs - mean) / float64(i+1)

		if err := p.sleep(ctx, spacing); err != nil {
			return 0, err
		}
	}
	return mean, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
