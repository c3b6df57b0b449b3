package gas

import (
	"context"
	"fmt"
)

// Percentages is one sampling cycle worth of gas readings.
type Percentages struct {
	CO    int
	Smoke int
}

// Estimator turns resistance measurements into gas concentrations against a
// fixed calibration.
type Estimator struct {
	probe *Probe
	cal   Calibration
}

func NewEstimator(probe *Probe, cal Calibration) *Estimator {
	return &Estimator{probe: probe, cal: cal}
}

// Ro returns the clean-air baseline the estimator was built with.
func (e *Estimator) Ro() float64 { return e.cal.Ro }

// Calibration returns the baseline and when it was taken.
func (e *Estimator) Calibration() Calibration { return e.cal }

// GasPercentages measures one rs/Ro ratio and evaluates both curves on it.
func (e *Estimator) GasPercentages(ctx context.Context) (Percentages, error) {
	if e.cal.Ro <= 0 {
		return Percentages{}, fmt.Errorf("%w: ro=%v", ErrInvalidRatio, e.cal.Ro)
	}
	rs, err := e.probe.MeasureResistance(ctx)
	if err != nil {
		return Percentages{}, err
	}
	ratio := rs / e.cal.Ro

	co, err := Concentration(ratio, COCurve)
	if err != nil {
		return Percentages{}, fmt.Errorf("co: %w", err)
	}
	smoke, err := Concentration(ratio, SmokeCurve)
	if err != nil {
		return Percentages{}, fmt.Errorf("smoke: %w", err)
	}
	return Percentages{CO: truncate(co), Smoke: truncate(smoke)}, nil
}
