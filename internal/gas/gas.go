// Package gas converts raw analog samples of an MQ-2 style gas sensor into
// calibrated carbon monoxide and smoke concentrations.
//
// The sensor sits in a voltage divider: a lower ADC count means a lower sensor
// resistance, which means more gas. Readings are expressed as the ratio of the
// measured resistance rs to the clean-air baseline Ro established once by
// Calibrate, then mapped onto a log-log calibration curve per gas.
package gas

import (
	"errors"
	"fmt"
	"math"
)

// Sensor constants.
const (
	// LoadFactor scales the divider ratio into kΩ.
	LoadFactor = 5.0
	// CleanAirFactor is rs/Ro of the sensor in clean air.
	CleanAirFactor = 9.83
	// DefaultRo is used when calibration cannot produce a baseline.
	DefaultRo = 10.0
	// DefaultMaxADC is the full scale of a 12-bit converter.
	DefaultMaxADC = 4095
)

var (
	ErrZeroRaw       = errors.New("gas: raw sample is zero, resistance undefined")
	ErrRawOutOfRange = errors.New("gas: raw sample outside converter range")
	ErrInvalidRatio  = errors.New("gas: rs/ro ratio must be positive and finite")
)

// Curve is a log-log fit through two points of a datasheet curve:
// (X0, Y0) is a point in log10 space and Slope its gradient.
type Curve struct {
	X0    float64
	Y0    float64
	Slope float64
}

var (
	COCurve    = Curve{X0: 2.3, Y0: 0.72, Slope: -0.34}
	SmokeCurve = Curve{X0: 2.3, Y0: 0.53, Slope: -0.44}
)

// ResistanceFromRaw maps a raw sample in [1, maxADC) to the sensor resistance.
func ResistanceFromRaw(raw, maxADC int) (float64, error) {
	if raw <= 0 {
		return 0, ErrZeroRaw
	}
	if raw >= maxADC {
		return 0, fmt.Errorf("%w: %d not below %d", ErrRawOutOfRange, raw, maxADC)
	}
	return LoadFactor * float64(maxADC-raw) / float64(raw), nil
}

// Concentration evaluates c at the given rs/Ro ratio:
//
//	10 ^ (((log10(ratio) - Y0) / Slope) + X0)
func Concentration(ratio float64, c Curve) (float64, error) {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRatio, ratio)
	}
	return math.Pow(10, ((math.Log10(ratio)-c.Y0)/c.Slope)+c.X0), nil
}

// truncate converts a concentration to the integer percent-equivalent,
// saturating at the int32 range.
func truncate(v float64) int {
	switch {
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= 0:
		return 0
	default:
		return int(v)
	}
}
