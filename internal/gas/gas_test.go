package gas

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

// ---- Test doubles ----

// constSampler always returns the same raw value and counts calls.
type constSampler struct {
	raw   int
	err   error
	calls int
}

func (s *constSampler) ReadRaw(ctx context.Context, pin int) (int, error) {
	s.calls++
	return s.raw, s.err
}

// seqSampler replays a fixed sequence.
type seqSampler struct {
	seq []int
	i   int
}

func (s *seqSampler) ReadRaw(ctx context.Context, pin int) (int, error) {
	v := s.seq[s.i%len(s.seq)]
	s.i++
	return v, nil
}

// newTestProbe returns a probe that records sleeps instead of blocking.
func newTestProbe(s AnalogSampler, slept *[]time.Duration) *Probe {
	p := NewProbe(s, 14, DefaultMaxADC)
	p.sleep = func(ctx context.Context, d time.Duration) error {
		if slept != nil {
			*slept = append(*slept, d)
		}
		return ctx.Err()
	}
	return p
}

// ---- Tests ----

func TestResistanceFromRaw_PositiveAndDecreasing(t *testing.T) {
	prev := math.Inf(1)
	for raw := 1; raw < DefaultMaxADC; raw++ {
		rs, err := ResistanceFromRaw(raw, DefaultMaxADC)
		if err != nil {
			t.Fatalf("raw=%d: unexpected error %v", raw, err)
		}
		if rs <= 0 {
			t.Fatalf("raw=%d: resistance %v not positive", raw, rs)
		}
		if rs >= prev {
			t.Fatalf("raw=%d: resistance %v not below previous %v", raw, rs, prev)
		}
		prev = rs
	}
}

func TestResistanceFromRaw_Faults(t *testing.T) {
	cases := []struct {
		name string
		raw  int
		want error
	}{
		{"zero", 0, ErrZeroRaw},
		{"negative", -3, ErrZeroRaw},
		{"full scale", DefaultMaxADC, ErrRawOutOfRange},
		{"above full scale", DefaultMaxADC + 10, ErrRawOutOfRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ResistanceFromRaw(tc.raw, DefaultMaxADC); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestResistanceFromRaw_KnownValue(t *testing.T) {
	rs, err := ResistanceFromRaw(2048, 4095)
	if err != nil {
		t.Fatal(err)
	}
	want := 5.0 * 2047.0 / 2048.0
	if rs != want {
		t.Fatalf("got %v, want %v", rs, want)
	}
}

func TestConcentration_MonotonicInRatio(t *testing.T) {
	// Both datasheet curves have negative slopes: a higher rs/Ro means cleaner
	// air and therefore a lower concentration. A positive slope flips the order.
	rising := Curve{X0: 2.3, Y0: 0.5, Slope: 0.4}
	cases := []struct {
		name       string
		curve      Curve
		increasing bool
	}{
		{"co", COCurve, false},
		{"smoke", SmokeCurve, false},
		{"positive slope", rising, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prev, err := Concentration(0.05, tc.curve)
			if err != nil {
				t.Fatal(err)
			}
			for ratio := 0.1; ratio < 20; ratio += 0.05 {
				got, err := Concentration(ratio, tc.curve)
				if err != nil {
					t.Fatalf("ratio=%v: %v", ratio, err)
				}
				if tc.increasing && got <= prev {
					t.Fatalf("ratio=%v: %v not above %v", ratio, got, prev)
				}
				if !tc.increasing && got >= prev {
					t.Fatalf("ratio=%v: %v not below %v", ratio, got, prev)
				}
				prev = got
			}
		})
	}
}

func TestConcentration_Formula(t *testing.T) {
	// At ratio = 10^Y0 the curve evaluates to 10^X0.
	got, err := Concentration(math.Pow(10, COCurve.Y0), COCurve)
	if err != nil {
		t.Fatal(err)
	}
	if want := math.Pow(10, COCurve.X0); math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestConcentration_RejectsInvalidRatio(t *testing.T) {
	for _, ratio := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := Concentration(ratio, SmokeCurve); !errors.Is(err, ErrInvalidRatio) {
			t.Fatalf("ratio=%v: got %v, want ErrInvalidRatio", ratio, err)
		}
	}
}

func TestCalibrate_ConstantSamplesConvergeExactly(t *testing.T) {
	for _, raw := range []int{1, 7, 333, 1500, 2048, 4000, 4094} {
		s := &constSampler{raw: raw}
		var slept []time.Duration
		p := newTestProbe(s, &slept)

		cal, err := p.Calibrate(context.Background())
		if err != nil {
			t.Fatalf("raw=%d: %v", raw, err)
		}
		rs, _ := ResistanceFromRaw(raw, DefaultMaxADC)
		if want := rs / CleanAirFactor; cal.Ro != want {
			t.Fatalf("raw=%d: Ro=%v, want exactly %v", raw, cal.Ro, want)
		}
		if s.calls != CalibrationSamples || cal.Samples != CalibrationSamples {
			t.Fatalf("raw=%d: %d reads, %d recorded samples", raw, s.calls, cal.Samples)
		}
		if len(slept) != CalibrationSamples || slept[0] != CalibrationSpacing {
			t.Fatalf("raw=%d: unexpected sleeps %v", raw, slept)
		}
		if cal.At.IsZero() {
			t.Fatalf("calibration time not set")
		}
	}
}

func TestMeasureResistance_AveragesFiveSamples(t *testing.T) {
	s := &seqSampler{seq: []int{1000, 2000, 3000, 2000, 1000}}
	var slept []time.Duration
	p := newTestProbe(s, &slept)

	got, err := p.MeasureResistance(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, raw := range s.seq {
		rs, _ := ResistanceFromRaw(raw, DefaultMaxADC)
		sum += rs
	}
	if want := sum / 5; math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %v, want %v", got, want)
	}
	if len(slept) != MeasureSamples || slept[0] != MeasureSpacing {
		t.Fatalf("unexpected sleeps %v", slept)
	}
}

func TestCalibrate_ZeroRawIsComputationFault(t *testing.T) {
	p := newTestProbe(&seqSampler{seq: []int{1000, 0}}, nil)
	if _, err := p.Calibrate(context.Background()); !errors.Is(err, ErrZeroRaw) {
		t.Fatalf("got %v, want ErrZeroRaw", err)
	}
}

func TestCalibrate_SamplerErrorPropagates(t *testing.T) {
	boom := errors.New("i2c nack")
	p := newTestProbe(&constSampler{err: boom}, nil)
	if _, err := p.Calibrate(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("got %v, want %v", err, boom)
	}
}

func TestCalibrate_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &constSampler{raw: 1000}
	p := NewProbe(s, 14, 0)
	p.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return sleepCtx(ctx, d)
	}
	if _, err := p.Calibrate(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if s.calls != 1 {
		t.Fatalf("expected calibration to stop after first sample, got %d reads", s.calls)
	}
}

func TestGasPercentages_SharedRatio(t *testing.T) {
	const raw = 1200
	p := newTestProbe(&constSampler{raw: raw}, nil)
	rs, _ := ResistanceFromRaw(raw, DefaultMaxADC)
	cal := Calibration{Ro: rs / 2} // ratio 2
	e := NewEstimator(p, cal)

	got, err := e.GasPercentages(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	co, _ := Concentration(2, COCurve)
	smoke, _ := Concentration(2, SmokeCurve)
	if got.CO != int(co) || got.Smoke != int(smoke) {
		t.Fatalf("got %+v, want co=%d smoke=%d", got, int(co), int(smoke))
	}
	if e.Ro() != cal.Ro {
		t.Fatalf("Ro changed: %v", e.Ro())
	}
}

func TestGasPercentages_Faults(t *testing.T) {
	t.Run("zero raw", func(t *testing.T) {
		e := NewEstimator(newTestProbe(&constSampler{raw: 0}, nil), Calibration{Ro: 10})
		if _, err := e.GasPercentages(context.Background()); !errors.Is(err, ErrZeroRaw) {
			t.Fatalf("got %v, want ErrZeroRaw", err)
		}
	})
	t.Run("non-positive ro", func(t *testing.T) {
		e := NewEstimator(newTestProbe(&constSampler{raw: 100}, nil), Calibration{})
		if _, err := e.GasPercentages(context.Background()); !errors.Is(err, ErrInvalidRatio) {
			t.Fatalf("got %v, want ErrInvalidRatio", err)
		}
	})
}

func TestTruncate_Saturates(t *testing.T) {
	cases := map[float64]int{
		-4:      0,
		0.99:    0,
		30.7:    30,
		1e12:    math.MaxInt32,
		1000.01: 1000,
	}
	for in, want := range cases {
		if got := truncate(in); got != want {
			t.Fatalf("truncate(%v)=%d, want %d", in, got, want)
		}
	}
}
