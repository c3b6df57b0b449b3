// Package sim provides a simulated room and radio so a node can run on a
// host without sensors attached.
package sim

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"
)

// ----------- Physics constants -----------
const (
	FireHeatCPerSec      = 0.6  // °C per second while burning
	FireDryPctPerSec     = 0.3  // %RH per second while burning
	FireSmokePerSec      = 0.4  // contamination units per second while burning
	VentilationPerSec    = 0.05 // contamination cleared per second
	MeanReversionPerSec  = 0.02 // fraction of the gap to ambient closed per second
	LoadResistanceKOhm   = 5.0  // divider load, matches gas.LoadFactor
	CleanAirResistance   = 98.3 // kΩ, rs of the sensor in clean air
	defaultMaxADC        = 4095
	defaultAmbientTempC  = 24.0
	defaultAmbientHumPct = 45.0
)

// Config tunes the simulation.
type Config struct {
	AmbientTempC        float64
	AmbientHumidityPct  float64
	TempFluctuation     float64 // peak-to-peak noise per reading, °C
	InvalidReadingRate  float64 // 0..1, probability a probe reports NaN
	IncidentProbability float64 // 0..1, per second
	ExtinguishRate      float64 // 0..1, per second while burning
	MaxADC              int
	Seed                int64
}

// Environment is a single simulated room.
type Environment struct {
	mu  sync.Mutex
	cfg Config
	rng *rand.Rand

	tempC        float64
	humidityPct  float64
	contaminant  float64 // 0 is clean air; rs = clean / (1 + contaminant)
	burning      bool
	lastStepTime time.Time
}

// NewEnvironment starts a room at ambient conditions.
func NewEnvironment(cfg Config) *Environment {
	if cfg.MaxADC <= 0 {
		cfg.MaxADC = defaultMaxADC
	}
	if cfg.AmbientTempC == 0 {
		cfg.AmbientTempC = defaultAmbientTempC
	}
	if cfg.AmbientHumidityPct == 0 {
		cfg.AmbientHumidityPct = defaultAmbientHumPct
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Environment{
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(seed)),
		tempC:       cfg.AmbientTempC,
		humidityPct: cfg.AmbientHumidityPct,
	}
}

// Run advances the physics at the given interval until ctx is canceled.
func (e *Environment) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			e.mu.Lock()
			if e.lastStepTime.IsZero() {
				e.lastStepTime = now
				e.mu.Unlock()
				continue
			}
			elapsed := now.Sub(e.lastStepTime).Seconds()
			e.lastStepTime = now
			e.mu.Unlock()

			e.Step(elapsed)
		}
	}
}

// Step advances the room by elapsed seconds.
func (e *Environment) Step(elapsed float64) {
	if elapsed <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.burning && e.rng.Float64() < e.cfg.IncidentProbability*elapsed {
		e.burning = true
	}
	if e.burning && e.rng.Float64() < e.cfg.ExtinguishRate*elapsed {
		e.burning = false
	}

	if e.burning {
		// fire ignores ambient: heat up, dry out, fill with smoke
		e.tempC += FireHeatCPerSec * elapsed
		e.humidityPct = math.Max(0, e.humidityPct-FireDryPctPerSec*elapsed)
		e.contaminant += FireSmokePerSec * elapsed
		return
	}

	e.tempC += (e.cfg.AmbientTempC - e.tempC) * math.Min(1, MeanReversionPerSec*elapsed)
	e.humidityPct += (e.cfg.AmbientHumidityPct - e.humidityPct) * math.Min(1, MeanReversionPerSec*elapsed)
	e.contaminant = math.Max(0, e.contaminant-VentilationPerSec*elapsed)
}

// Ignite starts an incident immediately.
func (e *Environment) Ignite() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.burning = true
}

// Extinguish ends the current incident; the room then recovers gradually.
func (e *Environment) Extinguish() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.burning = false
}

// Burning reports whether an incident is in progress.
func (e *Environment) Burning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.burning
}

// ReadTemperature implements device.TemperatureProbe.
func (e *Environment) ReadTemperature(ctx context.Context) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.invalidLocked() {
		return math.NaN(), nil
	}
	return round2(e.tempC + e.noiseLocked()), nil
}

// ReadHumidity implements device.HumidityProbe.
func (e *Environment) ReadHumidity(ctx context.Context) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.invalidLocked() {
		return math.NaN(), nil
	}
	return round2(math.Min(100, math.Max(0, e.humidityPct+e.noiseLocked()))), nil
}

// ReadRaw implements device.AnalogSampler for the gas sensor divider.
// Every pin sees the same sensor.
func (e *Environment) ReadRaw(ctx context.Context, pin int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	rs := CleanAirResistance / (1 + e.contaminant)
	raw := int(math.Round(LoadResistanceKOhm * float64(e.cfg.MaxADC) / (rs + LoadResistanceKOhm)))
	if raw < 1 {
		raw = 1
	}
	if raw > e.cfg.MaxADC-1 {
		raw = e.cfg.MaxADC - 1
	}
	return raw, nil
}

func (e *Environment) invalidLocked() bool {
	return e.cfg.InvalidReadingRate > 0 && e.rng.Float64() < e.cfg.InvalidReadingRate
}

func (e *Environment) noiseLocked() float64 {
	return (e.rng.Float64() - 0.5) * e.cfg.TempFluctuation
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
