package sim

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"hazard_monitor/internal/gas"
)

func TestEnvironment_StartsAtAmbient(t *testing.T) {
	env := NewEnvironment(Config{AmbientTempC: 22, AmbientHumidityPct: 50, Seed: 1})
	ctx := context.Background()

	temp, _ := env.ReadTemperature(ctx)
	hum, _ := env.ReadHumidity(ctx)
	if temp != 22 || hum != 50 {
		t.Fatalf("got temp=%v hum=%v", temp, hum)
	}
}

func TestEnvironment_FireHeatsDriesAndSmokes(t *testing.T) {
	env := NewEnvironment(Config{AmbientTempC: 22, AmbientHumidityPct: 50, Seed: 1})
	ctx := context.Background()
	rawBefore, _ := env.ReadRaw(ctx, 14)

	env.Ignite()
	for i := 0; i < 90; i++ {
		env.Step(1)
	}

	temp, _ := env.ReadTemperature(ctx)
	hum, _ := env.ReadHumidity(ctx)
	rawAfter, _ := env.ReadRaw(ctx, 14)
	if temp <= 40 {
		t.Fatalf("expected temperature above 40 after 90s of fire, got %v", temp)
	}
	if hum >= 30 {
		t.Fatalf("expected humidity below 30, got %v", hum)
	}
	if rawAfter <= rawBefore {
		t.Fatalf("smoke should lower sensor resistance: raw %d -> %d", rawBefore, rawAfter)
	}
}

func TestEnvironment_RecoversAfterExtinguish(t *testing.T) {
	env := NewEnvironment(Config{AmbientTempC: 22, AmbientHumidityPct: 50, Seed: 1})
	env.Ignite()
	for i := 0; i < 30; i++ {
		env.Step(1)
	}
	env.Extinguish()
	for i := 0; i < 600; i++ {
		env.Step(1)
	}

	temp, _ := env.ReadTemperature(context.Background())
	if math.Abs(temp-22) > 0.5 {
		t.Fatalf("expected temperature near ambient, got %v", temp)
	}
	if env.contaminant != 0 {
		t.Fatalf("expected clean air, contaminant=%v", env.contaminant)
	}
}

func TestEnvironment_InvalidReadings(t *testing.T) {
	env := NewEnvironment(Config{InvalidReadingRate: 1, Seed: 1})
	temp, err := env.ReadTemperature(context.Background())
	if err != nil || !math.IsNaN(temp) {
		t.Fatalf("expected NaN, got %v, %v", temp, err)
	}
	hum, err := env.ReadHumidity(context.Background())
	if err != nil || !math.IsNaN(hum) {
		t.Fatalf("expected NaN, got %v, %v", hum, err)
	}
}

func TestEnvironment_CleanAirCalibratesToCleanAirResistance(t *testing.T) {
	env := NewEnvironment(Config{Seed: 1})
	raw, err := env.ReadRaw(context.Background(), 14)
	if err != nil {
		t.Fatal(err)
	}
	rs, err := gas.ResistanceFromRaw(raw, defaultMaxADC)
	if err != nil {
		t.Fatal(err)
	}
	// quantization of a 12-bit converter keeps us within half a percent
	if math.Abs(rs-CleanAirResistance)/CleanAirResistance > 0.005 {
		t.Fatalf("rs=%v, want about %v", rs, CleanAirResistance)
	}
}

func TestEnvironment_ReadRawFollowsDividerEquation(t *testing.T) {
	env := NewEnvironment(Config{Seed: 1})
	for _, contaminant := range []float64{0.5, 3, 20} {
		env.mu.Lock()
		env.contaminant = contaminant
		env.mu.Unlock()

		raw, err := env.ReadRaw(context.Background(), 0)
		if err != nil {
			t.Fatal(err)
		}
		rs, err := gas.ResistanceFromRaw(raw, defaultMaxADC)
		if err != nil {
			t.Fatal(err)
		}
		want := CleanAirResistance / (1 + contaminant)
		if math.Abs(rs-want)/want > 0.01 {
			t.Fatalf("contaminant %v: rs=%v, want about %v", contaminant, rs, want)
		}
	}
}

func TestRadio_AssociatesAfterDelay(t *testing.T) {
	r := NewRadio(RadioConfig{AssociateDelay: 20 * time.Millisecond, PollInterval: 5 * time.Millisecond, Seed: 1})
	if r.Associated() {
		t.Fatalf("radio starts down")
	}
	if err := r.Associate(context.Background()); err != nil {
		t.Fatalf("Associate() error = %v", err)
	}
	if !r.Associated() || r.Attempts() != 1 {
		t.Fatalf("associated=%v attempts=%d", r.Associated(), r.Attempts())
	}
	_ = r.Disassociate()
	if r.Associated() {
		t.Fatalf("still associated after Disassociate")
	}
}

func TestRadio_StuckAttemptHonoursDeadline(t *testing.T) {
	r := NewRadio(RadioConfig{FailureRate: 1, PollInterval: 5 * time.Millisecond, Seed: 1})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := r.Associate(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v, want deadline exceeded", err)
	}
	if r.Associated() {
		t.Fatalf("stuck radio must not report association")
	}
}

func TestRadio_Drop(t *testing.T) {
	r := NewRadio(RadioConfig{PollInterval: time.Millisecond, Seed: 1})
	_ = r.Associate(context.Background())
	r.Drop()
	if r.Associated() {
		t.Fatalf("drop not applied")
	}
}
