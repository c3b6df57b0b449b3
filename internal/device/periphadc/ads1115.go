// Package periphadc reads the gas sensor divider through an ADS1115
// converter on a Linux I2C bus.
package periphadc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"
)

const (
	defaultSupplyVolts = 5.0
	defaultMaxADC      = 4095
	sampleFrequency    = 10 * physic.Hertz
)

var errUnknownChannel = errors.New("ads1115 has single-ended channels 0-3")

// Config selects the bus and the scale raw counts are reported on.
type Config struct {
	Bus         string  // "" picks the first bus
	Address     uint16  // 0 picks 0x48
	SupplyVolts float64 // divider supply; a full-scale reading equals MaxADC
	MaxADC      int
}

// Sampler implements device.AnalogSampler. Pins are ADS1115 channel numbers.
type Sampler struct {
	mu   sync.Mutex
	cfg  Config
	bus  i2c.BusCloser
	dev  *ads1x15.Dev
	pins map[int]ads1x15.PinADC
}

// Open initializes the host drivers and the converter.
func Open(cfg Config) (*Sampler, error) {
	if cfg.SupplyVolts <= 0 {
		cfg.SupplyVolts = defaultSupplyVolts
	}
	if cfg.MaxADC <= 0 {
		cfg.MaxADC = defaultMaxADC
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", cfg.Bus, err)
	}
	opts := ads1x15.DefaultOpts
	if cfg.Address != 0 {
		opts.I2cAddress = cfg.Address
	}
	dev, err := ads1x15.NewADS1115(bus, &opts)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("init ads1115: %w", err)
	}
	return &Sampler{cfg: cfg, bus: bus, dev: dev, pins: map[int]ads1x15.PinADC{}}, nil
}

// ReadRaw performs one conversion and scales it to [0, MaxADC).
func (s *Sampler) ReadRaw(ctx context.Context, pin int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.pinLocked(pin)
	if err != nil {
		return 0, err
	}
	sample, err := p.Read()
	if err != nil {
		return 0, fmt.Errorf("ads1115 channel %d: %w", pin, err)
	}
	return toCounts(sample.V, s.cfg.SupplyVolts, s.cfg.MaxADC), nil
}

// Close halts every opened channel and releases the bus.
func (s *Sampler) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, p := range s.pins {
		errs = append(errs, p.Halt())
	}
	errs = append(errs, s.dev.Halt(), s.bus.Close())
	return errors.Join(errs...)
}

func (s *Sampler) pinLocked(pin int) (ads1x15.PinADC, error) {
	if p, ok := s.pins[pin]; ok {
		return p, nil
	}
	ch, err := channelFor(pin)
	if err != nil {
		return nil, err
	}
	maxV := physic.ElectricPotential(s.cfg.SupplyVolts * float64(physic.Volt))
	p, err := s.dev.PinForChannel(ch, maxV, sampleFrequency, ads1x15.SaveEnergy)
	if err != nil {
		return nil, fmt.Errorf("ads1115 channel %d: %w", pin, err)
	}
	s.pins[pin] = p
	return p, nil
}

func channelFor(pin int) (ads1x15.Channel, error) {
	switch pin {
	case 0:
		return ads1x15.Channel0, nil
	case 1:
		return ads1x15.Channel1, nil
	case 2:
		return ads1x15.Channel2, nil
	case 3:
		return ads1x15.Channel3, nil
	default:
		return 0, fmt.Errorf("%w: got %d", errUnknownChannel, pin)
	}
}

// toCounts maps a voltage onto the configured converter scale, clamped to
// [0, maxADC-1].
func toCounts(v physic.ElectricPotential, supplyVolts float64, maxADC int) int {
	counts := int(float64(v) / float64(physic.Volt) / supplyVolts * float64(maxADC))
	switch {
	case counts < 0:
		return 0
	case counts >= maxADC:
		return maxADC - 1
	default:
		return counts
	}
}
