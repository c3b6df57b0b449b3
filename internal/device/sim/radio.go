package sim

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

const defaultPollInterval = 500 * time.Millisecond

// RadioConfig tunes the simulated radio.
type RadioConfig struct {
	AssociateDelay time.Duration // time until the access point accepts us
	FailureRate    float64       // 0..1, probability an attempt never completes
	PollInterval   time.Duration
	Seed           int64
}

// Radio simulates a station-mode WiFi interface.
type Radio struct {
	mu         sync.Mutex
	cfg        RadioConfig
	rng        *rand.Rand
	associated bool
	attempts   int
}

func NewRadio(cfg RadioConfig) *Radio {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Radio{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// Associate polls the link status until it comes up or ctx is done. A failed
// attempt keeps polling a link that never comes up.
func (r *Radio) Associate(ctx context.Context) error {
	r.mu.Lock()
	r.attempts++
	stuck := r.cfg.FailureRate > 0 && r.rng.Float64() < r.cfg.FailureRate
	readyAt := time.Now().Add(r.cfg.AssociateDelay)
	poll := r.cfg.PollInterval
	r.mu.Unlock()

	t := time.NewTicker(poll)
	defer t.Stop()
	for {
		if !stuck && !time.Now().Before(readyAt) {
			r.mu.Lock()
			r.associated = true
			r.mu.Unlock()
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Disassociate implements device.Radio.
func (r *Radio) Disassociate() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.associated = false
	return nil
}

// Associated implements device.Radio.
func (r *Radio) Associated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.associated
}

// Drop simulates the access point going away.
func (r *Radio) Drop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.associated = false
}

// Attempts returns how many association attempts were made.
func (r *Radio) Attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts
}
