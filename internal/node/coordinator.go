// Package node owns the shared state of a monitoring node: the latest
// Reading, the Alert Flag and the radio Connectivity State.
//
// All mutations go through Coordinator, which serializes them behind a single
// mutex. Sampling tasks only ever raise the alert; the telemetry sender is the
// only party that clears it, and it does so in the same critical section that
// moves connectivity out of SENDING.
package node

import (
	"fmt"
	"sync"
	"time"

	"hazard_monitor/internal/models"
)

// Mode selects how the radio is managed.
type Mode string

const (
	// ModeEventTriggered powers the radio up only while an alert is pending.
	ModeEventTriggered Mode = "event"
	// ModeContinuous keeps the radio associated and sends every cycle.
	ModeContinuous Mode = "continuous"
)

// ParseMode validates a configured mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeEventTriggered, ModeContinuous:
		return Mode(s), nil
	case "":
		return ModeEventTriggered, nil
	default:
		return "", fmt.Errorf("invalid mode %q: must be %q or %q", s, ModeEventTriggered, ModeContinuous)
	}
}

// Connectivity is the radio/session lifecycle stage.
type Connectivity string

const (
	Idle       Connectivity = "IDLE"
	Connecting Connectivity = "CONNECTING"
	Connected  Connectivity = "CONNECTED"
	Sending    Connectivity = "SENDING"
	Failed     Connectivity = "FAILED"
)

// Snapshot is a consistent copy of the coordinator state.
type Snapshot struct {
	Mode         Mode
	Reading      models.Reading
	AlertPending bool
	AlertSources []Quantity
	Connectivity Connectivity
}

// Coordinator is the single owner of node state.
type Coordinator struct {
	mu sync.Mutex

	mode    Mode
	reading models.Reading
	alert   bool
	sources []Quantity
	conn    Connectivity
	// alertGen counts trips; a send only clears the alert it captured.
	alertGen uint64

	now func() time.Time
}

func NewCoordinator(mode Mode) *Coordinator {
	return &Coordinator{
		mode: mode,
		conn: Idle,
		now:  time.Now,
	}
}

// Mode returns the configured connectivity mode.
func (c *Coordinator) Mode() Mode { return c.mode }

// RecordTemperature stores a sanitized temperature and evaluates its threshold.
// It returns the quantities that tripped.
func (c *Coordinator) RecordTemperature(v float64) []Quantity {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reading.TemperatureC = v
	c.reading.TemperatureAt = c.now().UTC()
	return c.evaluateLocked(map[Quantity]float64{Temperature: v})
}

// RecordHumidity stores a sanitized humidity and evaluates its threshold.
func (c *Coordinator) RecordHumidity(v float64) []Quantity {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reading.HumidityPct = v
	c.reading.HumidityAt = c.now().UTC()
	return c.evaluateLocked(map[Quantity]float64{Humidity: v})
}

// RecordGas stores both gas readings of one cycle and evaluates their thresholds.
func (c *Coordinator) RecordGas(co, smoke int) []Quantity {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reading.CO = co
	c.reading.Smoke = smoke
	c.reading.GasAt = c.now().UTC()
	return c.evaluateLocked(map[Quantity]float64{CO: float64(co), Smoke: float64(smoke)})
}

// evaluateLocked raises the alert for every violated quantity. It never clears it.
func (c *Coordinator) evaluateLocked(values map[Quantity]float64) []Quantity {
	var tripped []Quantity
	for _, q := range []Quantity{Temperature, Humidity, CO, Smoke} {
		v, ok := values[q]
		if !ok || !Thresholds[q].Violated(v) {
			continue
		}
		tripped = append(tripped, q)
		c.alert = true
		c.alertGen++
		if !containsQuantity(c.sources, q) {
			c.sources = append(c.sources, q)
		}
	}
	return tripped
}

// AlertPending reports whether a hazard has fired since the last send.
func (c *Coordinator) AlertPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alert
}

// Connectivity returns the current lifecycle stage.
func (c *Coordinator) Connectivity() Connectivity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

// BeginConnect moves IDLE or FAILED to CONNECTING when the radio should be
// brought up: in event mode only with an alert pending, in continuous mode always.
func (c *Coordinator) BeginConnect() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != Idle && c.conn != Failed {
		return false
	}
	if c.mode == ModeEventTriggered && !c.alert {
		// a failed attempt with nothing left to send settles back to IDLE
		c.conn = Idle
		return false
	}
	c.conn = Connecting
	return true
}

// ConnectSucceeded completes association.
func (c *Coordinator) ConnectSucceeded() bool {
	return c.transition(Connecting, Connected)
}

// ConnectFailed records a failed or timed out association.
func (c *Coordinator) ConnectFailed() bool {
	return c.transition(Connecting, Failed)
}

// Disconnected records that an associated radio dropped its link.
func (c *Coordinator) Disconnected() bool {
	return c.transition(Connected, Idle)
}

// BeginSend moves CONNECTED to SENDING and returns the Reading to transmit,
// captured in the same critical section, together with the alert generation
// it covers. Event mode additionally requires a pending alert.
func (c *Coordinator) BeginSend() (models.Reading, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != Connected {
		return models.Reading{}, 0, false
	}
	if c.mode == ModeEventTriggered && !c.alert {
		return models.Reading{}, 0, false
	}
	c.conn = Sending
	return c.reading, c.alertGen, true
}

// FinishSend ends a transmission attempt whatever its outcome and returns
// connectivity to IDLE (event mode) or CONNECTED (continuous mode). The alert
// is cleared only if nothing tripped since BeginSend returned gen; a newer
// violation stays pending for the next cycle.
func (c *Coordinator) FinishSend(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != Sending {
		return false
	}
	if c.alertGen == gen {
		c.alert = false
		c.sources = nil
	}
	if c.mode == ModeContinuous {
		c.conn = Connected
	} else {
		c.conn = Idle
	}
	return true
}

// Snapshot returns a copy of the whole state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Mode:         c.mode,
		Reading:      c.reading,
		AlertPending: c.alert,
		AlertSources: append([]Quantity(nil), c.sources...),
		Connectivity: c.conn,
	}
}

func (c *Coordinator) transition(from, to Connectivity) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != from {
		return false
	}
	c.conn = to
	return true
}

func containsQuantity(qs []Quantity, want Quantity) bool {
	for _, q := range qs {
		if q == want {
			return true
		}
	}
	return false
}
