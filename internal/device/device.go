// Package device declares the hardware collaborators a node depends on and
// provides the HTTP telemetry transport.
package device

import (
	"context"
	"net/url"

	"hazard_monitor/internal/gas"
)

// AnalogSampler reads raw conversions from an analog pin.
type AnalogSampler = gas.AnalogSampler

// TemperatureProbe reads ambient temperature in °C. NaN marks an invalid reading.
type TemperatureProbe interface {
	ReadTemperature(ctx context.Context) (float64, error)
}

// HumidityProbe reads relative humidity in percent. NaN marks an invalid reading.
type HumidityProbe interface {
	ReadHumidity(ctx context.Context) (float64, error)
}

// Radio is the network interface that must be powered up before sending.
type Radio interface {
	// Associate blocks until the link is up or ctx is done.
	Associate(ctx context.Context) error
	// Disassociate tears the link down and powers the radio off.
	Disassociate() error
	// Associated reports whether the link is currently up.
	Associated() bool
}

// Transport delivers one form-encoded telemetry payload.
type Transport interface {
	// Post returns the response status code, or an error when no response was received.
	Post(ctx context.Context, url string, form url.Values) (int, error)
}
