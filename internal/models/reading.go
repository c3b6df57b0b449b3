package models

import "time"

// Reading is the latest sanitized value of every monitored quantity.
// Each field is owned by the sampling task that produces it.
type Reading struct {
	TemperatureC float64 `json:"temperature"` // °C
	HumidityPct  float64 `json:"humidity"`    // %RH
	CO           int     `json:"co"`          // calibrated percent-equivalent
	Smoke        int     `json:"smoke"`       // calibrated percent-equivalent

	TemperatureAt time.Time `json:"temperature_at,omitempty"`
	HumidityAt    time.Time `json:"humidity_at,omitempty"`
	GasAt         time.Time `json:"gas_at,omitempty"`
}
