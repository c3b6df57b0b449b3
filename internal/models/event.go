package models

import "time"

// Event types written to the node event log.
const (
	EventCalibrated       = "CALIBRATED"
	EventCalibrationFault = "CALIBRATION_FAULT"
	EventAlert            = "ALERT"
	EventSensorFault      = "SENSOR_FAULT"
	EventConnected        = "CONNECTED"
	EventConnectFailed    = "CONNECT_FAILED"
	EventTelemetrySent    = "TELEMETRY_SENT"
	EventTelemetryFailed  = "TELEMETRY_FAILED"
)

// NodeEvent is a single log entry.
type NodeEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // see Event* constants
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
