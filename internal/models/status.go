package models

import "time"

// TransmissionRecord describes the most recent telemetry POST attempt.
type TransmissionRecord struct {
	ID          int       `json:"-"`
	URL         string    `json:"url"`
	Payload     string    `json:"payload"` // form-encoded body as sent
	StatusCode  int       `json:"status_code,omitempty"`
	Error       string    `json:"error,omitempty"`
	AttemptedAt time.Time `json:"attempted_at"`
	Successful  bool      `json:"successful"`
}

// NodeStatus is the read-only view served by the local status API.
type NodeStatus struct {
	Mode         string              `json:"mode"`         // event | continuous
	Connectivity string              `json:"connectivity"` // IDLE | CONNECTING | CONNECTED | SENDING | FAILED
	AlertPending bool                `json:"alert_pending"`
	AlertSources []string            `json:"alert_sources,omitempty"`
	Reading      Reading             `json:"reading"`
	Ro           float64             `json:"ro"`
	LastTransmit *TransmissionRecord `json:"last_transmission,omitempty"`
	ObservedAt   time.Time           `json:"observed_at"`
}
