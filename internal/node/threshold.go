package node

// Quantity names a monitored physical quantity. The values double as
// telemetry form keys and metric labels.
type Quantity string

const (
	Temperature Quantity = "temperature"
	Humidity    Quantity = "humidity"
	CO          Quantity = "co"
	Smoke       Quantity = "smoke"
)

// Hazard limits. Fixed at build time.
const (
	MaxTemperatureC = 40.0
	MinHumidityPct  = 30.0
	MaxCO           = 30
	MaxSmoke        = 1000
)

// Threshold is a single limit with its comparison direction.
type Threshold struct {
	Quantity Quantity
	Limit    float64
	// Below marks quantities where a value under Limit is the hazard.
	Below bool
}

// Violated reports whether v is strictly beyond the limit.
func (t Threshold) Violated(v float64) bool {
	if t.Below {
		return v < t.Limit
	}
	return v > t.Limit
}

// Thresholds is the policy table.
var Thresholds = map[Quantity]Threshold{
	Temperature: {Quantity: Temperature, Limit: MaxTemperatureC},
	Humidity:    {Quantity: Humidity, Limit: MinHumidityPct, Below: true},
	CO:          {Quantity: CO, Limit: MaxCO},
	Smoke:       {Quantity: Smoke, Limit: MaxSmoke},
}
