package service

import (
	"context"
	"math"
	"sync"
	"time"

	"hazard_monitor/internal/device"
	"hazard_monitor/internal/gas"
	"hazard_monitor/internal/logger"
	"hazard_monitor/internal/metrics"
	"hazard_monitor/internal/models"
	"hazard_monitor/internal/node"
	"hazard_monitor/internal/repository"
)

const DefaultSamplePeriod = 30 * time.Second

// GasEstimator yields one cycle of CO and smoke readings.
type GasEstimator interface {
	GasPercentages(ctx context.Context) (gas.Percentages, error)
}

// SamplingService runs the temperature, humidity and gas sampling tasks.
// Each task owns its Reading fields and may only raise the alert.
type SamplingService struct {
	coord    *node.Coordinator
	temp     device.TemperatureProbe
	humidity device.HumidityProbe
	gas      GasEstimator
	events   eventRecorder
	log      *logger.Logger
	period   time.Duration
}

func NewSamplingService(
	coord *node.Coordinator,
	temp device.TemperatureProbe,
	humidity device.HumidityProbe,
	est GasEstimator,
	events repository.EventRepo,
	log *logger.Logger,
	period time.Duration,
) *SamplingService {
	if period <= 0 {
		period = DefaultSamplePeriod
	}
	log = logger.OrNop(log)
	return &SamplingService{
		coord:    coord,
		temp:     temp,
		humidity: humidity,
		gas:      est,
		events:   newEventRecorder(events, log),
		log:      log,
		period:   period,
	}
}

// Run starts the three tasks and blocks until ctx is canceled and all of them
// have returned.
func (s *SamplingService) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, task := range []func(context.Context){s.SampleTemperature, s.SampleHumidity, s.SampleGas} {
		wg.Add(1)
		go func(task func(context.Context)) {
			defer wg.Done()
			every(ctx, s.period, task)
		}(task)
	}
	wg.Wait()
}

// SampleTemperature runs one temperature iteration.
func (s *SamplingService) SampleTemperature(ctx context.Context) {
	v, err := s.temp.ReadTemperature(ctx)
	if ctx.Err() != nil {
		return
	}
	v = s.sanitize(ctx, node.Temperature, v, err)
	s.afterRecord(ctx, s.coord.RecordTemperature(v), map[node.Quantity]float64{node.Temperature: v})
}

// SampleHumidity runs one humidity iteration. An invalid reading becomes 0,
// which is below the humidity limit and raises the alert.
func (s *SamplingService) SampleHumidity(ctx context.Context) {
	v, err := s.humidity.ReadHumidity(ctx)
	if ctx.Err() != nil {
		return
	}
	v = s.sanitize(ctx, node.Humidity, v, err)
	s.afterRecord(ctx, s.coord.RecordHumidity(v), map[node.Quantity]float64{node.Humidity: v})
}

// SampleGas runs one gas iteration: a single rs/Ro ratio evaluated on both curves.
func (s *SamplingService) SampleGas(ctx context.Context) {
	p, err := s.gas.GasPercentages(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		s.sensorFault(ctx, "gas", err.Error())
		p = gas.Percentages{}
	}
	tripped := s.coord.RecordGas(p.CO, p.Smoke)
	s.afterRecord(ctx, tripped, map[node.Quantity]float64{
		node.CO:    float64(p.CO),
		node.Smoke: float64(p.Smoke),
	})
}

// sanitize maps NaN or a failed read to 0.
func (s *SamplingService) sanitize(ctx context.Context, q node.Quantity, v float64, err error) float64 {
	switch {
	case err != nil:
		s.sensorFault(ctx, string(q), err.Error())
		return 0
	case math.IsNaN(v) || math.IsInf(v, 0):
		s.sensorFault(ctx, string(q), "invalid reading")
		return 0
	default:
		return v
	}
}

func (s *SamplingService) sensorFault(ctx context.Context, sensor, reason string) {
	s.log.Warnw("sensor_fault", "sensor", sensor, "reason", reason)
	metrics.IncSensorFault(sensor)
	s.events.record(ctx, models.EventSensorFault, sensor+" sensor fault: "+reason, map[string]any{
		"sensor": sensor,
		"reason": reason,
	})
}

func (s *SamplingService) afterRecord(ctx context.Context, tripped []node.Quantity, values map[node.Quantity]float64) {
	for q, v := range values {
		metrics.SetReading(string(q), v)
	}
	for _, q := range tripped {
		th := node.Thresholds[q]
		v := values[q]
		s.log.Warnw("threshold_violated", "quantity", q, "value", v, "limit", th.Limit)
		metrics.IncAlert(string(q))
		s.events.record(ctx, models.EventAlert, describeViolation(th, v), map[string]any{
			"quantity": string(q),
			"value":    v,
			"limit":    th.Limit,
		})
	}
}

func describeViolation(th node.Threshold, v float64) string {
	dir := "above"
	if th.Below {
		dir = "below"
	}
	return string(th.Quantity) + " " + formatValue(v) + " " + dir + " limit " + formatValue(th.Limit)
}
