package service

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"hazard_monitor/internal/device"
	"hazard_monitor/internal/logger"
	"hazard_monitor/internal/metrics"
	"hazard_monitor/internal/models"
	"hazard_monitor/internal/node"
	"hazard_monitor/internal/repository"
)

const DefaultPostTimeout = 10 * time.Second

// Telemetry form keys.
const (
	FieldTemperature = string(node.Temperature)
	FieldHumidity    = string(node.Humidity)
	FieldCO          = string(node.CO)
	FieldSmoke       = string(node.Smoke)
)

// EncodeReading builds the telemetry form: temperature and humidity with two
// decimals, co and smoke as integers.
func EncodeReading(r models.Reading) url.Values {
	return url.Values{
		FieldTemperature: {strconv.FormatFloat(r.TemperatureC, 'f', 2, 64)},
		FieldHumidity:    {strconv.FormatFloat(r.HumidityPct, 'f', 2, 64)},
		FieldCO:          {strconv.Itoa(r.CO)},
		FieldSmoke:       {strconv.Itoa(r.Smoke)},
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// TelemetrySender posts the current Reading once per cycle while the
// coordinator allows it. There are no retries: a failed POST still ends the
// cycle and clears the alert.
type TelemetrySender struct {
	coord         *node.Coordinator
	radio         device.Radio
	transport     device.Transport
	transmissions repository.TransmissionRepo
	events        eventRecorder
	log           *logger.Logger

	url     string
	timeout time.Duration
	period  time.Duration
	now     func() time.Time
}

type TelemetryOptions struct {
	URL     string
	Timeout time.Duration
	Period  time.Duration
}

func NewTelemetrySender(
	coord *node.Coordinator,
	radio device.Radio,
	transport device.Transport,
	transmissions repository.TransmissionRepo,
	events repository.EventRepo,
	log *logger.Logger,
	opts TelemetryOptions,
) *TelemetrySender {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultPostTimeout
	}
	if opts.Period <= 0 {
		opts.Period = defaultSendPeriod(coord.Mode())
	}
	log = logger.OrNop(log)
	return &TelemetrySender{
		coord:         coord,
		radio:         radio,
		transport:     transport,
		transmissions: transmissions,
		events:        newEventRecorder(events, log),
		log:           log,
		url:           opts.URL,
		timeout:       opts.Timeout,
		period:        opts.Period,
		now:           time.Now,
	}
}

func defaultSendPeriod(m node.Mode) time.Duration {
	if m == node.ModeContinuous {
		return 60 * time.Second
	}
	return 10 * time.Second
}

func (s *TelemetrySender) Run(ctx context.Context) {
	every(ctx, s.period, func(ctx context.Context) { s.Tick(ctx) })
}

// Tick performs one sender iteration. It reports whether a POST was attempted.
func (s *TelemetrySender) Tick(ctx context.Context) bool {
	reading, gen, ok := s.coord.BeginSend()
	if !ok {
		return false
	}
	metrics.SetConnectivity(string(node.Sending))

	form := EncodeReading(reading)
	rec := models.TransmissionRecord{
		URL:         s.url,
		Payload:     form.Encode(),
		AttemptedAt: s.now().UTC(),
	}

	pctx, cancel := context.WithTimeout(ctx, s.timeout)
	start := time.Now()
	code, err := s.transport.Post(pctx, s.url, form)
	elapsed := time.Since(start)
	cancel()

	rec.StatusCode = code
	switch {
	case err != nil:
		rec.Error = err.Error()
		result := metrics.ResultError
		if errors.Is(err, context.DeadlineExceeded) {
			result = metrics.ResultTimeout
		}
		metrics.ObserveTransmission(result, elapsed)
		s.log.Errorw("telemetry_failed", "url", s.url, "err", err, "took", elapsed)
		s.events.record(ctx, models.EventTelemetryFailed, "telemetry POST failed: "+err.Error(), map[string]any{
			"url": s.url,
		})
	case code < 200 || code > 299:
		rec.Error = "unexpected status " + strconv.Itoa(code)
		metrics.ObserveTransmission(metrics.ResultError, elapsed)
		s.log.Warnw("telemetry_rejected", "url", s.url, "status", code, "took", elapsed)
		s.events.record(ctx, models.EventTelemetryFailed, "collector answered "+strconv.Itoa(code), map[string]any{
			"url":    s.url,
			"status": code,
		})
	default:
		rec.Successful = true
		metrics.ObserveTransmission(metrics.ResultSuccess, elapsed)
		s.log.Infow("telemetry_sent", "url", s.url, "status", code, "payload", rec.Payload, "took", elapsed)
		s.events.record(ctx, models.EventTelemetrySent, "telemetry delivered", map[string]any{
			"url":     s.url,
			"status":  code,
			"payload": rec.Payload,
		})
	}

	if s.transmissions != nil {
		if err := s.transmissions.Save(context.WithoutCancel(ctx), rec); err != nil {
			s.log.Errorw("transmission_save_failed", "err", err)
		}
	}

	// the radio is down before connectivity reads IDLE again
	if s.coord.Mode() == node.ModeEventTriggered {
		if err := s.radio.Disassociate(); err != nil {
			s.log.Warnw("radio_disassociate_failed", "err", err)
		}
	}
	s.coord.FinishSend(gen)
	metrics.SetConnectivity(string(s.coord.Connectivity()))
	return true
}
