package service

import (
	"context"
	"errors"
	"time"

	"hazard_monitor/internal/device"
	"hazard_monitor/internal/logger"
	"hazard_monitor/internal/metrics"
	"hazard_monitor/internal/models"
	"hazard_monitor/internal/node"
	"hazard_monitor/internal/repository"
)

const DefaultConnectTimeout = 30 * time.Second

// NetworkController brings the radio up when the coordinator asks for it.
// In event mode that is only while an alert is pending; in continuous mode it
// also notices a dropped link and reassociates.
type NetworkController struct {
	coord   *node.Coordinator
	radio   device.Radio
	events  eventRecorder
	log     *logger.Logger
	period  time.Duration
	timeout time.Duration
}

func NewNetworkController(
	coord *node.Coordinator,
	radio device.Radio,
	events repository.EventRepo,
	log *logger.Logger,
	period, connectTimeout time.Duration,
) *NetworkController {
	if period <= 0 {
		period = defaultConnectPeriod(coord.Mode())
	}
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	log = logger.OrNop(log)
	return &NetworkController{
		coord:   coord,
		radio:   radio,
		events:  newEventRecorder(events, log),
		log:     log,
		period:  period,
		timeout: connectTimeout,
	}
}

func defaultConnectPeriod(m node.Mode) time.Duration {
	if m == node.ModeContinuous {
		return 10 * time.Second
	}
	return 5 * time.Second
}

func (n *NetworkController) Run(ctx context.Context) {
	every(ctx, n.period, n.Tick)
}

// Tick performs one controller iteration.
func (n *NetworkController) Tick(ctx context.Context) {
	if n.coord.Mode() == node.ModeContinuous &&
		n.coord.Connectivity() == node.Connected &&
		!n.radio.Associated() {
		if n.coord.Disconnected() {
			n.log.Warnw("radio_link_lost")
		}
	}

	if !n.coord.BeginConnect() {
		metrics.SetConnectivity(string(n.coord.Connectivity()))
		return
	}
	metrics.SetConnectivity(string(node.Connecting))
	n.log.Infow("radio_connecting", "mode", n.coord.Mode(), "timeout", n.timeout)

	actx, cancel := context.WithTimeout(ctx, n.timeout)
	start := time.Now()
	err := n.radio.Associate(actx)
	elapsed := time.Since(start)
	cancel()

	if err != nil {
		if derr := n.radio.Disassociate(); derr != nil {
			n.log.Warnw("radio_disassociate_failed", "err", derr)
		}
		n.coord.ConnectFailed()
		metrics.SetConnectivity(string(node.Failed))
		if ctx.Err() != nil {
			return
		}

		result := metrics.ResultError
		if errors.Is(err, context.DeadlineExceeded) {
			result = metrics.ResultTimeout
		}
		metrics.ObserveAssociation(result, elapsed)
		n.log.Warnw("radio_connect_failed", "err", err, "took", elapsed)
		n.events.record(ctx, models.EventConnectFailed, "radio association failed: "+err.Error(), map[string]any{
			"result":     result,
			"elapsed_ms": elapsed.Milliseconds(),
		})
		return
	}

	n.coord.ConnectSucceeded()
	metrics.SetConnectivity(string(node.Connected))
	metrics.ObserveAssociation(metrics.ResultSuccess, elapsed)
	n.log.Infow("radio_connected", "took", elapsed)
	n.events.record(ctx, models.EventConnected, "radio associated", map[string]any{
		"elapsed_ms": elapsed.Milliseconds(),
	})
}
