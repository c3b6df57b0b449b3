// Package collector receives telemetry posted by hazard nodes.
package collector

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hazard_monitor/internal/logger"
	"hazard_monitor/internal/metrics"
	"hazard_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// Telemetry is one accepted node report.
type Telemetry struct {
	TemperatureC float64   `json:"temperature"`
	HumidityPct  float64   `json:"humidity"`
	CO           float64   `json:"co"`
	Smoke        float64   `json:"smoke"`
	ReceivedAt   time.Time `json:"received_at"`
	Remote       string    `json:"remote"`
}

// Sink consumes accepted telemetry.
type Sink interface {
	Accept(ctx context.Context, t Telemetry) error
}

// LogSink writes every report to the log.
type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: logger.OrNop(log)}
}

func (s *LogSink) Accept(_ context.Context, t Telemetry) error {
	s.log.Infow("telemetry_received",
		"remote", t.Remote,
		"temperature", t.TemperatureC,
		"humidity", t.HumidityPct,
		"co", t.CO,
		"smoke", t.Smoke,
	)
	return nil
}

type Handler struct {
	sink Sink
	log  *logger.Logger
	now  func() time.Time
}

func NewHandler(sink Sink, log *logger.Logger) *Handler {
	log = logger.OrNop(log)
	if sink == nil {
		sink = NewLogSink(log)
	}
	return &Handler{sink: sink, log: log, now: time.Now}
}

// InitRoutes builds the collector router.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/telemetry", h.receive)
	return router
}

func (h *Handler) receive(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		h.reject(c, err)
		return
	}
	t, err := parseTelemetry(c.Request.PostForm)
	if err != nil {
		h.reject(c, err)
		return
	}
	t.ReceivedAt = h.now().UTC()
	t.Remote = c.ClientIP()

	if err := h.sink.Accept(c.Request.Context(), t); err != nil {
		metrics.IncCollectorReading(metrics.ResultError)
		h.log.Errorw("telemetry_sink_failed", "err", err, "remote", t.Remote)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store telemetry"})
		return
	}
	metrics.IncCollectorReading(metrics.ResultSuccess)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) reject(c *gin.Context, err error) {
	metrics.IncCollectorReading(metrics.ResultError)
	h.log.Infow("telemetry_rejected", "err", err, "remote", c.ClientIP())
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// parseTelemetry requires every field to be present and a finite decimal.
func parseTelemetry(form url.Values) (Telemetry, error) {
	var t Telemetry
	fields := []struct {
		name string
		dst  *float64
	}{
		{service.FieldTemperature, &t.TemperatureC},
		{service.FieldHumidity, &t.HumidityPct},
		{service.FieldCO, &t.CO},
		{service.FieldSmoke, &t.Smoke},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(form.Get(f.name))
		if raw == "" {
			return Telemetry{}, fmt.Errorf("missing field %q", f.name)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Telemetry{}, fmt.Errorf("field %q is not a decimal: %q", f.name, raw)
		}
		*f.dst = v
	}
	return t, nil
}
