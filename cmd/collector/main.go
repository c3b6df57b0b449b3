// Command collector is a development endpoint for node telemetry.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hazard_monitor/internal/collector"
	"hazard_monitor/internal/config"
	"hazard_monitor/internal/logger"
	"hazard_monitor/internal/metrics"
	"hazard_monitor/internal/server"
)

func main() {
	cfg, err := config.Load("configs", ".env")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel)
	metrics.Init()

	h := collector.NewHandler(collector.NewLogSink(log), log)
	srv := &server.Server{}
	go func() {
		if err := srv.Run(cfg.Collector.Port, h.InitRoutes()); err != nil {
			log.Fatalw("error starting collector", "err", err)
		}
	}()
	log.Infow("collector_started", "port", cfg.Collector.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("collector forced to shutdown", "err", err)
	}
}
