package main

import (
	"context"
	"database/sql"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"hazard_monitor/internal/config"
	"hazard_monitor/internal/device"
	"hazard_monitor/internal/device/periphadc"
	"hazard_monitor/internal/device/sim"
	"hazard_monitor/internal/gas"
	"hazard_monitor/internal/handlers"
	"hazard_monitor/internal/logger"
	"hazard_monitor/internal/metrics"
	"hazard_monitor/internal/node"
	"hazard_monitor/internal/repository"
	"hazard_monitor/internal/repository/db"
	"hazard_monitor/internal/server"
	"hazard_monitor/internal/service"

	"github.com/google/uuid"
)

const shutdownTimeout = 10 * time.Second

// @title                       Hazard Monitor Node API
// @version                     1.0
// @description                 Local status API of a fire and gas hazard monitoring node.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load("configs", ".env")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel)
	metrics.Init()

	conn, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()
	repos := repository.NewRepository(conn)

	// SIGINT/SIGTERM cancel ctx from here on, calibration included
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	var wg sync.WaitGroup

	env := newEnvironment(cfg)
	sampler, closeSampler := openSampler(cfg, env, log)
	defer closeSampler()

	probe := gas.NewProbe(sampler, cfg.Hardware.GasPin, cfg.Hardware.MaxADC)
	cal, err := calibrateThenStart(ctx, probe, env, cfg.Sim.Tick, repos.EventRepo, log, &wg)
	if err != nil {
		log.Infow("calibration aborted", "err", err)
		return
	}
	estimator := gas.NewEstimator(probe, cal)

	coord := node.NewCoordinator(cfg.Mode)
	radio := sim.NewRadio(sim.RadioConfig{
		AssociateDelay: cfg.Sim.Radio.AssociateDelay,
		FailureRate:    cfg.Sim.Radio.FailureRate,
		Seed:           cfg.Sim.Seed,
	})

	runners := []service.Runner{
		service.NewSamplingService(coord, env, env, estimator, repos.EventRepo, log, cfg.Schedule.SamplePeriod),
		service.NewNetworkController(coord, radio, repos.EventRepo, log, cfg.Schedule.ConnectPeriod, cfg.Schedule.ConnectTimeout),
		service.NewTelemetrySender(coord, radio, device.NewHTTPTransport(cfg.Collector.Timeout), repos.TransmissionRepo, repos.EventRepo, log,
			service.TelemetryOptions{
				URL:     cfg.Collector.URL,
				Timeout: cfg.Collector.Timeout,
				Period:  cfg.Schedule.SendPeriod,
			}),
	}
	for _, r := range runners {
		wg.Add(1)
		go func(r service.Runner) {
			defer wg.Done()
			r.Run(ctx)
		}(r)
	}
	log.Infow("node_started", "mode", cfg.Mode, "adc", cfg.Hardware.ADC, "ro", cal.Ro, "collector", cfg.Collector.URL)

	signingKey := cfg.Auth.SigningKey
	if signingKey == "" {
		signingKey = uuid.NewString()
		log.Warnw("auth.signing_key not set; tokens will not survive a restart")
	}
	services := service.NewService(repos, coord, service.Options{
		Calibration: cal,
		SigningKey:  signingKey,
		TokenTTL:    cfg.Auth.TokenTTL,
	})
	apiHandler := handlers.NewHandler(services, log)

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	<-ctx.Done()
	stop()
	shutdown(&wg, radio, srv, log)
}

func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	path := cfg.DB.Path
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "node.db")
		path = "node.db"
	}
	return db.InitDB(path)
}

// calibrateThenStart takes the clean-air baseline while the simulated room is
// frozen, and only then starts it. A canceled ctx aborts before the room runs.
func calibrateThenStart(
	ctx context.Context,
	c service.Calibrator,
	env *sim.Environment,
	tick time.Duration,
	events repository.EventRepo,
	log *logger.Logger,
	wg *sync.WaitGroup,
) (gas.Calibration, error) {
	cal, err := service.Calibrate(ctx, c, events, log)
	if err != nil {
		return gas.Calibration{}, err
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		env.Run(ctx, tick)
	}()
	return cal, nil
}

func newEnvironment(cfg *config.Config) *sim.Environment {
	return sim.NewEnvironment(sim.Config{
		AmbientTempC:        cfg.Sim.AmbientTempC,
		AmbientHumidityPct:  cfg.Sim.AmbientHumidityPct,
		TempFluctuation:     cfg.Sim.TempFluctuation,
		InvalidReadingRate:  cfg.Sim.InvalidReadingRate,
		IncidentProbability: cfg.Sim.IncidentProbability,
		ExtinguishRate:      cfg.Sim.ExtinguishRate,
		MaxADC:              cfg.Hardware.MaxADC,
		Seed:                cfg.Sim.Seed,
	})
}

// openSampler picks the analog front end for the gas sensor. Temperature and
// humidity always come from env.
func openSampler(cfg *config.Config, env *sim.Environment, log *logger.Logger) (device.AnalogSampler, func()) {
	if cfg.Hardware.ADC != config.ADCADS1115 {
		return env, func() {}
	}
	adc, err := periphadc.Open(periphadc.Config{
		Bus:         cfg.Hardware.I2CBus,
		Address:     cfg.Hardware.I2CAddress,
		SupplyVolts: cfg.Hardware.SupplyVolts,
		MaxADC:      cfg.Hardware.MaxADC,
	})
	if err != nil {
		log.Fatalw("failed to open ads1115", "err", err, "bus", cfg.Hardware.I2CBus)
	}
	return adc, func() {
		if err := adc.Close(); err != nil {
			log.Warnw("failed to close ads1115", "err", err)
		}
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// shutdown waits for the canceled tasks, powers the radio down and drains
// the HTTP server.
func shutdown(wg *sync.WaitGroup, radio device.Radio, srv *server.Server, log *logger.Logger) {
	log.Infow("shutting down node...")

	wg.Wait()

	if err := radio.Disassociate(); err != nil {
		log.Warnw("radio_disassociate_failed", "err", err)
	}

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
	log.Infow("node stopped")
}
