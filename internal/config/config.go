// Package config loads node and collector settings from configs/config.yml,
// an optional .env file and HAZARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"hazard_monitor/internal/node"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "HAZARD"

// Analog front ends.
const (
	ADCSim     = "sim"
	ADCADS1115 = "ads1115"
)

// Mode-dependent task periods.
const (
	eventConnectPeriod      = 5 * time.Second
	eventSendPeriod         = 10 * time.Second
	continuousConnectPeriod = 10 * time.Second
	continuousSendPeriod    = 60 * time.Second
)

type Config struct {
	Port     string    `mapstructure:"port"`
	LogLevel string    `mapstructure:"log_level"`
	Mode     node.Mode `mapstructure:"mode"`

	DB        DBConfig        `mapstructure:"db"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Collector CollectorConfig `mapstructure:"collector"`
	Hardware  HardwareConfig  `mapstructure:"hardware"`
	Sim       SimConfig       `mapstructure:"sim"`
	Auth      AuthConfig      `mapstructure:"auth"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

// ScheduleConfig holds task periods. Zero connect/send periods are filled from the mode.
type ScheduleConfig struct {
	SamplePeriod   time.Duration `mapstructure:"sample_period"`
	ConnectPeriod  time.Duration `mapstructure:"connect_period"`
	SendPeriod     time.Duration `mapstructure:"send_period"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type CollectorConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// Port is where cmd/collector listens.
	Port string `mapstructure:"port"`
}

type HardwareConfig struct {
	ADC         string  `mapstructure:"adc"`
	GasPin      int     `mapstructure:"gas_pin"`
	MaxADC      int     `mapstructure:"max_adc"`
	I2CBus      string  `mapstructure:"i2c_bus"`
	I2CAddress  uint16  `mapstructure:"i2c_address"`
	SupplyVolts float64 `mapstructure:"supply_volts"`
}

type SimConfig struct {
	Tick                time.Duration  `mapstructure:"tick"`
	AmbientTempC        float64        `mapstructure:"ambient_temp_c"`
	AmbientHumidityPct  float64        `mapstructure:"ambient_humidity_pct"`
	TempFluctuation     float64        `mapstructure:"temp_fluctuation"`
	InvalidReadingRate  float64        `mapstructure:"invalid_reading_rate"`
	IncidentProbability float64        `mapstructure:"incident_probability"`
	ExtinguishRate      float64        `mapstructure:"extinguish_rate"`
	Seed                int64          `mapstructure:"seed"`
	Radio               SimRadioConfig `mapstructure:"radio"`
}

type SimRadioConfig struct {
	AssociateDelay time.Duration `mapstructure:"associate_delay"`
	FailureRate    float64       `mapstructure:"failure_rate"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("mode", string(node.ModeEventTriggered))

	v.SetDefault("db.path", "node.db")

	v.SetDefault("schedule.sample_period", 30*time.Second)
	v.SetDefault("schedule.connect_period", time.Duration(0))
	v.SetDefault("schedule.send_period", time.Duration(0))
	v.SetDefault("schedule.connect_timeout", 30*time.Second)

	v.SetDefault("collector.url", "http://127.0.0.1:8090/telemetry")
	v.SetDefault("collector.timeout", 10*time.Second)
	v.SetDefault("collector.port", "8090")

	v.SetDefault("hardware.adc", ADCSim)
	v.SetDefault("hardware.gas_pin", 0)
	v.SetDefault("hardware.max_adc", 4095)
	v.SetDefault("hardware.i2c_bus", "")
	v.SetDefault("hardware.i2c_address", 0x48)
	v.SetDefault("hardware.supply_volts", 5.0)

	v.SetDefault("sim.tick", time.Second)
	v.SetDefault("sim.ambient_temp_c", 24.0)
	v.SetDefault("sim.ambient_humidity_pct", 45.0)
	v.SetDefault("sim.temp_fluctuation", 0.4)
	v.SetDefault("sim.invalid_reading_rate", 0.01)
	v.SetDefault("sim.incident_probability", 0.002)
	v.SetDefault("sim.extinguish_rate", 0.02)
	v.SetDefault("sim.seed", 0)
	v.SetDefault("sim.radio.associate_delay", 2*time.Second)
	v.SetDefault("sim.radio.failure_rate", 0.1)

	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)
}

// Load reads config.yml from configDir (missing file is fine), then envFile
// (missing file is fine), then the environment. Environment wins.
func Load(configDir, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	mode, err := node.ParseMode(string(c.Mode))
	if err != nil {
		return err
	}
	c.Mode = mode

	if c.Schedule.ConnectPeriod == 0 {
		c.Schedule.ConnectPeriod = eventConnectPeriod
		if mode == node.ModeContinuous {
			c.Schedule.ConnectPeriod = continuousConnectPeriod
		}
	}
	if c.Schedule.SendPeriod == 0 {
		c.Schedule.SendPeriod = eventSendPeriod
		if mode == node.ModeContinuous {
			c.Schedule.SendPeriod = continuousSendPeriod
		}
	}

	for name, d := range map[string]time.Duration{
		"schedule.sample_period":   c.Schedule.SamplePeriod,
		"schedule.connect_period":  c.Schedule.ConnectPeriod,
		"schedule.send_period":     c.Schedule.SendPeriod,
		"schedule.connect_timeout": c.Schedule.ConnectTimeout,
		"collector.timeout":        c.Collector.Timeout,
		"sim.tick":                 c.Sim.Tick,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}

	u, err := url.Parse(c.Collector.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("collector.url %q is not an http(s) URL", c.Collector.URL)
	}

	switch c.Hardware.ADC {
	case ADCSim, ADCADS1115:
	default:
		return fmt.Errorf("hardware.adc %q: must be %q or %q", c.Hardware.ADC, ADCSim, ADCADS1115)
	}
	if c.Hardware.MaxADC <= 1 {
		return fmt.Errorf("hardware.max_adc must be greater than 1, got %d", c.Hardware.MaxADC)
	}
	return nil
}
