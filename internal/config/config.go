// Package config loads service settings from the environment, an optional
// .env file and an optional config.yaml, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/katalvlaran/courierround/round"
	"github.com/katalvlaran/courierround/tsp"
)

// Config holds every tunable of the server.
type Config struct {
	ServerPort  string `mapstructure:"SERVER_PORT" validate:"required,numeric"`
	DBDriver    string `mapstructure:"DB_DRIVER" validate:"oneof=sqlite pgx"`
	DatabaseURL string `mapstructure:"DATABASE_URL" validate:"required"`

	SolverStrategy  string        `mapstructure:"SOLVER_STRATEGY" validate:"oneof=exact heuristic"`
	SolverTimeLimit time.Duration `mapstructure:"SOLVER_TIME_LIMIT" validate:"gt=0"`
	Partition       string        `mapstructure:"PARTITION" validate:"oneof=contiguous kmeans"`
	MaxParallel     int           `mapstructure:"MAX_PARALLEL_SOLVES" validate:"gte=0"`

	CourierSpeedKmh float64       `mapstructure:"COURIER_SPEED_KMH" validate:"gt=0"`
	ServiceTime     time.Duration `mapstructure:"SERVICE_TIME" validate:"gte=0"`
	DayStart        string        `mapstructure:"DAY_START" validate:"datetime=15:04"`
	Workday         time.Duration `mapstructure:"WORKDAY" validate:"gt=0"`
}

var defaults = map[string]any{
	"SERVER_PORT":         "8080",
	"DB_DRIVER":           "sqlite",
	"DATABASE_URL":        "data/courierround.db",
	"SOLVER_STRATEGY":     string(tsp.KindExact),
	"SOLVER_TIME_LIMIT":   tsp.DefaultTimeLimit,
	"PARTITION":           "contiguous",
	"MAX_PARALLEL_SOLVES": 0,
	"COURIER_SPEED_KMH":   15.0,
	"SERVICE_TIME":        5 * time.Minute,
	"DAY_START":           "08:00",
	"WORKDAY":             8 * time.Hour,
}

// Load reads dir/.env (if present) into the environment, then dir/config.yaml
// (if present), then the environment itself.
func Load(dir string) (*Config, error) {
	envFile := filepath.Join(dir, ".env")
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
		log.Println("[CONFIG] no .env file found (using environment variables)")
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config.yaml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every field against its tag.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	return nil
}

// Timing returns the arrival-time simulation constants.
func (c *Config) Timing() (round.Timing, error) {
	start, err := time.Parse("15:04", c.DayStart)
	if err != nil {
		return round.Timing{}, fmt.Errorf("config: DAY_START: %w", err)
	}

	return round.Timing{
		SpeedKmh: c.CourierSpeedKmh,
		Service:  c.ServiceTime,
		DayStart: time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute,
		Workday:  c.Workday,
	}, nil
}

// SolverOptions returns the default solver options with the configured budget.
func (c *Config) SolverOptions() tsp.Options {
	opts := tsp.DefaultOptions()
	opts.TimeLimit = c.SolverTimeLimit

	return opts
}

// Assembler builds the round assembler described by c.
func (c *Config) Assembler() (*round.Assembler, error) {
	kind, err := tsp.ParseKind(c.SolverStrategy)
	if err != nil {
		return nil, err
	}
	strategy, err := tsp.NewStrategy(kind, c.SolverOptions())
	if err != nil {
		return nil, err
	}
	partition, err := round.ParsePartition(c.Partition)
	if err != nil {
		return nil, err
	}
	timing, err := c.Timing()
	if err != nil {
		return nil, err
	}

	a := round.NewAssembler(strategy)
	a.Partition = partition
	a.Timing = timing
	a.MaxParallel = c.MaxParallel

	return a, nil
}
