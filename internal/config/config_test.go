package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/courierround/internal/config"
	"github.com/katalvlaran/courierround/round"
	"github.com/katalvlaran/courierround/tsp"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "exact", cfg.SolverStrategy)
	assert.Equal(t, 20*time.Second, cfg.SolverTimeLimit)
	assert.Equal(t, "contiguous", cfg.Partition)

	tm, err := cfg.Timing()
	require.NoError(t, err)
	def := round.DefaultTiming()
	assert.Equal(t, def.SpeedKmh, tm.SpeedKmh)
	assert.Equal(t, def.Service, tm.Service)
	assert.Equal(t, def.DayStart, tm.DayStart)
	assert.Equal(t, def.Workday, tm.Workday)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "solver_strategy: heuristic\nday_start: \"07:30\"\nserver_port: \"9000\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("SOLVER_TIME_LIMIT", "3s")
	t.Setenv("PARTITION", "kmeans")

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.ServerPort)
	assert.Equal(t, "heuristic", cfg.SolverStrategy)
	assert.Equal(t, 3*time.Second, cfg.SolverTimeLimit)

	tm, err := cfg.Timing()
	require.NoError(t, err)
	assert.Equal(t, 7*time.Hour+30*time.Minute, tm.DayStart)

	a, err := cfg.Assembler()
	require.NoError(t, err)
	assert.Equal(t, string(tsp.KindHeuristic), a.Strategy.Name())
	assert.Equal(t, "kmeans", a.Partition.Name())
	assert.Equal(t, 3*time.Second, cfg.SolverOptions().TimeLimit)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("COURIER_SPEED_KMH=20\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("COURIER_SPEED_KMH") })

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 20.0, cfg.CourierSpeedKmh)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"driver":   {"DB_DRIVER", "mysql"},
		"strategy": {"SOLVER_STRATEGY", "genetic"},
		"speed":    {"COURIER_SPEED_KMH", "-1"},
		"port":     {"SERVER_PORT", "http"},
		"start":    {"DAY_START", "8h"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := config.Load(t.TempDir())
			assert.Error(t, err)
		})
	}
}
