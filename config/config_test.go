package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should be valid, got %v", err)
	}
	if cfg.PerFloorTravel() != 2*time.Second || cfg.DoorDwell() != 2500*time.Millisecond || cfg.DoorCloseSettle() != 500*time.Millisecond {
		t.Errorf("Unexpected default timings %v %v %v", cfg.PerFloorTravel(), cfg.DoorDwell(), cfg.DoorCloseSettle())
	}
}

func TestValidateRejectsBadBuildings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"one floor", func(c *Config) { c.FloorCount = 1 }},
		{"no cars", func(c *Config) { c.CarCount = 0 }},
		{"zero travel", func(c *Config) { c.PerFloorTravelMs = 0 }},
		{"negative dwell", func(c *Config) { c.DoorDwellMs = -1 }},
		{"zero settle", func(c *Config) { c.DoorCloseSettleMs = 0 }},
	}
	for _, tc := range tests {
		cfg := Default()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tc.name, err)
		}
	}
}

func TestValidateReportsFirstBadDuration(t *testing.T) {
	cfg := Default()
	cfg.DoorDwellMs = 0
	cfg.HeartbeatMs = -1
	cfg.PeerTimeoutMs = 0

	for i := 0; i < 20; i++ {
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "doorDwellMs") {
			t.Fatalf("Run %d: expected doorDwellMs to be reported first, got %v", i, err)
		}
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "liftsim.yaml", "name: tower\nfloorCount: 12\ncarCount: 4\ndoorDwellMs: 1000\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != "tower" || cfg.FloorCount != 12 || cfg.CarCount != 4 || cfg.DoorDwellMs != 1000 {
		t.Errorf("YAML values not applied: %+v", cfg)
	}
	if cfg.PerFloorTravelMs != DEFAULT_PER_FLOOR_TRAVEL_MS {
		t.Errorf("Unset keys should keep defaults, got %d", cfg.PerFloorTravelMs)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Errorf("Expected error for a missing config file")
	}
	cfg, err := Load("")
	if err != nil || cfg != Default() {
		t.Errorf("Empty path should yield defaults, got %+v, %v", cfg, err)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(map[string]string{
		ENV_FLOORS:         "8",
		ENV_CARS:           "3",
		ENV_DOOR_SETTLE_MS: "250",
		ENV_LISTEN_ADDR:    "127.0.0.1:9000",
		ENV_LOG_LEVEL:      "debug",
	})
	if err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.FloorCount != 8 || cfg.CarCount != 3 || cfg.DoorCloseSettleMs != 250 || cfg.ListenAddr != "127.0.0.1:9000" || cfg.LogLevel != "debug" {
		t.Errorf("Env values not applied: %+v", cfg)
	}

	if err := cfg.ApplyEnv(map[string]string{ENV_CARS: "many"}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for a non-numeric value, got %v", err)
	}
}

func TestApplyEnvFileThenProcessEnv(t *testing.T) {
	path := writeFile(t, ".env", "LIFTSIM_FLOORS=6\nLIFTSIM_CARS=2\n")
	t.Setenv(ENV_CARS, "5")

	cfg := Default()
	if err := cfg.ApplyEnvFile(path); err != nil {
		t.Fatalf("ApplyEnvFile failed: %v", err)
	}
	if cfg.FloorCount != 6 {
		t.Errorf("Expected floors from the env file, got %d", cfg.FloorCount)
	}
	if cfg.CarCount != 5 {
		t.Errorf("Process environment should win over the env file, got %d", cfg.CarCount)
	}

	if err := cfg.ApplyEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("A missing env file should be ignored, got %v", err)
	}
}

func TestEnsureName(t *testing.T) {
	cfg := Default()
	if !cfg.EnsureName() || len(cfg.Name) != NAME_DEFAULT_LEN {
		t.Errorf("Expected a generated name of length %d, got %q", NAME_DEFAULT_LEN, cfg.Name)
	}
	name := cfg.Name
	if cfg.EnsureName() || cfg.Name != name {
		t.Errorf("An existing name must be kept")
	}
}

func TestWithBuilding(t *testing.T) {
	cfg := Default().WithBuilding(10, 3)
	if cfg.FloorCount != 10 || cfg.CarCount != 3 || cfg.DoorDwellMs != DEFAULT_DOOR_DWELL_MS {
		t.Errorf("Unexpected config %+v", cfg)
	}
}
