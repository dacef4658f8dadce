package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/xyproto/randomstring"
	"gopkg.in/yaml.v3"
)

const (
	DEFAULT_FLOOR_COUNT          = 5
	DEFAULT_CAR_COUNT            = 2
	DEFAULT_PER_FLOOR_TRAVEL_MS  = 2000
	DEFAULT_DOOR_DWELL_MS        = 2500
	DEFAULT_DOOR_CLOSE_SETTLE_MS = 500
	DEFAULT_HEARTBEAT_MS         = 500
	DEFAULT_PEER_TIMEOUT_MS      = 3000
	NAME_DEFAULT_LEN             = 8
)

var DEFAULT_LISTEN_ADDR string = ":14272"

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Name              string `yaml:"name"`
	FloorCount        int    `yaml:"floorCount"`
	CarCount          int    `yaml:"carCount"`
	PerFloorTravelMs  int64  `yaml:"perFloorTravelMs"`
	DoorDwellMs       int64  `yaml:"doorDwellMs"`
	DoorCloseSettleMs int64  `yaml:"doorCloseSettleMs"`
	ListenAddr        string `yaml:"listenAddr"`
	HeartbeatMs       int64  `yaml:"heartbeatMs"`
	PeerTimeoutMs     int64  `yaml:"peerTimeoutMs"`
	LogLevel          string `yaml:"logLevel"`
}

func Default() Config {
	return Config{
		FloorCount:        DEFAULT_FLOOR_COUNT,
		CarCount:          DEFAULT_CAR_COUNT,
		PerFloorTravelMs:  DEFAULT_PER_FLOOR_TRAVEL_MS,
		DoorDwellMs:       DEFAULT_DOOR_DWELL_MS,
		DoorCloseSettleMs: DEFAULT_DOOR_CLOSE_SETTLE_MS,
		ListenAddr:        DEFAULT_LISTEN_ADDR,
		HeartbeatMs:       DEFAULT_HEARTBEAT_MS,
		PeerTimeoutMs:     DEFAULT_PEER_TIMEOUT_MS,
		LogLevel:          "info",
	}
}

func (c Config) PerFloorTravel() time.Duration {
	return time.Duration(c.PerFloorTravelMs) * time.Millisecond
}

func (c Config) DoorDwell() time.Duration {
	return time.Duration(c.DoorDwellMs) * time.Millisecond
}

func (c Config) DoorCloseSettle() time.Duration {
	return time.Duration(c.DoorCloseSettleMs) * time.Millisecond
}

func (c Config) Heartbeat() time.Duration {
	return time.Duration(c.HeartbeatMs) * time.Millisecond
}

func (c Config) PeerTimeout() time.Duration {
	return time.Duration(c.PeerTimeoutMs) * time.Millisecond
}

// WithBuilding returns a copy sized for a regenerated building.
func (c Config) WithBuilding(floors, cars int) Config {
	c.FloorCount = floors
	c.CarCount = cars
	return c
}

func (c Config) Validate() error {
	if c.FloorCount < 2 {
		return errors.Wrapf(ErrInvalidConfig, "floorCount must be at least 2, got %d", c.FloorCount)
	}
	if c.CarCount < 1 {
		return errors.Wrapf(ErrInvalidConfig, "carCount must be at least 1, got %d", c.CarCount)
	}
	durations := []struct {
		name string
		ms   int64
	}{
		{"perFloorTravelMs", c.PerFloorTravelMs},
		{"doorDwellMs", c.DoorDwellMs},
		{"doorCloseSettleMs", c.DoorCloseSettleMs},
		{"heartbeatMs", c.HeartbeatMs},
		{"peerTimeoutMs", c.PeerTimeoutMs},
	}
	for _, d := range durations {
		if d.ms <= 0 {
			return errors.Wrapf(ErrInvalidConfig, "%s must be positive, got %d", d.name, d.ms)
		}
	}
	return nil
}

// Load reads a YAML file over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "open config %s", path)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "decode config %s", path)
	}
	return cfg, nil
}

// Environment keys understood by ApplyEnv.
const (
	ENV_NAME            = "LIFTSIM_NAME"
	ENV_FLOORS          = "LIFTSIM_FLOORS"
	ENV_CARS            = "LIFTSIM_CARS"
	ENV_PER_FLOOR_MS    = "LIFTSIM_PER_FLOOR_TRAVEL_MS"
	ENV_DOOR_DWELL_MS   = "LIFTSIM_DOOR_DWELL_MS"
	ENV_DOOR_SETTLE_MS  = "LIFTSIM_DOOR_CLOSE_SETTLE_MS"
	ENV_LISTEN_ADDR     = "LIFTSIM_LISTEN_ADDR"
	ENV_HEARTBEAT_MS    = "LIFTSIM_HEARTBEAT_MS"
	ENV_PEER_TIMEOUT_MS = "LIFTSIM_PEER_TIMEOUT_MS"
	ENV_LOG_LEVEL       = "LIFTSIM_LOG_LEVEL"
)

// ApplyEnvFile overlays a dotenv file and then the process environment.
// A missing file is not an error.
func (c *Config) ApplyEnvFile(path string) error {
	vars := map[string]string{}
	if path != "" {
		fileVars, err := godotenv.Read(path)
		if err != nil && !os.IsNotExist(errors.Cause(err)) {
			return errors.Wrapf(err, "read env file %s", path)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}
	for _, key := range []string{ENV_NAME, ENV_FLOORS, ENV_CARS, ENV_PER_FLOOR_MS, ENV_DOOR_DWELL_MS,
		ENV_DOOR_SETTLE_MS, ENV_LISTEN_ADDR, ENV_HEARTBEAT_MS, ENV_PEER_TIMEOUT_MS, ENV_LOG_LEVEL} {
		if v, ok := os.LookupEnv(key); ok {
			vars[key] = v
		}
	}
	return c.ApplyEnv(vars)
}

func (c *Config) ApplyEnv(vars map[string]string) error {
	ints := map[string]*int{
		ENV_FLOORS: &c.FloorCount,
		ENV_CARS:   &c.CarCount,
	}
	for key, dst := range ints {
		if v, ok := vars[key]; ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrapf(ErrInvalidConfig, "%s=%q is not an integer", key, v)
			}
			*dst = n
		}
	}
	millis := map[string]*int64{
		ENV_PER_FLOOR_MS:    &c.PerFloorTravelMs,
		ENV_DOOR_DWELL_MS:   &c.DoorDwellMs,
		ENV_DOOR_SETTLE_MS:  &c.DoorCloseSettleMs,
		ENV_HEARTBEAT_MS:    &c.HeartbeatMs,
		ENV_PEER_TIMEOUT_MS: &c.PeerTimeoutMs,
	}
	for key, dst := range millis {
		if v, ok := vars[key]; ok {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return errors.Wrapf(ErrInvalidConfig, "%s=%q is not an integer", key, v)
			}
			*dst = n
		}
	}
	if v, ok := vars[ENV_NAME]; ok {
		c.Name = v
	}
	if v, ok := vars[ENV_LISTEN_ADDR]; ok {
		c.ListenAddr = v
	}
	if v, ok := vars[ENV_LOG_LEVEL]; ok {
		c.LogLevel = v
	}
	return nil
}

// EnsureName fills an empty building name with a random one.
func (c *Config) EnsureName() bool {
	if c.Name != "" {
		return false
	}
	c.Name = randomstring.EnglishFrequencyString(NAME_DEFAULT_LEN)
	return true
}
