// Package config loads the settings of the spring demo and console.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/motion/internal/core/observability/log"
	"github.com/zeusync/motion/internal/core/spring"
	"github.com/zeusync/motion/internal/core/transition"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config describes one animated transition and the process around it.
type Config struct {
	FrameRate int       `json:"frame_rate" yaml:"frame_rate"`
	LogLevel  log.Level `json:"log_level" yaml:"log_level"`

	Spring  SpringConfig  `json:"spring" yaml:"spring"`
	Console ConsoleConfig `json:"console" yaml:"console"`
}

// SpringConfig holds the transition destinations and spring parameters.
type SpringConfig struct {
	Direction transition.Direction `json:"direction" yaml:"direction"`
	Back      float64              `json:"back" yaml:"back"`
	Fore      float64              `json:"fore" yaml:"fore"`
	Tension   float64              `json:"tension" yaml:"tension"`
	Friction  float64              `json:"friction" yaml:"friction"`
	Threshold float64              `json:"threshold" yaml:"threshold"`
}

// ConsoleConfig configures the websocket tuning console.
type ConsoleConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Addr    string `json:"addr" yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		FrameRate: 60,
		LogLevel:  log.LevelInfo,
		Spring: SpringConfig{
			Direction: transition.Forward,
			Back:      0,
			Fore:      1,
			Tension:   spring.DefaultTension,
			Friction:  spring.DefaultFriction,
			Threshold: transition.DefaultThreshold,
		},
		Console: ConsoleConfig{
			Enabled: true,
			Addr:    "127.0.0.1:8090",
		},
	}
}

// Load reads YAML from r on top of Default and validates the result.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile is Load for a file path.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Validate rejects settings the demo cannot run with. Degenerate spring
// parameters are accepted: the spring defines how it behaves with them.
func (c Config) Validate() error {
	if c.FrameRate <= 0 || c.FrameRate > 1000 {
		return fmt.Errorf("%w: frame_rate %d out of range (1..1000)", ErrInvalidConfig, c.FrameRate)
	}
	if c.Spring.Threshold <= 0 {
		return fmt.Errorf("%w: threshold must be positive", ErrInvalidConfig)
	}
	if c.Console.Enabled && c.Console.Addr == "" {
		return fmt.Errorf("%w: console addr is required when the console is enabled", ErrInvalidConfig)
	}
	return nil
}
