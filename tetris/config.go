package tetris

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the constants of a session. Zero values are not defaults;
// start from DefaultConfig.
type Config struct {
	Height      int `yaml:"height"`
	Width       int `yaml:"width"`
	TargetLines int `yaml:"target_lines"`

	// Gravity interval = max(MinInterval, BaseInterval - (lines/LinesPerStep)*IntervalStep).
	BaseInterval time.Duration `yaml:"base_interval"`
	MinInterval  time.Duration `yaml:"min_interval"`
	IntervalStep time.Duration `yaml:"interval_step"`
	LinesPerStep int           `yaml:"lines_per_step"`

	// ScoreTable maps rows cleared by a single lock to points.
	ScoreTable map[int]int `yaml:"score_table"`
}

func DefaultConfig() Config {
	return Config{
		Height:       20,
		Width:        10,
		TargetLines:  7,
		BaseInterval: 800 * time.Millisecond,
		MinInterval:  100 * time.Millisecond,
		IntervalStep: 60 * time.Millisecond,
		LinesPerStep: 10,
		ScoreTable:   map[int]int{1: 100, 2: 300, 3: 500, 4: 800},
	}
}

// Validate rejects configurations a session can't run with.
func (c Config) Validate() error {
	switch {
	case c.Height <= maxBoxSize:
		return fmt.Errorf("%w: height must be greater than %d, got %d", ErrInvalidConfig, maxBoxSize, c.Height)
	case c.Width <= maxBoxSize:
		return fmt.Errorf("%w: width must be greater than %d, got %d", ErrInvalidConfig, maxBoxSize, c.Width)
	case c.TargetLines <= 0:
		return fmt.Errorf("%w: target_lines must be positive, got %d", ErrInvalidConfig, c.TargetLines)
	case c.BaseInterval <= 0:
		return fmt.Errorf("%w: base_interval must be positive, got %s", ErrInvalidConfig, c.BaseInterval)
	case c.MinInterval <= 0 || c.MinInterval > c.BaseInterval:
		return fmt.Errorf("%w: min_interval must be in (0, %s], got %s", ErrInvalidConfig, c.BaseInterval, c.MinInterval)
	case c.IntervalStep < 0:
		return fmt.Errorf("%w: interval_step can't be negative, got %s", ErrInvalidConfig, c.IntervalStep)
	case c.LinesPerStep <= 0:
		return fmt.Errorf("%w: lines_per_step must be positive, got %d", ErrInvalidConfig, c.LinesPerStep)
	}
	for rows, points := range c.ScoreTable {
		if rows < 1 || rows > maxBoxSize {
			return fmt.Errorf("%w: score_table key must be between 1 and %d, got %d", ErrInvalidConfig, maxBoxSize, rows)
		}
		if points < 0 {
			return fmt.Errorf("%w: score_table[%d] can't be negative, got %d", ErrInvalidConfig, rows, points)
		}
	}
	return nil
}

// interval returns the gravity interval after lines cleared lines.
func (c Config) interval(lines int) time.Duration {
	steps := lines / c.LinesPerStep
	return max(c.MinInterval, c.BaseInterval-time.Duration(steps)*c.IntervalStep)
}

// ReadConfig decodes YAML on top of DefaultConfig and validates the result.
func ReadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML config file. See ReadConfig.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()
	return ReadConfig(f)
}
