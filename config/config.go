// Package config loads forcegraph settings from TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/TFMV/forcegraph/anim"
	"github.com/TFMV/forcegraph/colors"
	"github.com/TFMV/forcegraph/editor"
	"github.com/TFMV/forcegraph/geom"
	"github.com/TFMV/forcegraph/physics"
	"github.com/go-playground/validator/v10"
)

// ErrInvalid is returned when a configuration fails validation
var ErrInvalid = errors.New("invalid configuration")

// FileName is the name of the config file inside ConfigDir
const FileName = "config.toml"

// Config holds forcegraph configuration.
type Config struct {
	Physics    physics.Config   `toml:"physics" validate:"required"`
	Animation  AnimationConfig  `toml:"animation"`
	Simulation SimulationConfig `toml:"simulation"`
	Server     ServerConfig     `toml:"server"`
	Palette    PaletteConfig    `toml:"palette"`
	Log        LogConfig        `toml:"log"`
}

// AnimationConfig controls colour transitions.
type AnimationConfig struct {
	Duration Duration `toml:"duration"`
	Curve    string   `toml:"curve" validate:"curve"`
}

// SimulationConfig controls ticking.
type SimulationConfig struct {
	TickRate int `toml:"tick_rate" validate:"gte=1,lte=1000"` // ticks per second
	Ticks    int `toml:"ticks" validate:"gte=1"`              // ticks of a batch layout
	Width    int `toml:"width" validate:"gte=1"`
	Height   int `toml:"height" validate:"gte=1"`
}

// ServerConfig controls the live simulation service.
type ServerConfig struct {
	Address   string  `toml:"address" validate:"required"`
	StreamFPS float64 `toml:"stream_fps" validate:"gt=0,lte=120"`
}

// PaletteConfig selects the colour theme.
type PaletteConfig struct {
	Name string `toml:"name" validate:"oneof=light dark"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

// Duration is a time.Duration written as "250ms" in TOML
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Physics:    physics.DefaultConfig(),
		Animation:  AnimationConfig{Duration: Duration{250 * time.Millisecond}, Curve: "linear"},
		Simulation: SimulationConfig{TickRate: 60, Ticks: 500, Width: 800, Height: 600},
		Server:     ServerConfig{Address: ":8080", StreamFPS: 20},
		Palette:    PaletteConfig{Name: "light"},
		Log:        LogConfig{Level: "info"},
	}
}

// ConfigDir returns the forcegraph config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "forcegraph")
}

// DefaultPath is where Load looks when no path is given
func DefaultPath() string {
	return filepath.Join(ConfigDir(), FileName)
}

// Load reads the config file at path over the defaults. An empty path reads
// DefaultPath, and a missing default file yields the defaults; a missing
// explicit file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("curve", func(fl validator.FieldLevel) bool {
		_, err := anim.CurveByName(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks every field against its constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Animation.Duration.Duration < 0 {
		return fmt.Errorf("%w: negative animation duration %s", ErrInvalid, c.Animation.Duration)
	}
	return nil
}

// TickInterval is the time between two simulation ticks
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Simulation.TickRate)
}

// EditorOptions converts the config into options for a new editor
func (c *Config) EditorOptions() (editor.Options, error) {
	palette, err := colors.PaletteByName(c.Palette.Name)
	if err != nil {
		return editor.Options{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	curve, err := anim.CurveByName(c.Animation.Curve)
	if err != nil {
		return editor.Options{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	opts := editor.DefaultOptions()
	opts.Physics = c.Physics
	opts.Palette = palette
	opts.Duration = c.Animation.Duration.Duration
	opts.Curve = curve
	opts.TickInterval = c.TickInterval()
	opts.Viewport = geom.Vec(float64(c.Simulation.Width), float64(c.Simulation.Height))
	return opts, nil
}
