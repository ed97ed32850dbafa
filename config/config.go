// Package config loads the alarm clock settings from a YAML file, the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"time"

	"bsid.es/despertador"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when Load is given an empty path. It is fine for it
// not to exist.
const DefaultPath = "despertador.yaml"

type Config struct {
	Tones   Tones   `yaml:"tones"`
	Snooze  int     `yaml:"snooze"` // minutes
	Player  Player  `yaml:"player"`
	History string  `yaml:"history"`
	Notify  bool    `yaml:"notify"`
	Log     Logging `yaml:"log"`
}

type Tones struct {
	Dir     string   `yaml:"dir"`
	Names   []string `yaml:"names"`
	Default string   `yaml:"default"`
}

type Player struct {
	// Command plays a file once. The file path replaces {file}, or is
	// appended when there is no placeholder. Empty means autodetect.
	Command []string `yaml:"command"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Tones: Tones{
			Dir:     despertador.DefaultToneDir,
			Names:   slices.Clone(despertador.DefaultTones),
			Default: despertador.DefaultTones[0],
		},
		Snooze: int(despertador.DefaultSnooze / time.Minute),
		Notify: true,
		Log: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the configuration at path on top of the defaults. An empty
// path means DefaultPath, which may be missing; any other path must exist.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		// The default tone is picked from the file's tone list unless named.
		cfg.Tones.Default = ""
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DESPERTADOR_TONES_DIR"); v != "" {
		c.Tones.Dir = v
	}
	if v := os.Getenv("DESPERTADOR_HISTORY"); v != "" {
		c.History = v
	}
	if v := os.Getenv("DESPERTADOR_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DESPERTADOR_SNOOZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DESPERTADOR_SNOOZE: %w", err)
		}
		c.Snooze = n
	}
	return nil
}

func (c *Config) fillDefaults() {
	if c.Tones.Dir == "" {
		c.Tones.Dir = despertador.DefaultToneDir
	}
	if len(c.Tones.Names) == 0 {
		c.Tones.Names = slices.Clone(despertador.DefaultTones)
	}
	if c.Tones.Default == "" {
		c.Tones.Default = c.Tones.Names[0]
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

func (c *Config) Validate() error {
	lo, hi := int(despertador.MinSnooze/time.Minute), int(despertador.MaxSnooze/time.Minute)
	switch {
	case c.Snooze < lo || c.Snooze > hi:
		return fmt.Errorf("snooze must be between %d and %d minutes, got %d", lo, hi, c.Snooze)
	case !slices.Contains(c.Tones.Names, c.Tones.Default):
		return fmt.Errorf("default tone %q is not in the tone list", c.Tones.Default)
	case c.Log.Format != "console" && c.Log.Format != "json":
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// SnoozeDuration returns Snooze as a duration.
func (c *Config) SnoozeDuration() time.Duration {
	return time.Duration(c.Snooze) * time.Minute
}

// ToneLibrary builds the tone library described by the configuration.
func (c *Config) ToneLibrary() *despertador.ToneLibrary {
	return despertador.NewToneLibrary(c.Tones.Dir, c.Tones.Names...)
}
