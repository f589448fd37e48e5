package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/anima-hapi/engine/core"
)

type ApplicationConfig struct {
	// The application name, also used for the scene.
	Name     string
	LogLevel core.LogLevel

	Assets     AssetsConfig
	Instancing InstancingConfig
}

type AssetsConfig struct {
	// Directory holding the asset fixtures.
	Dir string `toml:"dir"`
	// Watch re-instances an asset whenever its fixture changes.
	Watch         bool `toml:"watch"`
	EnableLogging bool `toml:"enable_logging"`
	// Load lists the fixtures loaded at start, relative to Dir. Every
	// fixture found is loaded when empty.
	Load []string `toml:"load"`
}

type InstancingConfig struct {
	MaxInstancers  uint16 `toml:"max_instancers"`
	ProgressEvents bool   `toml:"progress_events"`
}

type applicationFile struct {
	Application struct {
		Name     string `toml:"name"`
		LogLevel string `toml:"log_level"`
	} `toml:"application"`
	Assets     AssetsConfig     `toml:"assets"`
	Instancing InstancingConfig `toml:"instancing"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:     "anima-hapi",
		LogLevel: core.InfoLevel,
		Assets: AssetsConfig{
			Dir: "assets",
		},
		Instancing: InstancingConfig{
			MaxInstancers: 64,
		},
	}
}

// ParseApplicationConfig decodes a TOML configuration on top of the defaults.
func ParseApplicationConfig(data []byte) (*ApplicationConfig, error) {
	def := DefaultApplicationConfig()
	file := applicationFile{
		Assets:     def.Assets,
		Instancing: def.Instancing,
	}
	file.Application.Name = def.Name

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	level, err := core.ParseLogLevel(file.Application.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: log_level: %w", err)
	}
	cfg := &ApplicationConfig{
		Name:       file.Application.Name,
		LogLevel:   level,
		Assets:     file.Assets,
		Instancing: file.Instancing,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadApplicationConfig reads the configuration at path. A missing file
// yields the defaults.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		core.LogDebug("no configuration at %s, using defaults", path)
		return DefaultApplicationConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := ParseApplicationConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *ApplicationConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config: application name is required")
	}
	if c.Assets.Dir == "" {
		return fmt.Errorf("config: assets dir is required")
	}
	if c.Instancing.MaxInstancers == 0 {
		return fmt.Errorf("config: instancing max_instancers must be > 0")
	}
	return nil
}
