package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

func init() {
	// macOS Metal nextDrawable 실패 우회: 미리보기 창(Ebiten)이 로드되기 전에 OpenGL 지정
	if os.Getenv("EBITENGINE_GRAPHICS_LIBRARY") == "" {
		os.Setenv("EBITENGINE_GRAPHICS_LIBRARY", "opengl")
	}
}

// Viewer modes.
const (
	ViewerSystem  = "system"
	ViewerBuiltin = "builtin"
	ViewerNone    = "none"
)

// Config is the application configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
	Viewer   ViewerConfig   `yaml:"viewer"`
	Settings SettingsConfig `yaml:"settings"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"HEICCONV_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"HEICCONV_LOG_FORMAT" env-default:"text"`
}

// ServerConfig holds local web API settings.
type ServerConfig struct {
	Port int `yaml:"port" env:"HEICCONV_PORT" env-default:"8765"`
}

// ViewerConfig selects how the first converted file is opened.
type ViewerConfig struct {
	Mode string `yaml:"mode" env:"HEICCONV_VIEWER" env-default:"system"`
}

// SettingsConfig points at the user settings INI file.
type SettingsConfig struct {
	Path string `yaml:"path" env:"HEICCONV_SETTINGS" env-default:"config.ini"`
}

// Dir returns the OS-specific config directory (e.g. ~/.config/heicconv).
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "heicconv"), nil
}

// Path returns the config.yaml location; HEICCONV_CONFIG overrides it.
func Path() (string, error) {
	if p := os.Getenv("HEICCONV_CONFIG"); p != "" {
		return p, nil
	}
	d, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.yaml"), nil
}

// Load reads config.yaml, or falls back to environment and defaults if it is missing.
func Load() (*Config, error) {
	p, err := Path()
	if err != nil {
		return nil, err
	}
	var c Config
	if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(&c); err != nil {
			return nil, fmt.Errorf("config env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(p, &c); err != nil {
		return nil, fmt.Errorf("config %s: %w", p, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch c.Viewer.Mode {
	case ViewerSystem, ViewerBuiltin, ViewerNone:
	default:
		return fmt.Errorf("invalid viewer mode %q (want system, builtin or none)", c.Viewer.Mode)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// Save writes config to config.yaml.
func Save(c *Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0644)
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Log:      LogConfig{Level: "info", Format: "text"},
		Server:   ServerConfig{Port: 8765},
		Viewer:   ViewerConfig{Mode: ViewerSystem},
		Settings: SettingsConfig{Path: "config.ini"},
	}
}
