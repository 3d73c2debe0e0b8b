// Package config resolves server settings from defaults, an optional TOML
// file, and REFINERY_* environment variables, in ascending precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/lumonlabs/refinery/internal/adapters/render/board"
	"github.com/lumonlabs/refinery/internal/application"
)

const envPrefix = "REFINERY"

// Load builds Settings. An empty path skips the config file; a named file
// that is missing is an error.
func Load(path string) (application.Settings, error) {
	d := application.DefaultSettings()

	v := viper.New()
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("host_key", d.HostKeyPath)
	v.SetDefault("metrics_addr", d.MetricsAddr)
	v.SetDefault("max_sessions", d.MaxSessions)
	v.SetDefault("containers", d.Containers)
	v.SetDefault("capacity", d.Capacity)
	v.SetDefault("batch_size", d.BatchSize)
	v.SetDefault("tick", d.Tick)
	v.SetDefault("theme_file", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return application.Settings{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := application.Settings{
		ListenAddr:  v.GetString("listen_addr"),
		HostKeyPath: v.GetString("host_key"),
		MetricsAddr: v.GetString("metrics_addr"),
		MaxSessions: v.GetInt("max_sessions"),
		Containers:  v.GetInt("containers"),
		Capacity:    v.GetInt("capacity"),
		BatchSize:   v.GetInt("batch_size"),
		Tick:        v.GetDuration("tick"),
		Theme:       d.Theme,
	}

	if themePath := v.GetString("theme_file"); themePath != "" {
		theme, err := LoadTheme(themePath)
		if err != nil {
			return application.Settings{}, err
		}
		cfg.Theme = theme
	}

	if err := cfg.Validate(); err != nil {
		return application.Settings{}, err
	}
	return cfg, nil
}

// LoadTheme reads a palette override file. Unset colors keep the stock
// palette.
func LoadTheme(path string) (board.Theme, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return board.Theme{}, fmt.Errorf("read theme %s: %w", path, err)
	}
	theme := board.DefaultTheme()
	if err := toml.Unmarshal(raw, &theme); err != nil {
		return board.Theme{}, fmt.Errorf("parse theme %s: %w", path, err)
	}
	return theme, nil
}
