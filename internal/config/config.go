// Package config provides configuration utilities for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/abekenov/product-advisor/internal/common"
)

// Config is the application configuration. It is built exactly once at
// startup from viper (config file, environment, flags) and treated as
// immutable afterwards; nothing reads viper after this point.
type Config struct {
	Data     DataConfig
	Database DatabaseConfig
	Output   OutputConfig
	Engine   EngineConfig
	Server   ServerConfig
	Notify   NotifyConfig
}

// DataConfig locates the CSV ledger exports.
type DataConfig struct {
	Dir string
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string
}

// OutputConfig controls the recommendations CSV export.
type OutputConfig struct {
	Path string
}

// EngineConfig tunes the batch run.
type EngineConfig struct {
	Workers int
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string
}

// NotifyConfig configures notification-text generation.
type NotifyConfig struct {
	Provider string
	APIKey   string
	APIURL   string
	Model    string
}

// FromViper assembles the Config from the current viper state and validates it.
func FromViper() (*Config, error) {
	cfg := &Config{
		Data: DataConfig{
			Dir: ExpandPath(viper.GetString("data.dir")),
		},
		Database: DatabaseConfig{
			Path: ExpandPath(viper.GetString("database.path")),
		},
		Output: OutputConfig{
			Path: ExpandPath(viper.GetString("output.path")),
		},
		Engine: EngineConfig{
			Workers: viper.GetInt("engine.workers"),
		},
		Server: ServerConfig{
			Addr: viper.GetString("server.addr"),
		},
		Notify: NotifyConfig{
			Provider: viper.GetString("notify.provider"),
			APIKey:   viper.GetString("notify.api_key"),
			APIURL:   viper.GetString("notify.api_url"),
			Model:    viper.GetString("notify.model"),
		},
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Data.Dir == "" {
		c.Data.Dir = "case1"
	}
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join("out", "advisor.db")
	}
	if c.Output.Path == "" {
		c.Output.Path = filepath.Join("out", "recommendations.csv")
	}
	if c.Engine.Workers <= 0 {
		c.Engine.Workers = 4
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Notify.Provider == "" {
		c.Notify.Provider = "template"
	}
}

func (c *Config) validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("%w: data.dir", common.ErrMissingConfig)
	}
	if c.Notify.Provider == "gemini" && c.Notify.APIKey == "" {
		return fmt.Errorf("%w: notify.api_key is required for the gemini provider", common.ErrInvalidConfig)
	}
	return nil
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
