package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port           int      `mapstructure:"port"`
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"server"`
	Database struct {
		Driver string `mapstructure:"driver"`
		URL    string `mapstructure:"url"`
	} `mapstructure:"database"`
	API struct {
		// LegacyStatusCodes answers validation failures with 500 like the
		// service this API replaces did.
		LegacyStatusCodes bool `mapstructure:"legacy_status_codes"`
	} `mapstructure:"api"`
	Log struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"log"`
	Metrics struct {
		Enabled bool   `mapstructure:"enabled"`
		Addr    string `mapstructure:"addr"`
	} `mapstructure:"metrics"`
}

// LoadConfig reads config.yaml from the working directory or ./config when
// present. Every key can be overridden with a BLOG_ prefixed variable, for
// example BLOG_DATABASE_URL.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.url", "./data/blog.db")
	v.SetDefault("api.legacy_status_codes", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.addr", ":9999")

	v.SetEnvPrefix("blog")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &config, nil
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
