package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env        string     `mapstructure:"env"`
	HTTPServer HTTPServer `mapstructure:"http_server"`
	Storage    Storage    `mapstructure:"storage"`
	Auth       Auth       `mapstructure:"auth"`
}

type HTTPServer struct {
	Address     string        `mapstructure:"address"`
	Timeout     time.Duration `mapstructure:"timeout"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

type Storage struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type Auth struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

// Load reads the YAML config at path (optional; defaults apply when the
// file is absent) with YANOTE_* environment variables taking precedence,
// e.g. YANOTE_STORAGE_DSN, YANOTE_AUTH_SECRET.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	v := viper.New()
	v.SetDefault("env", "local")
	v.SetDefault("http_server.address", "localhost:8080")
	v.SetDefault("http_server.timeout", 4*time.Second)
	v.SetDefault("http_server.idle_timeout", 60*time.Second)
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.dsn", "ya-note.db")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("YANOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%s: read config: %w", op, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%s: unmarshal: %w", op, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case "local", "dev", "prod":
	default:
		return fmt.Errorf("unknown env %q", c.Env)
	}
	switch c.Storage.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.DSN == "" {
		return errors.New("storage.dsn is required")
	}
	if c.Env != "local" && c.Auth.Secret == "" {
		return errors.New("auth.secret is required outside local env")
	}
	return nil
}
