package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"bucketkit/core/logger"
	"bucketkit/core/server"
	"bucketkit/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileName is the optional config file looked up next to .env.
const FileName = "bucketkit"

// Config holds all configuration for the application.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage connection (S3 or compatible).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger and the storage log sink.
	Log logger.Config `mapstructure:"log"`
}

// LoadConfig loads configuration from, in increasing priority: struct tag
// defaults, an optional bucketkit.{yaml,json,toml} in dir, a .env file in dir,
// and the process environment.
func LoadConfig(dir string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()
	registerDefaults(v, reflect.TypeOf(Config{}), "")

	v.SetConfigName(FileName)
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// storage.region -> STORAGE_REGION
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the storage SDK would otherwise reject late or silently.
func (c *Config) Validate() error {
	if c.Storage.Endpoint == "" {
		return errors.New("storage.endpoint must not be empty")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// registerDefaults walks the struct's mapstructure tags and registers each
// leaf key with its `default` tag. Every key is registered, even with an empty
// default, because AutomaticEnv only overrides keys Viper already knows.
func registerDefaults(v *viper.Viper, t reflect.Type, prefix string) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			registerDefaults(v, field.Type, key)
			continue
		}
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
