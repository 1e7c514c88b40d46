package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"mongodb.url":        "MONGODB_URL",
	"mongodb.database":   "MONGODB_DATABASE",
	"mongodb.collection": "MONGODB_COLLECTION",
	"devdb.image":        "TODO_DEVDB_IMAGE",
	"devdb.port":         "TODO_DEVDB_PORT",
	"devdb.volume":       "TODO_DEVDB_VOLUME",
	"devdb.network":      "TODO_DEVDB_NETWORK",
	"backup.bucket":      "TODO_BACKUP_BUCKET",
	"backup.prefix":      "TODO_BACKUP_PREFIX",
}

var defaults = map[string]string{
	"devdb.image":   "mongo:7.0",
	"devdb.port":    "27017:27017",
	"devdb.volume":  "todo-mongo-data:/data/db",
	"devdb.network": "todo-dev",
	"backup.prefix": "todos/",
}

// EnvName returns the environment variable bound to key, or "" if none is.
func EnvName(key string) string {
	return envBindings[key]
}

// Load reads the configuration from the environment and, when filename is not
// empty, from that YAML file. Environment variables win over the file.
// It returns an error naming the first missing required variable.
func Load(filename string) (*Config, error) {
	v := viper.New()

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if filename != "" {
		v.SetConfigFile(filename)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				return nil, fmt.Errorf("config file %s not found", filename)
			}
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their config key so they can be mapped back to env vars.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
	})
	return v
}()

func validateConfig(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Namespace is "Config.mongodb.url"; drop the root type name.
	ns := verrs[0].Namespace()
	key := ns[strings.Index(ns, ".")+1:]
	if env := EnvName(key); env != "" {
		return fmt.Errorf("missing environment variable %s", env)
	}
	return fmt.Errorf("missing configuration value %s", key)
}
