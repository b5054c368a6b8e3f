package config

import (
	"errors"
	"reflect"
	"strings"

	"ongsys-sync/core/erpnext"
	"ongsys-sync/core/logger"
	"ongsys-sync/core/ongsys"
	"ongsys-sync/core/runlog"
	"ongsys-sync/core/snapshot"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Source holds configuration for the ONGSYS REST API.
	Source ongsys.Config `mapstructure:"ongsys"`
	// ERPNext holds configuration for the destination ERPNext instance.
	ERPNext erpnext.Config `mapstructure:"erpnext"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Sync holds cross-job synchronization options.
	Sync Sync `mapstructure:"sync"`
	// RunLog holds configuration for the optional run-history database.
	RunLog runlog.Config `mapstructure:"runlog"`
	// Snapshot holds configuration for the optional extraction archive.
	Snapshot snapshot.Config `mapstructure:"snapshot"`
}

// Validate checks the preconditions no sync run can start without.
func (c *Config) Validate() error {
	var missing []string
	if c.Source.BaseURL == "" {
		missing = append(missing, "ONGSYS_BASE_URL")
	}
	if c.Source.Username == "" {
		missing = append(missing, "ONGSYS_USERNAME")
	}
	if c.Source.Password == "" {
		missing = append(missing, "ONGSYS_PASSWORD")
	}
	if c.ERPNext.BaseURL == "" {
		missing = append(missing, "ERPNEXT_BASE_URL")
	}
	if c.ERPNext.APIKey == "" {
		missing = append(missing, "ERPNEXT_API_KEY")
	}
	if c.ERPNext.APISecret == "" {
		missing = append(missing, "ERPNEXT_API_SECRET")
	}
	if len(missing) > 0 {
		return errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	return nil
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	// We construct the path to .env
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. ONGSYS_BASE_URL -> ongsys.base_url)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
