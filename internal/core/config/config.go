package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Database holds the order store configuration.
	Database DatabaseConfig `mapstructure:",squash"`

	// Cache holds the Redis cache configuration.
	Cache CacheConfig `mapstructure:",squash"`

	// Kafka holds the event broker configuration.
	Kafka KafkaConfig `mapstructure:",squash"`

	// Inventory holds the inventory service configuration.
	Inventory InventoryConfig `mapstructure:",squash"`
}

// DatabaseConfig holds the SQLite order store settings.
type DatabaseConfig struct {
	// Path is the filesystem path of the SQLite database file.
	Path string `mapstructure:"DB_PATH" default:"orders.db"`
}

// CacheConfig holds the Redis order cache settings.
type CacheConfig struct {
	// RedisURL is the Redis connection URL (redis://[:password@]host[:port][/db]).
	RedisURL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
	// TTLSeconds is how long cached order snapshots live. 0 disables expiration.
	TTLSeconds int `mapstructure:"CACHE_TTL_SECONDS" default:"300"`
}

// KafkaConfig holds the event broker settings.
type KafkaConfig struct {
	// Brokers is a comma-separated list of Kafka broker addresses.
	Brokers string `mapstructure:"KAFKA_BROKERS" required:"true"`
	// OrderTopic is the default topic for order lifecycle events.
	OrderTopic string `mapstructure:"KAFKA_ORDER_TOPIC" default:"restaurant.orders"`
	// ClientID identifies this producer to the broker.
	ClientID string `mapstructure:"KAFKA_CLIENT_ID" default:"order-service"`
}

// InventoryConfig holds the inventory collaborator settings.
type InventoryConfig struct {
	// URL is the base URL of the inventory validation service.
	URL string `mapstructure:"INVENTORY_URL" required:"true"`
	// TimeoutSeconds bounds each availability check request.
	TimeoutSeconds int `mapstructure:"INVENTORY_TIMEOUT_SECONDS" default:"5"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
