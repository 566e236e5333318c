// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultHouseValue is the reference property value used when HOUSE_VALUE is unset or invalid.
const DefaultHouseValue = 1450000.0

// Config stores all configuration of the application.
//
// The values are read by viper from an optional app.env file or environment variables.
// A .env file next to app.env is loaded first and never overrides the real environment.
type Config struct {
	AkahuUserToken   string        `mapstructure:"AKAHU_USER_TOKEN"`
	AkahuAppToken    string        `mapstructure:"AKAHU_APP_TOKEN"`
	AkahuAPIURL      string        `mapstructure:"AKAHU_API_URL"`
	AkahuTimeout     time.Duration `mapstructure:"AKAHU_TIMEOUT"`
	DBDriver         string        `mapstructure:"DB_DRIVER"`
	DBSource         string        `mapstructure:"DB_SOURCE"`
	DuckDBPath       string        `mapstructure:"DUCKDB_PATH"`
	DatasetSchema    string        `mapstructure:"DATASET_SCHEMA"`
	ViewSchema       string        `mapstructure:"VIEW_SCHEMA"`
	SnapshotTimezone string        `mapstructure:"SNAPSHOT_TIMEZONE"`
	HouseValueRaw    string        `mapstructure:"HOUSE_VALUE"`
	ServerAddress    string        `mapstructure:"SERVER_ADDRESS"`
	KafkaBrokers     string        `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic       string        `mapstructure:"KAFKA_TOPIC"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	Environment      string        `mapstructure:"GO_ENV"`
}

var defaults = map[string]any{
	"AKAHU_USER_TOKEN":  "",
	"AKAHU_APP_TOKEN":   "",
	"AKAHU_API_URL":     "https://api.akahu.io/v1",
	"AKAHU_TIMEOUT":     30 * time.Second,
	"DB_DRIVER":         "duckdb",
	"DB_SOURCE":         "",
	"DUCKDB_PATH":       filepath.Join("data", "akahu.duckdb"),
	"DATASET_SCHEMA":    "akahu_prod",
	"VIEW_SCHEMA":       "",
	"SNAPSHOT_TIMEZONE": "Pacific/Auckland",
	"HOUSE_VALUE":       "",
	"SERVER_ADDRESS":    "0.0.0.0:8001",
	"KAFKA_BROKERS":     "",
	"KAFKA_TOPIC":       "akahu.load_completed",
	"LOG_LEVEL":         "info",
	"GO_ENV":            "",
}

// Load reads configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return c, err
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	c.AkahuAPIURL = strings.TrimRight(c.AkahuAPIURL, "/")

	return c, nil
}

// StoreSource returns the data source name of the store.
func (c Config) StoreSource() string {
	if c.DBSource != "" {
		return c.DBSource
	}

	return c.DuckDBPath
}

// Location returns the civil time zone snapshot dates are computed in.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.SnapshotTimezone)
}

// HouseValue returns the configured reference property value.
func (c Config) HouseValue() float64 {
	if c.HouseValueRaw == "" {
		return DefaultHouseValue
	}

	v, err := strconv.ParseFloat(c.HouseValueRaw, 64)
	if err != nil {
		return DefaultHouseValue
	}

	return v
}

// Brokers returns the Kafka broker list, empty when events are disabled.
func (c Config) Brokers() []string {
	var brokers []string

	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	return brokers
}
