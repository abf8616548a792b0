// Package config loads the service configuration from YAML with environment
// overrides layered on top.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Predictor PredictorConfig `yaml:"predictor"`
	Storage   StorageConfig   `yaml:"storage"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// GetHost returns the bind host, honoring container environments where the
// server must listen on all interfaces.
func (c ServerConfig) GetHost() string {
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatasetConfig selects and parameterizes the peer dataset source.
type DatasetConfig struct {
	// Source is "csv", "s3", or "postgres".
	Source string `yaml:"source"`

	// csv source
	ListingsPath  string `yaml:"listings_path"`
	DistrictsPath string `yaml:"districts_path"`

	// s3 source
	S3Bucket      string `yaml:"s3_bucket"`
	S3Region      string `yaml:"s3_region"`
	AWSProfile    string `yaml:"aws_profile"`
	S3ListingKey  string `yaml:"s3_listing_key"`
	S3DistrictKey string `yaml:"s3_district_key"`

	// postgres source
	DatabaseURL string `yaml:"database_url"`
}

// PredictorConfig holds the external ML predictor settings.
type PredictorConfig struct {
	Enabled        bool   `yaml:"enabled"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the predictor call timeout as a duration.
func (c PredictorConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StorageConfig holds evaluation-log and cache settings.
type StorageConfig struct {
	// Type is "memory", "local", or "redis".
	Type         string `yaml:"type"`
	LocalPath    string `yaml:"local_path"`
	RedisAddr    string `yaml:"redis_addr"`
	RedisDB      int    `yaml:"redis_db"`
	HistoryLimit int    `yaml:"history_limit"`
	CacheTTLSecs int    `yaml:"cache_ttl_seconds"`
}

// CacheTTL returns the dashboard snapshot cache TTL.
func (c StorageConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSecs) * time.Second
}

// Load reads and parses the configuration file, applying defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Dataset.Source == "" {
		cfg.Dataset.Source = "csv"
	}
	if cfg.Dataset.ListingsPath == "" {
		cfg.Dataset.ListingsPath = "data/seoul_airbnb_cleaned.csv"
	}
	if cfg.Dataset.DistrictsPath == "" {
		cfg.Dataset.DistrictsPath = "data/district_clustered.csv"
	}
	if cfg.Dataset.S3ListingKey == "" {
		cfg.Dataset.S3ListingKey = "cleaned/seoul_airbnb_cleaned.csv"
	}
	if cfg.Dataset.S3DistrictKey == "" {
		cfg.Dataset.S3DistrictKey = "processed/district_clustered.csv"
	}
	if cfg.Predictor.TimeoutSeconds == 0 {
		cfg.Predictor.TimeoutSeconds = 10
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "memory"
	}
	if cfg.Storage.LocalPath == "" {
		cfg.Storage.LocalPath = "data/evaluations"
	}
	if cfg.Storage.HistoryLimit == 0 {
		cfg.Storage.HistoryLimit = 200
	}
	if cfg.Storage.CacheTTLSecs == 0 {
		cfg.Storage.CacheTTLSecs = 300
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides. A
// .env file is layered in first when present, so secrets can live in .env
// locally and in real env vars in deployment.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DATASET_SOURCE"); v != "" {
		cfg.Dataset.Source = v
	}
	if v := os.Getenv("DATASET_S3_BUCKET"); v != "" {
		cfg.Dataset.S3Bucket = v
	}
	if v := os.Getenv("DATASET_S3_REGION"); v != "" {
		cfg.Dataset.S3Region = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Dataset.DatabaseURL = v
		if cfg.Dataset.Source == "csv" {
			cfg.Dataset.Source = "postgres"
		}
	}
	if v := os.Getenv("PREDICTOR_BASE_URL"); v != "" {
		cfg.Predictor.BaseURL = v
		cfg.Predictor.Enabled = true
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Storage.RedisAddr = v
		cfg.Storage.Type = "redis"
	}

	return cfg, nil
}
