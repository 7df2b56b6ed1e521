package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// GeneralSource selects how queries that do not use the custom library are answered
type GeneralSource string

const (
	GeneralSourceHosted GeneralSource = "hosted"
	GeneralSourceModel  GeneralSource = "model"
)

// Config is the service configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	AutoRAG   AutoRAGConfig   `mapstructure:"autorag"`
	Library   LibraryConfig   `mapstructure:"library"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type GeminiConfig struct {
	APIKey         string  `mapstructure:"api_key"`
	Model          string  `mapstructure:"model"`
	Temperature    float32 `mapstructure:"temperature"`
	MaxPromptChars int     `mapstructure:"max_prompt_chars"`
}

type RetrievalConfig struct {
	GeneralSource GeneralSource `mapstructure:"general_source"`
	Jurisdiction  string        `mapstructure:"jurisdiction"`
}

type AutoRAGConfig struct {
	AccountID string        `mapstructure:"account_id"`
	RagID     string        `mapstructure:"rag_id"`
	APIToken  string        `mapstructure:"api_token"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type LibraryConfig struct {
	Backend        string `mapstructure:"backend"` // memory or redis
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type StorageConfig struct {
	Type         string `mapstructure:"type"`
	LocalPath    string `mapstructure:"local_path"`
	S3Bucket     string `mapstructure:"s3_bucket"`
	S3Region     string `mapstructure:"s3_region"`
	AWSAccessKey string `mapstructure:"aws_access_key"`
	AWSSecretKey string `mapstructure:"aws_secret_key"`
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-1.5-flash"
	}
	if cfg.Gemini.Temperature == 0 {
		cfg.Gemini.Temperature = 0.2
	}
	if cfg.Gemini.MaxPromptChars == 0 {
		cfg.Gemini.MaxPromptChars = 30000
	}
	if cfg.Retrieval.GeneralSource == "" {
		cfg.Retrieval.GeneralSource = GeneralSourceHosted
	}
	if cfg.Retrieval.Jurisdiction == "" {
		cfg.Retrieval.Jurisdiction = "India"
	}
	if cfg.AutoRAG.BaseURL == "" {
		cfg.AutoRAG.BaseURL = "https://api.cloudflare.com/client/v4"
	}
	if cfg.AutoRAG.Timeout == 0 {
		cfg.AutoRAG.Timeout = 60 * time.Second
	}
	if cfg.Library.Backend == "" {
		cfg.Library.Backend = "memory"
	}
	if cfg.Library.MaxUploadBytes == 0 {
		cfg.Library.MaxUploadBytes = 10 * 1024 * 1024
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.LocalPath == "" {
		cfg.Storage.LocalPath = "./storage/files"
	}
	if cfg.Storage.S3Region == "" {
		cfg.Storage.S3Region = "us-east-1"
	}
}

func validate(cfg *Config) error {
	var errs []error

	switch cfg.Retrieval.GeneralSource {
	case GeneralSourceHosted, GeneralSourceModel:
	default:
		errs = append(errs, fmt.Errorf("retrieval.general_source must be %q or %q, got %q",
			GeneralSourceHosted, GeneralSourceModel, cfg.Retrieval.GeneralSource))
	}

	switch strings.ToLower(cfg.Library.Backend) {
	case "memory":
	case "redis":
		if cfg.Redis.Address == "" {
			errs = append(errs, errors.New("redis.address is required when library.backend is redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown library.backend: %s", cfg.Library.Backend))
	}

	if cfg.Storage.Type == "s3" && cfg.Storage.S3Bucket == "" {
		errs = append(errs, errors.New("storage.s3_bucket is required for s3 storage"))
	}

	if cfg.Library.MaxUploadBytes < 0 {
		errs = append(errs, errors.New("library.max_upload_bytes must be positive"))
	}

	return errors.Join(errs...)
}
