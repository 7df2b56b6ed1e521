package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from config.yaml (if present), .env and the
// environment, in increasing order of precedence. Extra search paths are
// consulted before the defaults.
func Load(searchPaths ...string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideFromLegacyEnv(&cfg)
	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// AutomaticEnv only resolves keys viper already knows about, so every key
// that may come purely from the environment is registered here.
func bindEnv(v *viper.Viper) {
	keys := []string{
		"server.port", "server.mode",
		"logging.level", "logging.format",
		"gemini.api_key", "gemini.model", "gemini.temperature", "gemini.max_prompt_chars",
		"retrieval.general_source", "retrieval.jurisdiction",
		"autorag.account_id", "autorag.rag_id", "autorag.api_token", "autorag.base_url", "autorag.timeout",
		"library.backend", "library.max_upload_bytes",
		"redis.address", "redis.password", "redis.db",
		"database.url",
		"storage.type", "storage.local_path", "storage.s3_bucket", "storage.s3_region",
		"storage.aws_access_key", "storage.aws_secret_key",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

// overrideFromLegacyEnv honours the variable names used by earlier deployments.
func overrideFromLegacyEnv(cfg *Config) {
	legacy := []struct {
		env string
		dst *string
	}{
		{"PORT", &cfg.Server.Port},
		{"DATABASE_URL", &cfg.Database.URL},
		{"CLOUDFLARE_ACCOUNT_ID", &cfg.AutoRAG.AccountID},
		{"CLOUDFLARE_RAG_ID", &cfg.AutoRAG.RagID},
		{"CLOUDFLARE_API_TOKEN", &cfg.AutoRAG.APIToken},
		{"STORAGE_TYPE", &cfg.Storage.Type},
		{"STORAGE_LOCAL_PATH", &cfg.Storage.LocalPath},
		{"AWS_S3_BUCKET", &cfg.Storage.S3Bucket},
		{"AWS_REGION", &cfg.Storage.S3Region},
		{"AWS_ACCESS_KEY_ID", &cfg.Storage.AWSAccessKey},
		{"AWS_SECRET_ACCESS_KEY", &cfg.Storage.AWSSecretKey},
	}
	for _, l := range legacy {
		if *l.dst == "" {
			*l.dst = os.Getenv(l.env)
		}
	}
}

func loadEnvFile() {
	for _, path := range []string{".env", "../../.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}
