package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Pricing   PricingConfig
	Reconcile ReconcileConfig
	Admin     AdminConfig
	Kafka     KafkaConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// PricingConfig carries the platform fee explicitly. FeeRate applies to
// booking totals; DisplayFeeRate to the per-tier prices shown before a
// booking exists.
type PricingConfig struct {
	FeeRate        float64
	DisplayFeeRate float64
	TierGapPolicy  string
}

type ReconcileConfig struct {
	Concurrency int
	Timeout     time.Duration
	DryRun      bool
}

type AdminConfig struct {
	TokenHash string
}

type KafkaConfig struct {
	Brokers      []string
	PricingTopic string
}

// LoadConfig reads path (a .env file) when present and lets the environment
// override it. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	return LoadConfigWith(viper.New(), path)
}

// LoadConfigWith is LoadConfig on a caller supplied viper instance, so flags
// bound to it take precedence.
func LoadConfigWith(v *viper.Viper, path string) (*Config, error) {
	if path == "" {
		path = ".env"
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "befest-pricing")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("PRICING_FEE_RATE", 0.10)
	v.SetDefault("PRICING_DISPLAY_FEE_RATE", 0.10)
	v.SetDefault("PRICING_TIER_GAP_POLICY", "top_tier")
	v.SetDefault("RECONCILE_CONCURRENCY", 4)
	v.SetDefault("RECONCILE_TIMEOUT", "5s")
	v.SetDefault("RECONCILE_DRY_RUN", false)
	v.SetDefault("KAFKA_TOPIC_PRICING", "befest.pricing")

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Pricing: PricingConfig{
			FeeRate:        v.GetFloat64("PRICING_FEE_RATE"),
			DisplayFeeRate: v.GetFloat64("PRICING_DISPLAY_FEE_RATE"),
			TierGapPolicy:  v.GetString("PRICING_TIER_GAP_POLICY"),
		},
		Reconcile: ReconcileConfig{
			Concurrency: v.GetInt("RECONCILE_CONCURRENCY"),
			Timeout:     v.GetDuration("RECONCILE_TIMEOUT"),
			DryRun:      v.GetBool("RECONCILE_DRY_RUN"),
		},
		Admin: AdminConfig{
			TokenHash: v.GetString("ADMIN_TOKEN_HASH"),
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(v.GetString("KAFKA_BROKERS")),
			PricingTopic: v.GetString("KAFKA_TOPIC_PRICING"),
		},
	}

	if config.Reconcile.Concurrency < 1 {
		config.Reconcile.Concurrency = 1
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
