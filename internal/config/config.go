package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port         string
	Env          string
	JWTSecret    string
	AllowedHosts []string

	DB        DatabaseConfig
	Redis     RedisConfig
	Pricing   PricingConfig
	Worker    WorkerConfig
	Kafka     KafkaConfig
	S3        S3Config
	Bootstrap BootstrapConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	RuleCacheTTL time.Duration
}

// PricingConfig holds the defaults fed to the pricing engine.
type PricingConfig struct {
	VATRate              decimal.Decimal
	DefaultCommissionPct decimal.Decimal
	// ProjectionWorkers goroutines are used once a promotion has at least
	// ParallelThreshold items.
	ProjectionWorkers int
	ParallelThreshold int
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	StatusReconcileInterval time.Duration
}

// KafkaConfig enables the promotion event stream when Brokers is non-empty.
type KafkaConfig struct {
	Brokers       []string
	Topic         string
	SigningSecret string
}

// S3Config contains AWS S3 configuration for export archives
type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// BootstrapConfig seeds rule tables and the first admin account on startup.
type BootstrapConfig struct {
	RulesSeedFile string
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Missing .env is fine; production sets real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.AllowedHosts = getEnvList("CORS_ALLOWED_HOSTS", "localhost:3000,127.0.0.1:3000")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Pricing
	var err error
	if cfg.Pricing.VATRate, err = getEnvDecimal("VAT_RATE", "1.20"); err != nil {
		return nil, fmt.Errorf("invalid VAT_RATE: %w", err)
	}
	if cfg.Pricing.DefaultCommissionPct, err = getEnvDecimal("DEFAULT_COMMISSION_PCT", "15"); err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_COMMISSION_PCT: %w", err)
	}
	cfg.Pricing.ProjectionWorkers = getEnvInt("PROJECTION_WORKERS", 4)
	cfg.Pricing.ParallelThreshold = getEnvInt("PROJECTION_PARALLEL_THRESHOLD", 500)

	// Kafka
	cfg.Kafka = KafkaConfig{
		Brokers:       getEnvList("KAFKA_BROKERS", ""),
		Topic:         getEnv("KAFKA_TOPIC", "promotion-events"),
		SigningSecret: getEnv("KAFKA_SIGNING_SECRET", ""),
	}

	// S3 export archive
	cfg.S3 = S3Config{
		Region:          getEnv("S3_REGION", "eu-west-2"),
		Bucket:          getEnv("S3_BUCKET", ""),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	cfg.Bootstrap = BootstrapConfig{
		RulesSeedFile: getEnv("RULES_SEED_FILE", ""),
		AdminEmail:    getEnv("ADMIN_BOOTSTRAP_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_BOOTSTRAP_PASSWORD", ""),
	}

	// Durations
	if cfg.Redis.RuleCacheTTL, err = parseDurationEnv("RULE_CACHE_TTL", "10m"); err != nil {
		return nil, fmt.Errorf("invalid RULE_CACHE_TTL: %w", err)
	}
	if cfg.Worker.StatusReconcileInterval, err = parseDurationEnv("STATUS_RECONCILE_INTERVAL", "1m"); err != nil {
		return nil, fmt.Errorf("invalid STATUS_RECONCILE_INTERVAL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "" {
		return errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set for authentication")
	}
	if c.Pricing.VATRate.LessThan(decimal.NewFromInt(1)) {
		return errors.New("VAT_RATE is a multiplier and must be >= 1 (e.g. 1.20)")
	}
	if c.Pricing.DefaultCommissionPct.IsNegative() || c.Pricing.DefaultCommissionPct.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("DEFAULT_COMMISSION_PCT must be between 0 and 100")
	}
	if c.Pricing.ProjectionWorkers < 1 {
		c.Pricing.ProjectionWorkers = 1
	}
	return nil
}

// ExportArchiveEnabled reports whether an S3 bucket is configured.
func (c *Config) ExportArchiveEnabled() bool {
	return c.S3.Bucket != ""
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvDecimal(key, def string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(getEnv(key, def)))
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key, def string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, def), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
