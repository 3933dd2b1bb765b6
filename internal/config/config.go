package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	GoEnv         string `mapstructure:"GO_ENV"`
	Port          string `mapstructure:"PORT"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	DBAutoMigrate bool   `mapstructure:"DB_AUTO_MIGRATE"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`
	ReportsBucket  string `mapstructure:"REPORTS_BUCKET"`

	JWTSecret string `mapstructure:"JWT_SECRET"`
	JWKSURL   string `mapstructure:"JWKS_URL"`

	ShopName           string        `mapstructure:"SHOP_NAME"`
	LowStockThreshold  int           `mapstructure:"LOW_STOCK_THRESHOLD"`
	LowStockInterval   time.Duration `mapstructure:"LOW_STOCK_INTERVAL"`
	ReportTimezone     string        `mapstructure:"REPORT_TIMEZONE"`
	ReportExportHour   int           `mapstructure:"REPORT_EXPORT_HOUR"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

var defaults = map[string]interface{}{
	"GO_ENV":              "development",
	"PORT":                "8080",
	"DATABASE_URL":        "",
	"DB_AUTO_MIGRATE":     true,
	"REDIS_ADDR":          "localhost:6379",
	"REDIS_PASSWORD":      "",
	"REDIS_DB":            0,
	"CACHE_TTL":           5 * time.Minute,
	"MINIO_ENDPOINT":      "",
	"MINIO_ACCESS_KEY":    "",
	"MINIO_SECRET_KEY":    "",
	"MINIO_USE_SSL":       false,
	"REPORTS_BUCKET":      "balcao-reports",
	"JWT_SECRET":          "",
	"JWKS_URL":            "",
	"SHOP_NAME":           "Balcão",
	"LOW_STOCK_THRESHOLD": 5,
	"LOW_STOCK_INTERVAL":  30 * time.Minute,
	"REPORT_EXPORT_HOUR":  0,
	"REPORT_TIMEZONE":     "America/Sao_Paulo",
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "console",
}

// Load reads .env.<GO_ENV> (falling back to .env) into the environment and
// then resolves every key from the environment with defaults.
func Load() (*Config, error) {
	loadDotEnv()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv() {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err == nil {
		log.Info().Str("file", envFile).Msg("loaded configuration")
		return
	}
	if err := godotenv.Load(); err != nil {
		// Deployed environments set variables directly
		log.Debug().Msg("no .env file found, using system environment variables")
	}
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.LowStockThreshold < 0 {
		errs = append(errs, errors.New("LOW_STOCK_THRESHOLD must not be negative"))
	}
	if c.ReportExportHour < 0 || c.ReportExportHour > 23 {
		errs = append(errs, errors.New("REPORT_EXPORT_HOUR must be between 0 and 23"))
	}
	if c.MinioEndpoint != "" && (c.MinioAccessKey == "" || c.MinioSecretKey == "") {
		errs = append(errs, errors.New("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required with MINIO_ENDPOINT"))
	}
	if _, err := time.LoadLocation(c.ReportTimezone); err != nil {
		errs = append(errs, fmt.Errorf("REPORT_TIMEZONE: %w", err))
	}
	if c.IsProduction() && !c.AuthEnabled() {
		errs = append(errs, errors.New("JWT_SECRET or JWKS_URL is required in production"))
	}
	return errors.Join(errs...)
}

// Location returns the time zone report ranges are computed in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// StorageEnabled reports whether report exports have somewhere to go.
func (c *Config) StorageEnabled() bool {
	return c.MinioEndpoint != ""
}

// AuthEnabled reports whether bearer tokens are verified.
func (c *Config) AuthEnabled() bool {
	return c.JWKSURL != "" || c.JWTSecret != ""
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.GoEnv, "production")
}
