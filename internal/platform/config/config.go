package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// DefaultDisplayCurrency is the display currency used when a request does
	// not select one and the project's native currency is not wanted.
	DefaultDisplayCurrency string
	// DefaultLanguage is the initial UI language of the analysis session.
	DefaultLanguage string

	CORSAllowOrigins []string

	RateLimitRequests int64
	RateLimitPeriod   time.Duration
}

// LoadConfig loads configuration from environment variables and a .env file
// if present. Real environment variables override .env values.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("DEFAULT_DISPLAY_CURRENCY", "SAR")
	viper.SetDefault("DEFAULT_LANGUAGE", "en")
	viper.SetDefault("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("RATE_LIMIT_REQUESTS", int64(120))
	viper.SetDefault("RATE_LIMIT_PERIOD", "1m")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.DefaultDisplayCurrency = viper.GetString("DEFAULT_DISPLAY_CURRENCY")
	cfg.DefaultLanguage = viper.GetString("DEFAULT_LANGUAGE")
	cfg.CORSAllowOrigins = viper.GetStringSlice("CORS_ALLOW_ORIGINS")
	cfg.RateLimitRequests = viper.GetInt64("RATE_LIMIT_REQUESTS")

	periodStr := viper.GetString("RATE_LIMIT_PERIOD")
	period, err := time.ParseDuration(periodStr)
	if err != nil {
		period = time.Minute
		if periodStr != "" {
			log.Printf("Warning: Invalid value for RATE_LIMIT_PERIOD ('%s'). Defaulting to %s.\n", periodStr, period)
		}
	}
	cfg.RateLimitPeriod = period

	return cfg, nil
}
