package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DataDir      string        // Directory holding the JSON data files
	BaseCurrency string        // Unit of account for valuation and deposits
	RatesTTL     time.Duration // Rates older than this are served with a staleness warning
	LogFile      string        // Destination for the structured action log
	IsProduction bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("BASE_CURRENCY", "USD")
	viper.SetDefault("RATES_TTL_SECONDS", 300)
	viper.SetDefault("LOG_FILE", "logs/actions.log")
	viper.SetDefault("IS_PRODUCTION", false)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DataDir = viper.GetString("DATA_DIR")
	cfg.BaseCurrency = viper.GetString("BASE_CURRENCY")
	if len(cfg.BaseCurrency) < 2 {
		cfg.BaseCurrency = "USD"
		log.Printf("Warning: invalid BASE_CURRENCY, defaulting to %s\n", cfg.BaseCurrency)
	}

	ttlSeconds := viper.GetInt("RATES_TTL_SECONDS")
	if ttlSeconds <= 0 {
		ttlSeconds = 300
		log.Printf("Warning: invalid RATES_TTL_SECONDS, defaulting to %d\n", ttlSeconds)
	}
	cfg.RatesTTL = time.Duration(ttlSeconds) * time.Second

	cfg.LogFile = viper.GetString("LOG_FILE")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	return cfg, nil
}
