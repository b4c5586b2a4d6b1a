package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	Cart    CartConfig
	Scroll  ScrollConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds Open Food Facts API configuration
type CatalogConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	UserAgent         string  `mapstructure:"user_agent"`
	PageSize          int     `mapstructure:"page_size"`
	SuggestLimit      int     `mapstructure:"suggest_limit"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	BurstLimit        int     `mapstructure:"burst_limit"`
}

// CartConfig holds cart persistence configuration
type CartConfig struct {
	Storage         string `mapstructure:"storage"` // "file" or "mongo"
	FilePath        string `mapstructure:"file_path"`
	MongoURI        string `mapstructure:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection"`
}

// ScrollConfig holds infinite scroll trigger configuration
type ScrollConfig struct {
	VisibilityThreshold float64 `mapstructure:"visibility_threshold"`
	LeadMarginPx        int     `mapstructure:"lead_margin_px"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/foodexplorer/")

	// Environment variable settings
	v.SetEnvPrefix("FOODEXPLORER")
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	// Catalog defaults
	v.SetDefault("catalog.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("catalog.user_agent", "FoodExplorer/1.0")
	v.SetDefault("catalog.page_size", 24)
	v.SetDefault("catalog.suggest_limit", 8)
	// Open Food Facts asks for at most ~10 req/min on search endpoints
	v.SetDefault("catalog.requests_per_second", 0.16)
	v.SetDefault("catalog.burst_limit", 5)

	// Cart defaults
	v.SetDefault("cart.storage", "file")
	v.SetDefault("cart.file_path", "data/cart.json")
	v.SetDefault("cart.mongo_uri", "")
	v.SetDefault("cart.mongo_database", "foodexplorer")
	v.SetDefault("cart.mongo_collection", "cart")

	// Scroll defaults (mirrors the UI observer: fire at half visibility)
	v.SetDefault("scroll.visibility_threshold", 0.5)
	v.SetDefault("scroll.lead_margin_px", 0)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base URL is required (set FOODEXPLORER_CATALOG_BASE_URL)")
	}

	if config.Catalog.PageSize < 1 || config.Catalog.PageSize > 100 {
		return fmt.Errorf("catalog page size must be between 1 and 100, got: %d", config.Catalog.PageSize)
	}

	if config.Catalog.SuggestLimit < 1 {
		return fmt.Errorf("catalog suggest limit must be at least 1, got: %d", config.Catalog.SuggestLimit)
	}

	if config.Cart.Storage != "file" && config.Cart.Storage != "mongo" {
		return fmt.Errorf("cart storage must be 'file' or 'mongo', got: %s", config.Cart.Storage)
	}

	if config.Cart.Storage == "mongo" && config.Cart.MongoURI == "" {
		return fmt.Errorf("Mongo URI is required when cart storage is 'mongo'")
	}

	if config.Scroll.VisibilityThreshold <= 0 || config.Scroll.VisibilityThreshold > 1 {
		return fmt.Errorf("scroll visibility threshold must be in (0, 1], got: %v", config.Scroll.VisibilityThreshold)
	}

	return nil
}
