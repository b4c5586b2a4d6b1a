package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("FOODEXPLORER_SERVER_PORT")
		os.Unsetenv("FOODEXPLORER_SERVER_ENVIRONMENT")
		os.Unsetenv("FOODEXPLORER_CATALOG_BASE_URL")
		os.Unsetenv("FOODEXPLORER_CATALOG_PAGE_SIZE")
		os.Unsetenv("FOODEXPLORER_CART_STORAGE")
		os.Unsetenv("FOODEXPLORER_CART_FILE_PATH")
		os.Unsetenv("FOODEXPLORER_CART_MONGO_URI")
		os.Unsetenv("FOODEXPLORER_SCROLL_VISIBILITY_THRESHOLD")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Catalog.BaseURL != "https://world.openfoodfacts.org" {
			t.Errorf("Catalog.BaseURL = %s, want the OFF default", cfg.Catalog.BaseURL)
		}
		if cfg.Catalog.PageSize != 24 {
			t.Errorf("Catalog.PageSize = %d, want 24", cfg.Catalog.PageSize)
		}
		if cfg.Cart.Storage != "file" {
			t.Errorf("Cart.Storage = %s, want file", cfg.Cart.Storage)
		}
		if cfg.Scroll.VisibilityThreshold != 0.5 {
			t.Errorf("Scroll.VisibilityThreshold = %v, want 0.5", cfg.Scroll.VisibilityThreshold)
		}
	})

	t.Run("env vars override defaults", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FOODEXPLORER_SERVER_PORT", "9090")
		os.Setenv("FOODEXPLORER_CATALOG_BASE_URL", "https://staging.example")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Catalog.BaseURL != "https://staging.example" {
			t.Errorf("Catalog.BaseURL = %s, want https://staging.example", cfg.Catalog.BaseURL)
		}
	})

	t.Run("rejects invalid cart storage", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FOODEXPLORER_CART_STORAGE", "redis")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for unknown cart storage")
		}
	})

	t.Run("mongo storage requires a URI", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FOODEXPLORER_CART_STORAGE", "mongo")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for missing mongo URI")
		}

		os.Setenv("FOODEXPLORER_CART_MONGO_URI", "mongodb://localhost:27017")
		if _, err := Load(); err != nil {
			t.Errorf("Load() error = %v, want nil with mongo URI set", err)
		}
	})

	t.Run("rejects out-of-range page size", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FOODEXPLORER_CATALOG_PAGE_SIZE", "500")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for page size over 100")
		}
	})

	t.Run("rejects out-of-range visibility threshold", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FOODEXPLORER_SCROLL_VISIBILITY_THRESHOLD", "1.5")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for threshold over 1")
		}
	})
}
