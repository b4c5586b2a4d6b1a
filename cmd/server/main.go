package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/foodexplorer/backend/config"
	httpDelivery "github.com/foodexplorer/backend/internal/delivery/http"
	"github.com/foodexplorer/backend/internal/domain"
	"github.com/foodexplorer/backend/internal/events"
	"github.com/foodexplorer/backend/internal/infrastructure/cartstore"
	"github.com/foodexplorer/backend/internal/infrastructure/openfoodfacts"
	"github.com/foodexplorer/backend/internal/usecase"
	"github.com/spf13/afero"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting FoodExplorer Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Catalog: %s (page size %d)", cfg.Catalog.BaseURL, cfg.Catalog.PageSize)
	log.Printf("Cart storage: %s", cfg.Cart.Storage)

	// Initialize infrastructure dependencies
	broker := events.NewBroker()

	catalogClient := openfoodfacts.NewClient(openfoodfacts.ClientConfig{
		BaseURL:           cfg.Catalog.BaseURL,
		UserAgent:         cfg.Catalog.UserAgent,
		SuggestLimit:      cfg.Catalog.SuggestLimit,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		BurstLimit:        cfg.Catalog.BurstLimit,
	})

	startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cartStorage, err := buildCartStorage(startupCtx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize cart storage: %v", err)
	}

	// Initialize usecase layer
	cartService := usecase.NewCartService(startupCtx, cartStorage, broker)

	catalogService := usecase.NewCatalogService(catalogClient, broker, usecase.CatalogServiceConfig{
		PageSize: cfg.Catalog.PageSize,
	})

	scrollTrigger := usecase.NewScrollTrigger(catalogService, usecase.ScrollTriggerConfig{
		VisibilityThreshold: cfg.Scroll.VisibilityThreshold,
		LeadMarginPx:        cfg.Scroll.LeadMarginPx,
	})

	log.Printf("Scroll trigger: threshold=%.2f, lead margin=%dpx",
		cfg.Scroll.VisibilityThreshold, cfg.Scroll.LeadMarginPx)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(catalogService, cartService, scrollTrigger, broker)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildCartStorage selects the cart persistence backend from configuration
func buildCartStorage(ctx context.Context, cfg *config.Config) (domain.CartStorage, error) {
	switch cfg.Cart.Storage {
	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Cart.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("connecting to mongo: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, fmt.Errorf("pinging mongo: %w", err)
		}
		db := client.Database(cfg.Cart.MongoDatabase)
		return cartstore.NewMongoStorage(db, cfg.Cart.MongoCollection), nil
	default:
		return cartstore.NewFileStorage(afero.NewOsFs(), cfg.Cart.FilePath), nil
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
