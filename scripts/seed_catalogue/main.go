// Command seed_catalogue loads a small multi-seller catalogue for local
// development. Catalogue entries deliberately use different seller field
// names, as the seller tools do in production.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"

	"github.com/joho/godotenv"
)

type sampleProduct struct {
	ID         string
	Name       string
	Price      string
	Category   string
	Attributes map[string]any
}

var catalogue = []sampleProduct{
	{"ETH-001", "Cotton Kurta", "499.00", "ethnic", map[string]any{"sellerId": "seller-aarav", "sku": "KUR-M-BLU", "size": "M", "color": "Blue"}},
	{"ETH-002", "Silk Saree", "2499.00", "ethnic", map[string]any{"sellerid": "seller-meera", "sku": "SAR-RED"}},
	{"ETH-003", "Linen Dupatta", "349.00", "ethnic", map[string]any{"vendorId": "seller-aarav"}},
	{"WST-001", "Denim Jacket", "1899.00", "western", map[string]any{"merchantId": "seller-kabir", "SKU": "DJ-L"}},
	{"WST-002", "Graphic Tee", "399.00", "western", map[string]any{"storeId": "seller-kabir", "sku": "N/A"}},
	{"WST-003", "Chinos", "1199.00", "western", map[string]any{}},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}

	for _, p := range catalogue {
		attrs, err := json.Marshal(p.Attributes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode %s: %v\n", p.ID, err)
			os.Exit(1)
		}
		_, err = pool.Exec(ctx, `
			INSERT INTO products (id, name, price, category, attributes)
			VALUES ($1, $2, $3::numeric, $4, $5::jsonb)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, price = EXCLUDED.price,
			    category = EXCLUDED.category, attributes = EXCLUDED.attributes
		`, p.ID, p.Name, p.Price, p.Category, attrs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to seed %s: %v\n", p.ID, err)
			os.Exit(1)
		}
		fmt.Printf("Seeded %-8s %-14s %8s  %s\n", p.ID, p.Name, p.Price, p.Category)
	}

	fmt.Printf("\n%d products seeded.\n", len(catalogue))
}
