// Command check_db connects to the configured database, applies the
// schema and prints row counts for the storefront tables.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"

	"github.com/joho/godotenv"
)

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

	var dbName, version string
	if err := pool.QueryRow(ctx, "SELECT current_database(), version()").Scan(&dbName, &version); err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Connected to database: %s\n%s\n\n", dbName, version)

	if err := database.Migrate(ctx, pool, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}

	tables := []string{
		"products", "cart_lines", "buyer_orders", "orders_mirror",
		"seller_orders", "seller_profiles", "ratings", "buyer_profiles",
	}
	for _, table := range tables {
		var count int64
		if err := pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			fmt.Fprintf(os.Stderr, "  %-16s error: %v\n", table, err)
			continue
		}
		fmt.Printf("  %-16s %d rows\n", table, count)
	}
}
