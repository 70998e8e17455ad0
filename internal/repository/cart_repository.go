package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// List returns the buyer's cart lines in the order they were added.
func (r *cartRepository) List(ctx context.Context, buyerID string) ([]model.StoredCartLine, error) {
	query := `
		SELECT buyer_id, product_id, sku, quantity, record, added_at
		FROM cart_lines
		WHERE buyer_id = $1
		ORDER BY added_at, product_id, sku
	`

	rows, err := r.pool.Query(ctx, query, buyerID)
	if err != nil {
		r.logger.Error().Err(err).Str("buyer_id", buyerID).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	lines := []model.StoredCartLine{}
	for rows.Next() {
		var (
			line model.StoredCartLine
			raw  []byte
		)
		if err := rows.Scan(&line.BuyerID, &line.ProductID, &line.SKU, &line.Quantity, &raw, &line.AddedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart row")
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &line.Record); err != nil {
				return nil, fmt.Errorf("invalid cart record for %s: %w", line.ProductID, err)
			}
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart rows")
		return nil, fmt.Errorf("error iterating cart: %w", err)
	}

	return lines, nil
}

// Add inserts a line or adds its quantity to the matching line. The
// stored product snapshot is kept from the first insert.
func (r *cartRepository) Add(ctx context.Context, line *model.StoredCartLine) error {
	record, err := json.Marshal(line.Record)
	if err != nil {
		return fmt.Errorf("failed to encode cart record: %w", err)
	}

	query := `
		INSERT INTO cart_lines (buyer_id, product_id, sku, quantity, record)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (buyer_id, product_id, sku)
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
		RETURNING quantity, added_at
	`

	err = r.pool.QueryRow(ctx, query, line.BuyerID, line.ProductID, line.SKU, line.Quantity, record).
		Scan(&line.Quantity, &line.AddedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("buyer_id", line.BuyerID).
			Str("product_id", line.ProductID).
			Msg("failed to add cart line")
		return fmt.Errorf("failed to add cart line: %w", err)
	}

	return nil
}

// Clear removes every line of the buyer's cart.
func (r *cartRepository) Clear(ctx context.Context, buyerID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE buyer_id = $1`, buyerID)
	if err != nil {
		r.logger.Error().Err(err).Str("buyer_id", buyerID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	r.logger.Debug().
		Str("buyer_id", buyerID).
		Int64("lines", tag.RowsAffected()).
		Msg("cart cleared")

	return nil
}
