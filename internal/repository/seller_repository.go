package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrSellerProfileMissing is returned when a profile update finds no row.
var ErrSellerProfileMissing = errors.New("seller profile does not exist")

// sellerRepository implements the SellerRepository interface using PostgreSQL.
type sellerRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSellerRepository creates a new PostgreSQL-backed seller repository.
func NewSellerRepository(pool *pgxpool.Pool, logger zerolog.Logger) SellerRepository {
	return &sellerRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "seller").Logger(),
	}
}

// CreateSellerOrder stores a per-seller order copy and returns its id.
func (r *sellerRepository) CreateSellerOrder(ctx context.Context, c *model.SellerOrderCopy) (string, error) {
	doc, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode seller order: %w", err)
	}

	query := `
		INSERT INTO seller_orders (seller_id, order_storage_id, order_id, subtotal, document)
		VALUES ($1, $2::uuid, $3, $4::numeric, $5)
		RETURNING id::text, created_at
	`

	var (
		id        string
		createdAt time.Time
	)
	err = r.pool.QueryRow(ctx, query, c.SellerID, c.OrderStorageID, c.OrderID, c.Subtotal.String(), doc).
		Scan(&id, &createdAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("seller_id", c.SellerID).
			Str("order_storage_id", c.OrderStorageID).
			Msg("failed to create seller order")
		return "", fmt.Errorf("failed to create seller order: %w", err)
	}

	c.StorageID = id
	c.CreatedAt = createdAt.UTC()

	return id, nil
}

// GetSellerProfile returns the profile, or nil when it does not exist.
func (r *sellerRepository) GetSellerProfile(ctx context.Context, sellerID string) (*model.SellerProfile, error) {
	query := `
		SELECT seller_id, orders, total_sales::text, last_order_at, created_at, updated_at
		FROM seller_profiles
		WHERE seller_id = $1
	`

	var (
		p      model.SellerProfile
		orders []byte
		total  string
	)
	err := r.pool.QueryRow(ctx, query, sellerID).
		Scan(&p.SellerID, &orders, &total, &p.LastOrderDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("seller_id", sellerID).Msg("failed to query seller profile")
		return nil, fmt.Errorf("failed to query seller profile: %w", err)
	}

	if p.TotalSales, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("invalid total sales %q: %w", total, err)
	}
	if err := json.Unmarshal(orders, &p.Orders); err != nil {
		return nil, fmt.Errorf("invalid seller order history: %w", err)
	}

	return &p, nil
}

// BootstrapSellerProfile creates an empty profile unless one exists.
func (r *sellerRepository) BootstrapSellerProfile(ctx context.Context, sellerID string) error {
	query := `
		INSERT INTO seller_profiles (seller_id)
		VALUES ($1)
		ON CONFLICT (seller_id) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query, sellerID)
	if err != nil {
		r.logger.Error().Err(err).Str("seller_id", sellerID).Msg("failed to bootstrap seller profile")
		return fmt.Errorf("failed to bootstrap seller profile: %w", err)
	}

	if tag.RowsAffected() > 0 {
		r.logger.Info().Str("seller_id", sellerID).Msg("seller profile created")
	}

	return nil
}

// AppendOrderSummary appends to the order history and adds delta to total
// sales in a single statement, so concurrent orders for the same seller
// never lose an increment.
func (r *sellerRepository) AppendOrderSummary(ctx context.Context, sellerID string, summary model.OrderSummary, delta decimal.Decimal) error {
	doc, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode order summary: %w", err)
	}

	query := `
		UPDATE seller_profiles
		SET orders        = orders || jsonb_build_array($2::jsonb),
		    total_sales   = total_sales + $3::numeric,
		    last_order_at = NOW(),
		    updated_at    = NOW()
		WHERE seller_id = $1
	`

	tag, err := r.pool.Exec(ctx, query, sellerID, doc, delta.String())
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("seller_id", sellerID).
			Str("order_id", summary.OrderID).
			Msg("failed to update seller profile")
		return fmt.Errorf("failed to update seller profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("seller %s: %w", sellerID, ErrSellerProfileMissing)
	}

	return nil
}

// ListSellerOrders returns a seller's order copies, newest first.
func (r *sellerRepository) ListSellerOrders(ctx context.Context, sellerID string) ([]model.SellerOrderCopy, error) {
	query := `
		SELECT id::text, document, created_at
		FROM seller_orders
		WHERE seller_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, sellerID)
	if err != nil {
		r.logger.Error().Err(err).Str("seller_id", sellerID).Msg("failed to query seller orders")
		return nil, fmt.Errorf("failed to query seller orders: %w", err)
	}
	defer rows.Close()

	copies := []model.SellerOrderCopy{}
	for rows.Next() {
		var (
			c         model.SellerOrderCopy
			id        string
			doc       []byte
			createdAt time.Time
		)
		if err := rows.Scan(&id, &doc, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan seller order: %w", err)
		}
		if err := json.Unmarshal(doc, &c); err != nil {
			return nil, fmt.Errorf("invalid seller order document %s: %w", id, err)
		}
		c.StorageID = id
		c.CreatedAt = createdAt.UTC()
		copies = append(copies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating seller orders: %w", err)
	}

	return copies, nil
}
