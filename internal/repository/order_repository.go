package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// Create stores the canonical order. The database assigns the storage id
// and creation time, which are copied back onto order.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	doc, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to encode order: %w", err)
	}

	query := `
		INSERT INTO buyer_orders (buyer_id, order_id, document)
		VALUES ($1, $2, $3)
		RETURNING id::text, created_at
	`

	var (
		id        string
		createdAt time.Time
	)
	err = r.pool.QueryRow(ctx, query, order.BuyerID, order.OrderID, doc).Scan(&id, &createdAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.OrderID).
			Str("buyer_id", order.BuyerID).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	order.StorageID = id
	order.CreatedAt = createdAt.UTC()

	r.logger.Debug().
		Str("order_id", order.OrderID).
		Str("order_storage_id", id).
		Msg("order created successfully")

	return nil
}

// Mirror writes a flat copy of a stored order.
func (r *orderRepository) Mirror(ctx context.Context, order *model.Order) error {
	if order.StorageID == "" {
		return fmt.Errorf("cannot mirror an order without a storage id")
	}

	doc, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to encode order: %w", err)
	}

	query := `
		INSERT INTO orders_mirror (id, order_id, buyer_id, status, total, document, created_at)
		VALUES ($1::uuid, $2, $3, $4, $5::numeric, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	_, err = r.pool.Exec(ctx, query,
		order.StorageID,
		order.OrderID,
		order.BuyerID,
		string(order.Status),
		order.TotalAmount.String(),
		doc,
		order.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_storage_id", order.StorageID).Msg("failed to mirror order")
		return fmt.Errorf("failed to mirror order: %w", err)
	}

	return nil
}

// ListByBuyer returns the buyer's orders, newest first.
func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]model.Order, error) {
	query := `
		SELECT id::text, document, created_at
		FROM buyer_orders
		WHERE buyer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, buyerID, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Str("buyer_id", buyerID).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// GetByID retrieves one of the buyer's orders by storage id. Orders of
// other buyers are reported as not found.
func (r *orderRepository) GetByID(ctx context.Context, buyerID string, id uuid.UUID) (*model.Order, error) {
	query := `
		SELECT id::text, document, created_at
		FROM buyer_orders
		WHERE id = $1::uuid AND buyer_id = $2
	`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id.String(), buyerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_storage_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_storage_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return order, nil
}

// scanOrder decodes the stored document. The id and created_at columns
// are authoritative over whatever the document carries.
func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		id        string
		doc       []byte
		createdAt time.Time
	)
	if err := row.Scan(&id, &doc, &createdAt); err != nil {
		return nil, err
	}

	var order model.Order
	if err := json.Unmarshal(doc, &order); err != nil {
		return nil, fmt.Errorf("invalid order document %s: %w", id, err)
	}
	order.StorageID = id
	order.CreatedAt = createdAt.UTC()

	return &order, nil
}
