package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// ratingRepository implements the RatingRepository interface using PostgreSQL.
type ratingRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRatingRepository creates a new PostgreSQL-backed rating repository.
func NewRatingRepository(pool *pgxpool.Pool, logger zerolog.Logger) RatingRepository {
	return &ratingRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "rating").Logger(),
	}
}

// ListByProduct returns a product's ratings, newest first.
func (r *ratingRepository) ListByProduct(ctx context.Context, productID string) ([]model.Rating, error) {
	query := `
		SELECT id::text, product_id, buyer_id, buyer_name, rating, title, comment, image, created_at
		FROM ratings
		WHERE product_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to query ratings")
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}

	ratings, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Rating])
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to scan ratings")
		return nil, fmt.Errorf("failed to scan ratings: %w", err)
	}
	if ratings == nil {
		ratings = []model.Rating{}
	}

	return ratings, nil
}

// Create stores a rating. A missing id is generated.
func (r *ratingRepository) Create(ctx context.Context, rating *model.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}

	query := `
		INSERT INTO ratings (id, product_id, buyer_id, buyer_name, rating, title, comment, image)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		rating.ID,
		rating.ProductID,
		rating.BuyerID,
		rating.BuyerName,
		rating.Stars,
		rating.Title,
		rating.Comment,
		rating.Image,
	).Scan(&rating.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("product_id", rating.ProductID).
			Str("buyer_id", rating.BuyerID).
			Msg("failed to create rating")
		return fmt.Errorf("failed to create rating: %w", err)
	}

	return nil
}
