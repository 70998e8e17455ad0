package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// profileRepository implements the ProfileRepository interface using PostgreSQL.
type profileRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProfileRepository creates a new PostgreSQL-backed buyer profile repository.
func NewProfileRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProfileRepository {
	return &profileRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "profile").Logger(),
	}
}

// Get returns the profile, or nil when the buyer has none.
func (r *profileRepository) Get(ctx context.Context, buyerID string) (*model.BuyerProfile, error) {
	query := `
		SELECT buyer_id, billing, latitude, longitude, updated_at
		FROM buyer_profiles
		WHERE buyer_id = $1
	`

	var (
		p        model.BuyerProfile
		billing  []byte
		lat, lng *float64
	)
	err := r.pool.QueryRow(ctx, query, buyerID).Scan(&p.BuyerID, &billing, &lat, &lng, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("buyer_id", buyerID).Msg("failed to query profile")
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	if err := json.Unmarshal(billing, &p.Billing); err != nil {
		return nil, fmt.Errorf("invalid billing details: %w", err)
	}
	if lat != nil && lng != nil {
		p.Coordinates = &model.Coordinates{Lat: *lat, Lng: *lng}
	}

	return &p, nil
}

// Save creates or replaces the profile. Coordinates already stored are
// kept when the new profile carries none.
func (r *profileRepository) Save(ctx context.Context, p *model.BuyerProfile) error {
	billing, err := json.Marshal(p.Billing)
	if err != nil {
		return fmt.Errorf("failed to encode billing details: %w", err)
	}

	var lat, lng *float64
	if p.Coordinates != nil {
		lat, lng = &p.Coordinates.Lat, &p.Coordinates.Lng
	}

	query := `
		INSERT INTO buyer_profiles (buyer_id, billing, latitude, longitude, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (buyer_id) DO UPDATE
		SET billing    = EXCLUDED.billing,
		    latitude   = COALESCE(EXCLUDED.latitude, buyer_profiles.latitude),
		    longitude  = COALESCE(EXCLUDED.longitude, buyer_profiles.longitude),
		    updated_at = NOW()
		RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query, p.BuyerID, billing, lat, lng).Scan(&p.UpdatedAt); err != nil {
		r.logger.Error().Err(err).Str("buyer_id", p.BuyerID).Msg("failed to save profile")
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}
