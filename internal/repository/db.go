package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Repositories groups every PostgreSQL-backed repository sharing one pool.
type Repositories struct {
	Products ProductRepository
	Carts    CartRepository
	Orders   OrderRepository
	Sellers  SellerRepository
	Ratings  RatingRepository
	Profiles ProfileRepository
}

// New creates all repositories on pool.
func New(pool *pgxpool.Pool, logger zerolog.Logger) *Repositories {
	return &Repositories{
		Products: NewProductRepository(pool, logger),
		Carts:    NewCartRepository(pool, logger),
		Orders:   NewOrderRepository(pool, logger),
		Sellers:  NewSellerRepository(pool, logger),
		Ratings:  NewRatingRepository(pool, logger),
		Profiles: NewProfileRepository(pool, logger),
	}
}
