package service

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// ratingService implements RatingService.
type ratingService struct {
	ratingRepo  repository.RatingRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewRatingService creates a new rating service.
func NewRatingService(ratingRepo repository.RatingRepository, productRepo repository.ProductRepository, logger zerolog.Logger) RatingService {
	return &ratingService{
		ratingRepo:  ratingRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "rating").Logger(),
	}
}

// Summary aggregates a product's ratings. Products without ratings get a
// zero average and an all-zero distribution.
func (s *ratingService) Summary(ctx context.Context, productID string) (*model.RatingSummary, error) {
	ratings, err := s.ratingRepo.ListByProduct(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to list ratings")
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	summary := &model.RatingSummary{
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		Reviews:      ratings,
	}
	if summary.Reviews == nil {
		summary.Reviews = []model.Rating{}
	}

	total := 0
	for _, r := range ratings {
		if r.Stars < 1 || r.Stars > 5 {
			continue
		}
		summary.Distribution[r.Stars]++
		summary.TotalRatings++
		total += r.Stars
	}
	if summary.TotalRatings > 0 {
		summary.AverageRating = float64(total) / float64(summary.TotalRatings)
	}

	return summary, nil
}

// Submit stores a rating for an existing product.
func (s *ratingService) Submit(ctx context.Context, buyerID, productID string, req *model.RatingRequest) (*model.Rating, error) {
	if buyerID == "" {
		return nil, model.ErrAuthenticationRequired
	}
	if req == nil || req.Stars < 1 || req.Stars > 5 {
		return nil, model.ErrInvalidRating
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to look up product")
		return nil, fmt.Errorf("failed to submit rating: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	name := strings.TrimSpace(req.BuyerName)
	if name == "" {
		name = "Anonymous"
	}

	rating := &model.Rating{
		ProductID: productID,
		BuyerID:   buyerID,
		BuyerName: name,
		Stars:     req.Stars,
		Title:     strings.TrimSpace(req.Title),
		Comment:   strings.TrimSpace(req.Comment),
		Image:     req.Image,
	}
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to create rating")
		return nil, fmt.Errorf("failed to submit rating: %w", err)
	}

	s.logger.Info().
		Str("product_id", productID).
		Str("buyer_id", buyerID).
		Int("rating", rating.Stars).
		Msg("rating submitted")

	return rating, nil
}
