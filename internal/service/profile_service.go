package service

import (
	"context"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// profileService implements ProfileService.
type profileService struct {
	profileRepo repository.ProfileRepository
	logger      zerolog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(profileRepo repository.ProfileRepository, logger zerolog.Logger) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		logger:      logger.With().Str("service", "profile").Logger(),
	}
}

// Get returns the saved profile. A buyer without one gets an empty profile.
func (s *profileService) Get(ctx context.Context, buyerID string) (*model.BuyerProfile, error) {
	if buyerID == "" {
		return nil, model.ErrAuthenticationRequired
	}

	profile, err := s.profileRepo.Get(ctx, buyerID)
	if err != nil {
		s.logger.Error().Err(err).Str("buyer_id", buyerID).Msg("failed to get profile")
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return &model.BuyerProfile{BuyerID: buyerID}, nil
	}
	return profile, nil
}

// Save validates and stores the billing details. Nil coordinates keep
// whatever was stored before.
func (s *profileService) Save(ctx context.Context, buyerID string, billing model.BillingDetails, coords *model.Coordinates) (*model.BuyerProfile, error) {
	if buyerID == "" {
		return nil, model.ErrAuthenticationRequired
	}
	if field := billing.MissingField(); field != "" {
		return nil, model.NewMissingFieldError(field)
	}

	profile := &model.BuyerProfile{
		BuyerID:     buyerID,
		Billing:     billing,
		Coordinates: coords,
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		s.logger.Error().Err(err).Str("buyer_id", buyerID).Msg("failed to save profile")
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	return s.Get(ctx, buyerID)
}
