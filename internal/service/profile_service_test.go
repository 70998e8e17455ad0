package service

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func billingDetails() model.BillingDetails {
	return model.BillingDetails{
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "9876543210",
		Address:  "12 MG Road",
		City:     "Bengaluru",
		Pincode:  "560001",
	}
}

func TestProfileService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("No saved profile", func(t *testing.T) {
		profiles := new(MockProfileRepository)
		service := NewProfileService(profiles, zerolog.Nop())
		profiles.On("Get", ctx, "buyer-1").Return(nil, nil)

		profile, err := service.Get(ctx, "buyer-1")
		require.NoError(t, err)
		assert.Equal(t, "buyer-1", profile.BuyerID)
		assert.Nil(t, profile.Coordinates)
	})

	t.Run("Repository error", func(t *testing.T) {
		profiles := new(MockProfileRepository)
		service := NewProfileService(profiles, zerolog.Nop())
		profiles.On("Get", ctx, "buyer-1").Return(nil, errors.New("db down"))

		_, err := service.Get(ctx, "buyer-1")
		assert.Error(t, err)
	})

	t.Run("Anonymous", func(t *testing.T) {
		_, err := NewProfileService(new(MockProfileRepository), zerolog.Nop()).Get(ctx, "")
		assert.ErrorIs(t, err, model.ErrAuthenticationRequired)
	})
}

func TestProfileService_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid billing", func(t *testing.T) {
		profiles := new(MockProfileRepository)
		service := NewProfileService(profiles, zerolog.Nop())
		coords := &model.Coordinates{Lat: 12.97, Lng: 77.59}

		profiles.On("Save", ctx, mock.MatchedBy(func(p *model.BuyerProfile) bool {
			return p.BuyerID == "buyer-1" && p.Coordinates == coords
		})).Return(nil)
		profiles.On("Get", ctx, "buyer-1").Return(&model.BuyerProfile{BuyerID: "buyer-1", Billing: billingDetails(), Coordinates: coords}, nil)

		profile, err := service.Save(ctx, "buyer-1", billingDetails(), coords)
		require.NoError(t, err)
		assert.Equal(t, "Asha Rao", profile.Billing.FullName)
		profiles.AssertExpectations(t)
	})

	t.Run("Missing field", func(t *testing.T) {
		profiles := new(MockProfileRepository)
		service := NewProfileService(profiles, zerolog.Nop())
		billing := billingDetails()
		billing.Pincode = " "

		_, err := service.Save(ctx, "buyer-1", billing, nil)

		var domainErr *model.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, model.ErrCodeMissingField, domainErr.Code)
		assert.Contains(t, domainErr.Message, "pincode")
		profiles.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
