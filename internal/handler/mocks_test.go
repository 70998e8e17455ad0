package handler

import (
	"context"

	"storefront/internal/geocode"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) ListByCategory(ctx context.Context, category, after string) (*model.ProductPage, error) {
	args := m.Called(ctx, category, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductPage), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Related(ctx context.Context, id string) ([]model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

// MockRatingService is a mock implementation of RatingService.
type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) Summary(ctx context.Context, productID string) (*model.RatingSummary, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RatingSummary), args.Error(1)
}

func (m *MockRatingService) Submit(ctx context.Context, buyerID, productID string, req *model.RatingRequest) (*model.Rating, error) {
	args := m.Called(ctx, buyerID, productID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Rating), args.Error(1)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Get(ctx context.Context, buyerID string) (*model.CartResponse, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartResponse), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, buyerID string, req *model.CartItemRequest) (*model.CartResponse, error) {
	args := m.Called(ctx, buyerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartResponse), args.Error(1)
}

func (m *MockCartService) Clear(ctx context.Context, buyerID string) error {
	args := m.Called(ctx, buyerID)
	return args.Error(0)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, cmd service.PlaceOrderCommand) (*model.PlaceOrderResponse, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PlaceOrderResponse), args.Error(1)
}

func (m *MockOrderService) CreatePaymentIntent(ctx context.Context, buyerID string, buyNow *model.CartItemRequest) (*model.PaymentIntentResponse, error) {
	args := m.Called(ctx, buyerID, buyNow)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentIntentResponse), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, buyerID string, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, buyerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, buyerID string, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, buyerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// MockProfileService is a mock implementation of ProfileService.
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Get(ctx context.Context, buyerID string) (*model.BuyerProfile, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BuyerProfile), args.Error(1)
}

func (m *MockProfileService) Save(ctx context.Context, buyerID string, billing model.BillingDetails, coords *model.Coordinates) (*model.BuyerProfile, error) {
	args := m.Called(ctx, buyerID, billing, coords)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BuyerProfile), args.Error(1)
}

// MockGeocoder is a mock implementation of geocode.Geocoder.
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Forward(ctx context.Context, billing model.BillingDetails) (*model.Coordinates, error) {
	args := m.Called(ctx, billing)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coordinates), args.Error(1)
}

func (m *MockGeocoder) Reverse(ctx context.Context, coords model.Coordinates) (*geocode.ReverseResult, error) {
	args := m.Called(ctx, coords)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geocode.ReverseResult), args.Error(1)
}
