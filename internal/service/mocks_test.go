package service

import (
	"context"

	"storefront/internal/events"
	"storefront/internal/geocode"
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListByCategory(ctx context.Context, category, after string, limit int) ([]model.Product, error) {
	args := m.Called(ctx, category, after, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) Related(ctx context.Context, category, excludeID string, limit int) ([]model.Product, error) {
	args := m.Called(ctx, category, excludeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

// MockCartRepository is a mock implementation of CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) List(ctx context.Context, buyerID string) ([]model.StoredCartLine, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StoredCartLine), args.Error(1)
}

func (m *MockCartRepository) Add(ctx context.Context, line *model.StoredCartLine) error {
	return m.Called(ctx, line).Error(0)
}

func (m *MockCartRepository) Clear(ctx context.Context, buyerID string) error {
	return m.Called(ctx, buyerID).Error(0)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) Mirror(ctx context.Context, order *model.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, buyerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, buyerID string, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, buyerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// MockSellerStore is a mock implementation of the seller side of the store.
type MockSellerStore struct {
	mock.Mock
}

func (m *MockSellerStore) CreateSellerOrder(ctx context.Context, c *model.SellerOrderCopy) (string, error) {
	args := m.Called(ctx, c)
	return args.String(0), args.Error(1)
}

func (m *MockSellerStore) GetSellerProfile(ctx context.Context, sellerID string) (*model.SellerProfile, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SellerProfile), args.Error(1)
}

func (m *MockSellerStore) BootstrapSellerProfile(ctx context.Context, sellerID string) error {
	return m.Called(ctx, sellerID).Error(0)
}

func (m *MockSellerStore) AppendOrderSummary(ctx context.Context, sellerID string, summary model.OrderSummary, delta decimal.Decimal) error {
	return m.Called(ctx, sellerID, summary, delta).Error(0)
}

// MockRatingRepository is a mock implementation of RatingRepository.
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) ListByProduct(ctx context.Context, productID string) ([]model.Rating, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Rating), args.Error(1)
}

func (m *MockRatingRepository) Create(ctx context.Context, rating *model.Rating) error {
	return m.Called(ctx, rating).Error(0)
}

// MockProfileRepository is a mock implementation of ProfileRepository.
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Get(ctx context.Context, buyerID string) (*model.BuyerProfile, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BuyerProfile), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, profile *model.BuyerProfile) error {
	return m.Called(ctx, profile).Error(0)
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

// MockGateway is a mock implementation of payment.Gateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(ctx context.Context, receipt string, amount decimal.Decimal) (*model.PaymentIntentResponse, error) {
	args := m.Called(ctx, receipt, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentIntentResponse), args.Error(1)
}

func (m *MockGateway) VerifySignature(confirmation model.PaymentConfirmation) error {
	return m.Called(confirmation).Error(0)
}

// MockPublisher is a mock implementation of events.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderPlaced(ctx context.Context, event events.OrderPlaced) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}
