package service

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// ProductService defines catalogue read operations.
type ProductService interface {
	// ListByCategory returns one page of a category ordered by name.
	ListByCategory(ctx context.Context, category, after string) (*model.ProductPage, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Related returns other products from the same category.
	Related(ctx context.Context, id string) ([]model.Product, error)
}

// CartService defines operations on the buyer's active cart.
type CartService interface {
	Get(ctx context.Context, buyerID string) (*model.CartResponse, error)
	AddItem(ctx context.Context, buyerID string, req *model.CartItemRequest) (*model.CartResponse, error)
	Clear(ctx context.Context, buyerID string) error
}

// PlaceOrderCommand is one checkout submission.
type PlaceOrderCommand struct {
	BuyerID  string
	DeviceID string
	Method   model.PaymentMethod
	Request  *model.PlaceOrderRequest
}

// OrderService defines checkout and order history operations.
type OrderService interface {
	// PlaceOrder turns the buyer's cart into a stored order and projects
	// it onto its sellers.
	PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*model.PlaceOrderResponse, error)

	// CreatePaymentIntent registers a gateway order for the cart total.
	CreatePaymentIntent(ctx context.Context, buyerID string, buyNow *model.CartItemRequest) (*model.PaymentIntentResponse, error)

	// List returns the buyer's orders, newest first.
	List(ctx context.Context, buyerID string, limit, offset int) ([]model.Order, error)

	// GetByID retrieves one of the buyer's orders by storage id.
	GetByID(ctx context.Context, buyerID string, id uuid.UUID) (*model.Order, error)
}

// RatingService defines product review operations.
type RatingService interface {
	Summary(ctx context.Context, productID string) (*model.RatingSummary, error)
	Submit(ctx context.Context, buyerID, productID string, req *model.RatingRequest) (*model.Rating, error)
}

// ProfileService manages saved checkout details.
type ProfileService interface {
	Get(ctx context.Context, buyerID string) (*model.BuyerProfile, error)
	Save(ctx context.Context, buyerID string, billing model.BillingDetails, coords *model.Coordinates) (*model.BuyerProfile, error)
}
