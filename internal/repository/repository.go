package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for catalogue data access.
type ProductRepository interface {
	// ListByCategory returns up to limit products of a category ordered by
	// name, starting after the product whose id is after.
	ListByCategory(ctx context.Context, category, after string, limit int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Related returns other products of the same category.
	Related(ctx context.Context, category, excludeID string, limit int) ([]model.Product, error)
}

// CartRepository defines the interface for persisted carts.
type CartRepository interface {
	// List returns the buyer's cart lines in the order they were added.
	List(ctx context.Context, buyerID string) ([]model.StoredCartLine, error)

	// Add inserts a line or adds its quantity to the existing line with
	// the same product and SKU.
	Add(ctx context.Context, line *model.StoredCartLine) error

	// Clear removes every line of the buyer's cart.
	Clear(ctx context.Context, buyerID string) error
}

// OrderRepository defines the interface for buyer order data access.
type OrderRepository interface {
	// Create stores the canonical order and assigns its storage id and
	// creation time.
	Create(ctx context.Context, order *model.Order) error

	// Mirror writes a flat copy of a stored order for reporting.
	Mirror(ctx context.Context, order *model.Order) error

	// ListByBuyer returns the buyer's orders, newest first.
	ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]model.Order, error)

	// GetByID retrieves one of the buyer's orders by storage id.
	GetByID(ctx context.Context, buyerID string, id uuid.UUID) (*model.Order, error)
}

// SellerRepository defines the interface for seller projections.
type SellerRepository interface {
	CreateSellerOrder(ctx context.Context, copy *model.SellerOrderCopy) (string, error)
	GetSellerProfile(ctx context.Context, sellerID string) (*model.SellerProfile, error)
	BootstrapSellerProfile(ctx context.Context, sellerID string) error
	AppendOrderSummary(ctx context.Context, sellerID string, summary model.OrderSummary, delta decimal.Decimal) error
	ListSellerOrders(ctx context.Context, sellerID string) ([]model.SellerOrderCopy, error)
}

// RatingRepository defines the interface for product ratings.
type RatingRepository interface {
	ListByProduct(ctx context.Context, productID string) ([]model.Rating, error)
	Create(ctx context.Context, rating *model.Rating) error
}

// ProfileRepository defines the interface for saved buyer profiles.
type ProfileRepository interface {
	// Get returns the profile, or nil when the buyer has none.
	Get(ctx context.Context, buyerID string) (*model.BuyerProfile, error)

	// Save creates or replaces the profile.
	Save(ctx context.Context, profile *model.BuyerProfile) error
}
