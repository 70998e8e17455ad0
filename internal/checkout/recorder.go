package checkout

import (
	"context"
	"math/rand/v2"
	"time"

	"storefront/internal/model"
	"storefront/internal/receipt"

	"github.com/rs/zerolog"
)

// CartClearer empties a buyer's persisted cart.
type CartClearer interface {
	Clear(ctx context.Context, buyerID string) error
}

// BuildReceipt builds the confirmation for a stored order. deliveryDays is
// added to the order's creation time to estimate delivery.
func BuildReceipt(order *model.Order, deliveryDays int) model.Receipt {
	created := order.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	products := make([]model.CartLine, len(order.Lines))
	copy(products, order.Lines)

	return model.Receipt{
		OrderID:              order.OrderID,
		StorageID:            order.StorageID,
		Date:                 created,
		Total:                order.TotalAmount,
		FormattedTotal:       receipt.FormatINR(order.TotalAmount),
		PaymentMethod:        order.PaymentMethod,
		ItemsCount:           order.ItemCount(),
		BuyerName:            order.Contact.Name,
		BuyerPhone:           order.Contact.Phone,
		ShippingAddress:      order.ShippingAddress,
		ExpectedDeliveryDate: created.AddDate(0, 0, deliveryDays),
		SellerIDs:            order.SellerIDs,
		Products:             products,
	}
}

// Recorder runs the post-commit steps of a checkout: clearing the cart
// and caching the receipt. Neither step can fail the checkout.
type Recorder struct {
	carts        CartClearer
	cache        receipt.Cache
	deliveryDays func() int
	logger       zerolog.Logger
}

// NewRecorder creates a recorder. cache may be nil, in which case receipts
// are built but not cached.
func NewRecorder(carts CartClearer, cache receipt.Cache, logger zerolog.Logger) *Recorder {
	return &Recorder{
		carts: carts,
		cache: cache,
		// 3 or 4 days
		deliveryDays: func() int { return 3 + rand.IntN(2) },
		logger:       logger.With().Str("component", "checkout-recorder").Logger(),
	}
}

// Record clears the buyer's cart and caches the receipt under deviceID.
// Caching is skipped when deviceID is empty. Recording the same order
// twice leaves a single cached receipt.
func (r *Recorder) Record(ctx context.Context, buyerID, deviceID string, order *model.Order) model.Receipt {
	rec := BuildReceipt(order, r.deliveryDays())

	if r.carts != nil {
		if err := r.carts.Clear(ctx, buyerID); err != nil {
			r.logger.Warn().Err(err).Str("buyer_id", buyerID).Str("order_id", order.OrderID).Msg("failed to clear cart")
		}
	}

	if r.cache == nil || deviceID == "" {
		return rec
	}

	inserted, err := r.cache.Save(ctx, deviceID, rec)
	if err != nil {
		r.logger.Warn().Err(err).Str("order_id", order.OrderID).Msg("failed to cache receipt")
		return rec
	}
	if !inserted {
		r.logger.Debug().Str("order_id", order.OrderID).Msg("receipt already recorded")
	}

	return rec
}
