package checkout

import (
	"fmt"
	"strings"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ComposeInput carries everything needed to build an order.
type ComposeInput struct {
	BuyerID          string
	Lines            []model.CartLine
	Billing          model.BillingDetails
	Coordinates      *model.Coordinates
	PaymentMethod    model.PaymentMethod
	Status           model.OrderStatus
	PaymentReference *string
	ShippingCharges  decimal.Decimal
}

// Composition is the result of composing an order.
type Composition struct {
	Order     model.Order
	SellerIDs []string
	Warnings  []string
}

// Composer builds canonical orders. It performs no I/O.
type Composer struct {
	defaultRegion string
	now           func() time.Time
	logger        zerolog.Logger
}

// NewComposer creates a new order composer.
func NewComposer(defaultRegion string, logger zerolog.Logger) *Composer {
	return &Composer{
		defaultRegion: defaultRegion,
		now:           time.Now,
		logger:        logger.With().Str("component", "order-composer").Logger(),
	}
}

// Compose validates the preconditions and builds the order. The returned
// order has no storage id and no creation time; both are assigned by the
// store.
func (c *Composer) Compose(in ComposeInput) (*Composition, error) {
	if strings.TrimSpace(in.BuyerID) == "" {
		return nil, model.ErrAuthenticationRequired
	}
	if len(in.Lines) == 0 {
		return nil, model.ErrEmptyCart
	}
	if in.Coordinates == nil {
		return nil, model.ErrAddressUnresolved
	}

	var warnings []string
	lines := make([]model.CartLine, len(in.Lines))
	total := decimal.Zero
	sellerIDs := make([]string, 0, len(in.Lines))
	seen := make(map[string]bool, len(in.Lines))

	for i, l := range in.Lines {
		line := l
		line.Images = append([]string(nil), l.Images...)

		if line.UnitPrice.IsNegative() {
			warnings = append(warnings, fmt.Sprintf("product %s: negative price, using 0", line.ProductID))
			line.UnitPrice = decimal.Zero
		}
		line.UnitPrice = model.Money(line.UnitPrice)
		if line.Quantity <= 0 {
			warnings = append(warnings, fmt.Sprintf("product %s: invalid quantity, using 1", line.ProductID))
			line.Quantity = 1
		}
		if line.SellerID == "" {
			line.SellerID = model.DefaultSellerID
		}

		lines[i] = line
		total = total.Add(line.Total())

		if !seen[line.SellerID] {
			seen[line.SellerID] = true
			sellerIDs = append(sellerIDs, line.SellerID)
		}
	}

	shipping := model.Money(in.ShippingCharges)
	if shipping.IsNegative() {
		shipping = decimal.Zero
	}

	status := in.Status
	if status == "" {
		status = model.OrderStatusPending
	}

	region := in.Billing.Region
	if region == "" {
		region = c.defaultRegion
	}

	order := model.Order{
		OrderID:          fmt.Sprintf("ORD-%d", c.now().UnixMilli()),
		BuyerID:          in.BuyerID,
		Status:           status,
		PaymentMethod:    in.PaymentMethod,
		PaymentReference: in.PaymentReference,
		TotalAmount:      total.Add(shipping),
		ShippingCharges:  shipping,
		Contact: model.BuyerContact{
			Name:  in.Billing.FullName,
			Phone: in.Billing.Phone,
			Email: in.Billing.Email,
		},
		ShippingAddress: model.Address{
			Line:       in.Billing.Address,
			City:       in.Billing.City,
			PostalCode: in.Billing.Pincode,
			Region:     region,
			Latitude:   in.Coordinates.Lat,
			Longitude:  in.Coordinates.Lng,
		},
		Lines:     lines,
		SellerIDs: model.SellerIDs(sellerIDs),
	}

	for _, w := range warnings {
		c.logger.Warn().Str("buyer_id", in.BuyerID).Str("diagnostic", w).Msg("order line defaulted")
	}

	return &Composition{
		Order:     order,
		SellerIDs: sellerIDs,
		Warnings:  warnings,
	}, nil
}
