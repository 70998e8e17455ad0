package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/checkout"
	"storefront/internal/events"
	"storefront/internal/geocode"
	"storefront/internal/model"
	"storefront/internal/payment"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultOrderLimit = 20
	maxOrderLimit     = 100
)

// OrderDependencies are the collaborators of the order service. Geocoder,
// Gateway and Publisher may be nil: without a geocoder the buyer must send
// coordinates, without a gateway only cash on delivery works, and without
// a publisher no events are emitted.
type OrderDependencies struct {
	Carts      repository.CartRepository
	Products   repository.ProductRepository
	Orders     repository.OrderRepository
	Profiles   repository.ProfileRepository
	Normalizer *checkout.Normalizer
	Composer   *checkout.Composer
	FanOut     *checkout.FanOutWriter
	Recorder   *checkout.Recorder
	Geocoder   geocode.Geocoder
	Gateway    payment.Gateway
	Publisher  events.Publisher
	// ShippingCharges is added to every order total.
	ShippingCharges decimal.Decimal
}

// orderService implements OrderService.
type orderService struct {
	deps   OrderDependencies
	now    func() time.Time
	logger zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(deps OrderDependencies, logger zerolog.Logger) OrderService {
	return &orderService{
		deps:   deps,
		now:    time.Now,
		logger: logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder runs the checkout workflow. Everything up to and including
// the canonical order write must succeed; the mirror, seller fan-out,
// event, profile and receipt steps afterwards are best effort and never
// fail a stored order.
func (s *orderService) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*model.PlaceOrderResponse, error) {
	if cmd.BuyerID == "" {
		return nil, model.ErrAuthenticationRequired
	}
	if cmd.Request == nil {
		return nil, model.NewMissingFieldError("billingDetails")
	}
	req := cmd.Request
	if field := req.Billing.MissingField(); field != "" {
		return nil, model.NewMissingFieldError(field)
	}

	logger := s.logger.With().
		Str("buyer_id", cmd.BuyerID).
		Str("payment_method", string(cmd.Method)).
		Logger()

	cart, err := buildCart(ctx, s.deps.Carts, s.deps.Products, s.deps.Normalizer, cmd.BuyerID, req.BuyNow, logger)
	if err != nil {
		return nil, err
	}
	if cart.Empty() {
		logger.Info().Msg("checkout with empty cart")
		return nil, model.ErrEmptyCart
	}

	coords, err := s.resolveCoordinates(ctx, cmd.BuyerID, req, logger)
	if err != nil {
		return nil, err
	}

	status := model.OrderStatusPending
	var paymentRef *string
	switch cmd.Method {
	case model.PaymentMethodOnline:
		if req.Payment == nil {
			return nil, model.ErrPaymentVerificationFailed
		}
		if s.deps.Gateway == nil {
			return nil, model.ErrPaymentGatewayUnavailable
		}
		if err := s.deps.Gateway.VerifySignature(*req.Payment); err != nil {
			return nil, err
		}
		status = model.OrderStatusPaid
		id := req.Payment.PaymentID
		paymentRef = &id
	case model.PaymentMethodCOD:
	default:
		return nil, model.NewMissingFieldError("paymentMethod")
	}

	composition, err := s.deps.Composer.Compose(checkout.ComposeInput{
		BuyerID:          cmd.BuyerID,
		Lines:            cart.Lines,
		Billing:          req.Billing,
		Coordinates:      coords,
		PaymentMethod:    cmd.Method,
		Status:           status,
		PaymentReference: paymentRef,
		ShippingCharges:  s.deps.ShippingCharges,
	})
	if err != nil {
		return nil, err
	}
	order := &composition.Order

	if err := s.deps.Orders.Create(ctx, order); err != nil {
		logger.Error().Err(err).Str("order_id", order.OrderID).Msg("failed to persist order")
		return nil, model.ErrOrderPersistFailed.Wrap(err)
	}

	logger = logger.With().
		Str("order_id", order.OrderID).
		Str("order_storage_id", order.StorageID).
		Logger()
	logger.Info().
		Str("total", order.TotalAmount.String()).
		Int("sellers", len(composition.SellerIDs)).
		Msg("order placed")

	// The order is final once saved; follow-up steps outlive the request.
	bg := context.WithoutCancel(ctx)

	if err := s.deps.Orders.Mirror(bg, order); err != nil {
		logger.Warn().Err(err).Msg("failed to mirror order")
	}

	sellerFailures := 0
	if s.deps.FanOut != nil {
		report, err := s.deps.FanOut.FanOut(bg, order)
		if err != nil {
			logger.Error().Err(err).Msg("seller fan-out did not run")
			sellerFailures = len(composition.SellerIDs)
		} else {
			sellerFailures = len(report.Failures())
		}
	}

	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.PublishOrderPlaced(bg, events.NewOrderPlaced(order, sellerFailures)); err != nil {
			logger.Warn().Err(err).Msg("failed to publish order event")
		}
	}

	if s.deps.Profiles != nil {
		profile := &model.BuyerProfile{BuyerID: cmd.BuyerID, Billing: req.Billing, Coordinates: coords}
		if err := s.deps.Profiles.Save(bg, profile); err != nil {
			logger.Warn().Err(err).Msg("failed to save buyer profile")
		}
	}

	confirmation := s.deps.Recorder.Record(bg, cmd.BuyerID, cmd.DeviceID, order)

	warnings := append(append([]string(nil), cart.Warnings...), composition.Warnings...)

	return &model.PlaceOrderResponse{
		Order:          order,
		Confirmation:   confirmation,
		SellerFailures: sellerFailures,
		Warnings:       warnings,
	}, nil
}

// resolveCoordinates prefers coordinates sent with the request, then the
// saved profile when its address matches, then forward geocoding.
func (s *orderService) resolveCoordinates(ctx context.Context, buyerID string, req *model.PlaceOrderRequest, logger zerolog.Logger) (*model.Coordinates, error) {
	if req.Coordinates != nil {
		return req.Coordinates, nil
	}

	if s.deps.Profiles != nil {
		profile, err := s.deps.Profiles.Get(ctx, buyerID)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to read saved profile")
		} else if profile != nil && profile.Coordinates != nil && sameAddress(profile.Billing, req.Billing) {
			logger.Debug().Msg("using saved coordinates")
			return profile.Coordinates, nil
		}
	}

	if s.deps.Geocoder == nil {
		return nil, model.ErrAddressUnresolved
	}

	coords, err := s.deps.Geocoder.Forward(ctx, req.Billing)
	if err != nil {
		logger.Info().Err(err).Msg("address could not be geocoded")
		return nil, err
	}
	return coords, nil
}

func sameAddress(a, b model.BillingDetails) bool {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return norm(a.Address) == norm(b.Address) &&
		norm(a.City) == norm(b.City) &&
		norm(a.Pincode) == norm(b.Pincode)
}

// CreatePaymentIntent registers a gateway order for the current cart
// total, including the buy-now item when given.
func (s *orderService) CreatePaymentIntent(ctx context.Context, buyerID string, buyNow *model.CartItemRequest) (*model.PaymentIntentResponse, error) {
	if buyerID == "" {
		return nil, model.ErrAuthenticationRequired
	}

	cart, err := buildCart(ctx, s.deps.Carts, s.deps.Products, s.deps.Normalizer, buyerID, buyNow, s.logger)
	if err != nil {
		return nil, err
	}
	if cart.Empty() {
		return nil, model.ErrEmptyCart
	}

	if s.deps.Gateway == nil {
		s.logger.Warn().Msg("online payment requested but no gateway is configured")
		return nil, model.ErrPaymentGatewayUnavailable
	}

	shipping := s.deps.ShippingCharges
	if shipping.IsNegative() {
		shipping = decimal.Zero
	}
	receipt := fmt.Sprintf("rcpt-%d", s.now().UnixMilli())

	intent, err := s.deps.Gateway.CreateOrder(ctx, receipt, cart.Total().Add(shipping))
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("buyer_id", buyerID).
		Str("gateway_order_id", intent.GatewayOrderID).
		Int64("amount", intent.Amount).
		Msg("payment intent created")

	return intent, nil
}

// List returns the buyer's orders, newest first.
func (s *orderService) List(ctx context.Context, buyerID string, limit, offset int) ([]model.Order, error) {
	if buyerID == "" {
		return nil, model.ErrAuthenticationRequired
	}
	if limit <= 0 {
		limit = defaultOrderLimit
	}
	if limit > maxOrderLimit {
		limit = maxOrderLimit
	}
	if offset < 0 {
		offset = 0
	}

	orders, err := s.deps.Orders.ListByBuyer(ctx, buyerID, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Str("buyer_id", buyerID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

// GetByID retrieves one of the buyer's orders.
func (s *orderService) GetByID(ctx context.Context, buyerID string, id uuid.UUID) (*model.Order, error) {
	if buyerID == "" {
		return nil, model.ErrAuthenticationRequired
	}

	order, err := s.deps.Orders.GetByID(ctx, buyerID, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_storage_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		s.logger.Debug().Str("order_storage_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}
