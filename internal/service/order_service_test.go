package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"storefront/internal/checkout"
	"storefront/internal/events"
	"storefront/internal/model"
	"storefront/internal/receipt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testStorageID = "3c1e2f70-0000-4000-8000-000000000001"

type orderFixture struct {
	carts     *MockCartRepository
	products  *MockProductRepository
	orders    *MockOrderRepository
	profiles  *MockProfileRepository
	sellers   *MockSellerStore
	geocoder  *MockGeocoder
	gateway   *MockGateway
	publisher *MockPublisher
	cache     receipt.Cache
	deps      OrderDependencies
}

func newOrderFixture() *orderFixture {
	logger := zerolog.Nop()
	f := &orderFixture{
		carts:     new(MockCartRepository),
		products:  new(MockProductRepository),
		orders:    new(MockOrderRepository),
		profiles:  new(MockProfileRepository),
		sellers:   new(MockSellerStore),
		geocoder:  new(MockGeocoder),
		gateway:   new(MockGateway),
		publisher: new(MockPublisher),
		cache:     receipt.NewMemoryCache(),
	}
	f.deps = OrderDependencies{
		Carts:      f.carts,
		Products:   f.products,
		Orders:     f.orders,
		Profiles:   f.profiles,
		Normalizer: checkout.NewNormalizer(logger),
		Composer:   checkout.NewComposer("Karnataka", logger),
		FanOut:     checkout.NewFanOutWriter(f.sellers, 1, logger),
		Recorder:   checkout.NewRecorder(f.carts, f.cache, logger),
		Geocoder:   f.geocoder,
		Gateway:    f.gateway,
		Publisher:  f.publisher,
	}
	return f
}

func (f *orderFixture) service() OrderService {
	return NewOrderService(f.deps, zerolog.Nop())
}

// twoSellerCart stocks the cart with 2 x 500 from S1 and 1 x 300 from S2,
// matching the catalogue.
func (f *orderFixture) twoSellerCart(ctx context.Context) {
	f.carts.On("List", ctx, "buyer-1").Return([]model.StoredCartLine{
		{ProductID: "P1", SKU: "K-1", Quantity: 2, Record: model.Record{"id": "P1", "title": "Kurta", "price": 500.0, "sellerId": "S1", "sku": "K-1"}},
		{ProductID: "P2", SKU: "D-1", Quantity: 1, Record: model.Record{"id": "P2", "title": "Dupatta", "price": 300.0, "sellerId": "S2", "sku": "D-1"}},
	}, nil)
	f.products.On("GetByIDs", ctx, mock.Anything).Return(catalogue(), nil)
}

func catalogue() []model.Product {
	return []model.Product{
		{ID: "P1", Name: "Kurta", Price: decimal.NewFromInt(500), Attributes: model.Record{"sellerId": "S1", "sku": "K-1"}},
		{ID: "P2", Name: "Dupatta", Price: decimal.NewFromInt(300), Attributes: model.Record{"sellerId": "S2", "sku": "D-1"}},
	}
}

// storesOrders makes Create assign the storage id and timestamp.
func (f *orderFixture) storesOrders(ctx context.Context) {
	f.orders.On("Create", ctx, mock.AnythingOfType("*model.Order")).
		Run(func(args mock.Arguments) {
			o := args.Get(1).(*model.Order)
			o.StorageID = testStorageID
			o.CreatedAt = time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
		}).
		Return(nil)
}

// acceptsEverything lets every best-effort collaborator succeed.
func (f *orderFixture) acceptsEverything(ctx context.Context) {
	f.orders.On("Mirror", mock.Anything, mock.Anything).Return(nil)
	f.sellers.On("CreateSellerOrder", mock.Anything, mock.Anything).Return("copy", nil)
	f.sellers.On("GetSellerProfile", mock.Anything, mock.Anything).Return(&model.SellerProfile{}, nil)
	f.sellers.On("AppendOrderSummary", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishOrderPlaced", mock.Anything, mock.Anything).Return(nil)
	f.profiles.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.carts.On("Clear", mock.Anything, "buyer-1").Return(nil)
}

func deltaOf(n int64) any {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(n)) })
}

func placeRequest() *model.PlaceOrderRequest {
	return &model.PlaceOrderRequest{
		Billing:     billingDetails(),
		Coordinates: &model.Coordinates{Lat: 12.97, Lng: 77.59},
	}
}

func codCommand(req *model.PlaceOrderRequest) PlaceOrderCommand {
	return PlaceOrderCommand{BuyerID: "buyer-1", DeviceID: "device-1", Method: model.PaymentMethodCOD, Request: req}
}

func TestOrderService_PlaceOrder_TwoSellersCOD(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	f.twoSellerCart(ctx)
	f.storesOrders(ctx)
	f.orders.On("Mirror", mock.Anything, mock.Anything).Return(nil)
	f.sellers.On("CreateSellerOrder", mock.Anything, mock.Anything).Return("copy", nil)
	f.sellers.On("GetSellerProfile", mock.Anything, mock.Anything).Return(&model.SellerProfile{}, nil)
	f.sellers.On("AppendOrderSummary", mock.Anything, "S1", mock.Anything, deltaOf(1000)).Return(nil).Once()
	f.sellers.On("AppendOrderSummary", mock.Anything, "S2", mock.Anything, deltaOf(300)).Return(nil).Once()
	f.publisher.On("PublishOrderPlaced", mock.Anything, mock.MatchedBy(func(e events.OrderPlaced) bool {
		return e.StorageID == testStorageID && e.SellerFailures == 0
	})).Return(nil)
	f.profiles.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.carts.On("Clear", mock.Anything, "buyer-1").Return(nil)

	resp, err := f.service().PlaceOrder(ctx, codCommand(placeRequest()))
	require.NoError(t, err)

	order := resp.Order
	assert.True(t, strings.HasPrefix(order.OrderID, "ORD-"))
	assert.Equal(t, testStorageID, order.StorageID)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Nil(t, order.PaymentReference)
	assert.True(t, decimal.NewFromInt(1300).Equal(order.TotalAmount))
	assert.Equal(t, model.SellerIDs{"S1", "S2"}, order.SellerIDs)
	assert.Equal(t, "Karnataka", order.ShippingAddress.Region)
	assert.Equal(t, 0, resp.SellerFailures)

	assert.Equal(t, 3, resp.Confirmation.ItemsCount)
	cached, err := f.cache.Get(ctx, "device-1", order.OrderID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, testStorageID, cached.StorageID)

	f.sellers.AssertNumberOfCalls(t, "CreateSellerOrder", 2)
	f.sellers.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
	f.carts.AssertCalled(t, "Clear", mock.Anything, "buyer-1")
	f.geocoder.AssertNotCalled(t, "Forward", mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrder_Online(t *testing.T) {
	ctx := context.Background()
	confirmation := model.PaymentConfirmation{GatewayOrderID: "order_abc", PaymentID: "pay_123", Signature: "sig"}

	t.Run("Verified payment is Paid", func(t *testing.T) {
		f := newOrderFixture()
		f.twoSellerCart(ctx)
		f.storesOrders(ctx)
		f.acceptsEverything(ctx)
		f.gateway.On("VerifySignature", confirmation).Return(nil)

		req := placeRequest()
		req.Payment = &confirmation
		resp, err := f.service().PlaceOrder(ctx, PlaceOrderCommand{BuyerID: "buyer-1", Method: model.PaymentMethodOnline, Request: req})
		require.NoError(t, err)

		assert.Equal(t, model.OrderStatusPaid, resp.Order.Status)
		assert.Equal(t, model.PaymentMethodOnline, resp.Order.PaymentMethod)
		require.NotNil(t, resp.Order.PaymentReference)
		assert.Equal(t, "pay_123", *resp.Order.PaymentReference)
	})

	t.Run("Bad signature stores nothing", func(t *testing.T) {
		f := newOrderFixture()
		f.twoSellerCart(ctx)
		f.gateway.On("VerifySignature", confirmation).Return(model.ErrPaymentVerificationFailed)

		req := placeRequest()
		req.Payment = &confirmation
		_, err := f.service().PlaceOrder(ctx, PlaceOrderCommand{BuyerID: "buyer-1", Method: model.PaymentMethodOnline, Request: req})
		assert.ErrorIs(t, err, model.ErrPaymentVerificationFailed)
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Missing confirmation", func(t *testing.T) {
		f := newOrderFixture()
		f.twoSellerCart(ctx)

		_, err := f.service().PlaceOrder(ctx, PlaceOrderCommand{BuyerID: "buyer-1", Method: model.PaymentMethodOnline, Request: placeRequest()})
		assert.ErrorIs(t, err, model.ErrPaymentVerificationFailed)
	})

	t.Run("No gateway configured", func(t *testing.T) {
		f := newOrderFixture()
		f.twoSellerCart(ctx)
		f.deps.Gateway = nil

		req := placeRequest()
		req.Payment = &confirmation
		_, err := f.service().PlaceOrder(ctx, PlaceOrderCommand{BuyerID: "buyer-1", Method: model.PaymentMethodOnline, Request: req})
		assert.ErrorIs(t, err, model.ErrPaymentGatewayUnavailable)
	})
}

func TestOrderService_PlaceOrder_Preconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("Anonymous buyer", func(t *testing.T) {
		f := newOrderFixture()
		cmd := codCommand(placeRequest())
		cmd.BuyerID = ""

		_, err := f.service().PlaceOrder(ctx, cmd)
		assert.ErrorIs(t, err, model.ErrAuthenticationRequired)
		f.carts.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("Missing billing field", func(t *testing.T) {
		f := newOrderFixture()
		req := placeRequest()
		req.Billing.Phone = ""

		_, err := f.service().PlaceOrder(ctx, codCommand(req))
		var domainErr *model.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, model.ErrCodeMissingField, domainErr.Code)
		assert.True(t, domainErr.Recoverable)
	})

	t.Run("Empty cart", func(t *testing.T) {
		f := newOrderFixture()
		f.carts.On("List", ctx, "buyer-1").Return([]model.StoredCartLine{}, nil)

		req := placeRequest()
		req.Coordinates = nil
		_, err := f.service().PlaceOrder(ctx, codCommand(req))
		assert.ErrorIs(t, err, model.ErrEmptyCart)
		f.geocoder.AssertNotCalled(t, "Forward", mock.Anything, mock.Anything)
	})

	t.Run("Cart read failure", func(t *testing.T) {
		f := newOrderFixture()
		f.carts.On("List", ctx, "buyer-1").Return(nil, errors.New("db down"))

		_, err := f.service().PlaceOrder(ctx, codCommand(placeRequest()))
		assert.Error(t, err)
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestOrderService_PlaceOrder_Coordinates(t *testing.T) {
	ctx := context.Background()
	geocoded := &model.Coordinates{Lat: 12.9716, Lng: 77.5946}

	t.Run("Forward geocoded", func(t *testing.T) {
		f := newOrderFixture()
		f.twoSellerCart(ctx)
		f.storesOrders(ctx)
		f.acceptsEverything(ctx)
		f.profiles.On("Get", ctx, "buyer-1").Return(nil, nil)
		f.geocoder.On("Forward", ctx, billingDetails()).Return(geocoded, nil)

		req := placeRequest()
		req.Coordinates = nil
		resp, err := f.service().PlaceOrder(ctx, codCommand(req))
		require.NoError(t, err)
		assert.Equal(t, 12.9716, resp.Order.ShippingAddress.Latitude)
		assert.Equal(t, 77.5946, resp.Order.ShippingAddress.Longitude)
	})

	t.Run("Saved coordinates for the same address", func(t *testing.T) {
		f := newOrderFixture()
		f.twoSellerCart(ctx)
		f.storesOrders(ctx)
		f.acceptsEverything(ctx)
		saved := billingDetails()
		saved.City = " bengaluru "
		f.profiles.On("Get", ctx, "buyer-1").Return(&model.BuyerProfile{Billing: saved, Coordinates: geocoded}, nil)

		req := placeRequest()
		req.Coordinates = nil
		resp, err := f.service().PlaceOrder(ctx, codCommand(req))
		require.NoError(t, err)
		assert.Equal(t, 12.9716, resp.Order.ShippingAddress.Latitude)
		f.geocoder.AssertNotCalled(t, "Forward", mock.Anything, mock.Anything)
	})

	t.Run("Saved coordinates for another address are ignored", func(t *testing.T) {
		f := newOrderFixture()
		f.twoSellerCart(ctx)
		saved := billingDetails()
		saved.Address = "1 Brigade Road"
		f.profiles.On("Get", ctx, "buyer-1").Return(&model.BuyerProfile{Billing: saved, Coordinates: geocoded}, nil)
		f.geocoder.On("Forward", ctx, billingDetails()).Return(nil, model.ErrAddressNotFound)

		req := placeRequest()
		req.Coordinates = nil
		_, err := f.service().PlaceOrder(ctx, codCommand(req))
		assert.ErrorIs(t, err, model.ErrAddressNotFound)
		assert.True(t, model.IsAddressError(err))
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("No geocoder", func(t *testing.T) {
		f := newOrderFixture()
		f.twoSellerCart(ctx)
		f.profiles.On("Get", ctx, "buyer-1").Return(nil, nil)
		f.deps.Geocoder = nil

		req := placeRequest()
		req.Coordinates = nil
		_, err := f.service().PlaceOrder(ctx, codCommand(req))
		assert.ErrorIs(t, err, model.ErrAddressUnresolved)
	})
}

func TestOrderService_PlaceOrder_PersistFailureStopsEverything(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	f.twoSellerCart(ctx)
	f.orders.On("Create", ctx, mock.Anything).Return(errors.New("connection reset"))

	resp, err := f.service().PlaceOrder(ctx, codCommand(placeRequest()))

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, model.ErrOrderPersistFailed)
	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.False(t, domainErr.Recoverable)

	f.orders.AssertNotCalled(t, "Mirror", mock.Anything, mock.Anything)
	f.sellers.AssertNotCalled(t, "CreateSellerOrder", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishOrderPlaced", mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)

	receipts, err := f.cache.List(ctx, "device-1")
	require.NoError(t, err)
	assert.Empty(t, receipts)
}

func TestOrderService_PlaceOrder_SellerFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	f.twoSellerCart(ctx)
	f.storesOrders(ctx)
	f.orders.On("Mirror", mock.Anything, mock.Anything).Return(nil)
	f.sellers.On("CreateSellerOrder", mock.Anything, mock.Anything).Return("copy", nil)
	f.sellers.On("GetSellerProfile", mock.Anything, mock.Anything).Return(&model.SellerProfile{}, nil)
	f.sellers.On("AppendOrderSummary", mock.Anything, "S1", mock.Anything, deltaOf(1000)).Return(nil)
	f.sellers.On("AppendOrderSummary", mock.Anything, "S2", mock.Anything, deltaOf(300)).Return(errors.New("write rejected"))
	f.publisher.On("PublishOrderPlaced", mock.Anything, mock.MatchedBy(func(e events.OrderPlaced) bool {
		return e.SellerFailures == 1
	})).Return(nil)
	f.profiles.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.carts.On("Clear", mock.Anything, "buyer-1").Return(nil)

	resp, err := f.service().PlaceOrder(ctx, codCommand(placeRequest()))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.SellerFailures)
	assert.Equal(t, testStorageID, resp.Order.StorageID)
	f.publisher.AssertExpectations(t)
}

func TestOrderService_PlaceOrder_BestEffortStepsFailing(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	f.twoSellerCart(ctx)
	f.storesOrders(ctx)
	f.orders.On("Mirror", mock.Anything, mock.Anything).Return(errors.New("mirror down"))
	f.sellers.On("CreateSellerOrder", mock.Anything, mock.Anything).Return("copy", nil)
	f.sellers.On("GetSellerProfile", mock.Anything, mock.Anything).Return(&model.SellerProfile{}, nil)
	f.sellers.On("AppendOrderSummary", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishOrderPlaced", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	f.profiles.On("Save", mock.Anything, mock.Anything).Return(errors.New("profile down"))
	f.carts.On("Clear", mock.Anything, "buyer-1").Return(errors.New("cart down"))

	resp, err := f.service().PlaceOrder(ctx, codCommand(placeRequest()))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.SellerFailures)
	assert.Equal(t, resp.Order.OrderID, resp.Confirmation.OrderID)
}

func TestOrderService_PlaceOrder_BuyNowMergesWithCart(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	f.twoSellerCart(ctx)
	f.storesOrders(ctx)
	f.acceptsEverything(ctx)

	req := placeRequest()
	req.BuyNow = &model.CartItemRequest{
		Product:  model.Record{"id": "P1", "title": "Kurta", "price": 500.0, "sellerId": "S1", "sku": "K-1"},
		Quantity: 1,
	}
	resp, err := f.service().PlaceOrder(ctx, codCommand(req))
	require.NoError(t, err)

	require.Len(t, resp.Order.Lines, 2)
	assert.Equal(t, 3, resp.Order.Lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(1800).Equal(resp.Order.TotalAmount))
}

func TestOrderService_PlaceOrder_FollowUpOutlivesRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := newOrderFixture()
	f.twoSellerCart(ctx)
	f.orders.On("Create", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.Order).StorageID = testStorageID
			cancel()
		}).
		Return(nil)

	live := mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil })
	f.orders.On("Mirror", live, mock.Anything).Return(nil).Once()
	f.sellers.On("CreateSellerOrder", live, mock.Anything).Return("copy", nil).Twice()
	f.sellers.On("GetSellerProfile", live, mock.Anything).Return(&model.SellerProfile{}, nil)
	f.sellers.On("AppendOrderSummary", live, mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()
	f.publisher.On("PublishOrderPlaced", live, mock.Anything).Return(nil).Once()
	f.profiles.On("Save", live, mock.Anything).Return(nil).Once()
	f.carts.On("Clear", live, "buyer-1").Return(nil).Once()

	resp, err := f.service().PlaceOrder(ctx, codCommand(placeRequest()))
	require.NoError(t, err)
	require.Error(t, ctx.Err())

	assert.Equal(t, 0, resp.SellerFailures)
	f.orders.AssertExpectations(t)
	f.sellers.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
	f.profiles.AssertExpectations(t)
	f.carts.AssertExpectations(t)

	cached, err := f.cache.Get(context.Background(), "device-1", resp.Order.OrderID)
	require.NoError(t, err)
	assert.NotNil(t, cached)
}

func TestOrderService_PlaceOrder_BuyNowMustBeCatalogued(t *testing.T) {
	ctx := context.Background()

	t.Run("No product id", func(t *testing.T) {
		f := newOrderFixture()
		f.twoSellerCart(ctx)

		req := placeRequest()
		req.BuyNow = &model.CartItemRequest{Product: model.Record{"price": 1.0, "title": "ghost"}, Quantity: 1}
		_, err := f.service().PlaceOrder(ctx, codCommand(req))

		var domainErr *model.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, model.ErrCodeMissingField, domainErr.Code)
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Unknown product", func(t *testing.T) {
		f := newOrderFixture()
		f.twoSellerCart(ctx)

		req := placeRequest()
		req.BuyNow = &model.CartItemRequest{Product: model.Record{"id": "P404", "price": 1.0}, Quantity: 1}
		_, err := f.service().PlaceOrder(ctx, codCommand(req))

		assert.ErrorIs(t, err, model.ErrProductNotFound)
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Catalogue unavailable", func(t *testing.T) {
		f := newOrderFixture()
		f.carts.On("List", ctx, "buyer-1").Return([]model.StoredCartLine{}, nil)
		f.products.On("GetByIDs", ctx, mock.Anything).Return(nil, errors.New("timeout"))

		req := placeRequest()
		req.BuyNow = &model.CartItemRequest{Product: model.Record{"id": "P1", "price": 1.0}, Quantity: 1}
		_, err := f.service().PlaceOrder(ctx, codCommand(req))

		require.Error(t, err)
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Payment intent", func(t *testing.T) {
		f := newOrderFixture()
		f.twoSellerCart(ctx)

		_, err := f.service().CreatePaymentIntent(ctx, "buyer-1", &model.CartItemRequest{Product: model.Record{"id": "P404"}, Quantity: 1})
		assert.ErrorIs(t, err, model.ErrProductNotFound)
		f.gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrderService_PlaceOrder_BuyNowPricedFromCatalogue(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	f.carts.On("List", ctx, "buyer-1").Return([]model.StoredCartLine{}, nil)
	f.products.On("GetByIDs", ctx, []string{"P1"}).Return(catalogue()[:1], nil)
	f.storesOrders(ctx)
	f.acceptsEverything(ctx)

	req := placeRequest()
	req.BuyNow = &model.CartItemRequest{Product: model.Record{"id": "P1", "price": 1.0}, Quantity: 2}
	resp, err := f.service().PlaceOrder(ctx, codCommand(req))
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(1000).Equal(resp.Order.TotalAmount))
	f.sellers.AssertCalled(t, "AppendOrderSummary", mock.Anything, "S1", mock.Anything, deltaOf(1000))
}

func TestOrderService_PlaceOrder_ShippingCharges(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	f.deps.ShippingCharges = decimal.NewFromInt(49)
	f.twoSellerCart(ctx)
	f.storesOrders(ctx)
	f.acceptsEverything(ctx)

	resp, err := f.service().PlaceOrder(ctx, codCommand(placeRequest()))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1349).Equal(resp.Order.TotalAmount))
	assert.True(t, decimal.NewFromInt(49).Equal(resp.Order.ShippingCharges))
}

func TestOrderService_CreatePaymentIntent(t *testing.T) {
	ctx := context.Background()

	t.Run("Cart total", func(t *testing.T) {
		f := newOrderFixture()
		f.twoSellerCart(ctx)
		intent := &model.PaymentIntentResponse{GatewayOrderID: "order_abc", KeyID: "rzp", Amount: 130000, Currency: "INR"}
		f.gateway.On("CreateOrder", ctx, mock.MatchedBy(func(r string) bool { return strings.HasPrefix(r, "rcpt-") }), deltaOf(1300)).
			Return(intent, nil)

		got, err := f.service().CreatePaymentIntent(ctx, "buyer-1", nil)
		require.NoError(t, err)
		assert.Equal(t, intent, got)
	})

	t.Run("Gateway down", func(t *testing.T) {
		f := newOrderFixture()
		f.twoSellerCart(ctx)
		f.gateway.On("CreateOrder", ctx, mock.Anything, mock.Anything).Return(nil, model.ErrPaymentGatewayUnavailable)

		_, err := f.service().CreatePaymentIntent(ctx, "buyer-1", nil)
		assert.ErrorIs(t, err, model.ErrPaymentGatewayUnavailable)
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("No gateway", func(t *testing.T) {
		f := newOrderFixture()
		f.twoSellerCart(ctx)
		f.deps.Gateway = nil

		_, err := f.service().CreatePaymentIntent(ctx, "buyer-1", nil)
		assert.ErrorIs(t, err, model.ErrPaymentGatewayUnavailable)
	})

	t.Run("Empty cart", func(t *testing.T) {
		f := newOrderFixture()
		f.carts.On("List", ctx, "buyer-1").Return([]model.StoredCartLine{}, nil)

		_, err := f.service().CreatePaymentIntent(ctx, "buyer-1", nil)
		assert.ErrorIs(t, err, model.ErrEmptyCart)
	})
}

func TestOrderService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		limit         int
		offset        int
		expectedLimit int
		expectedOff   int
	}{
		{name: "Defaults", limit: 0, offset: 0, expectedLimit: defaultOrderLimit, expectedOff: 0},
		{name: "Clamped", limit: 500, offset: -3, expectedLimit: maxOrderLimit, expectedOff: 0},
		{name: "As given", limit: 5, offset: 10, expectedLimit: 5, expectedOff: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture()
			f.orders.On("ListByBuyer", ctx, "buyer-1", tt.expectedLimit, tt.expectedOff).Return(nil, nil)

			orders, err := f.service().List(ctx, "buyer-1", tt.limit, tt.offset)
			require.NoError(t, err)
			assert.NotNil(t, orders)
			f.orders.AssertExpectations(t)
		})
	}
}

func TestOrderService_GetByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.MustParse(testStorageID)

	t.Run("Found", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("GetByID", ctx, "buyer-1", id).Return(&model.Order{StorageID: testStorageID}, nil)

		order, err := f.service().GetByID(ctx, "buyer-1", id)
		require.NoError(t, err)
		assert.Equal(t, testStorageID, order.StorageID)
	})

	t.Run("Not found", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("GetByID", ctx, "buyer-1", id).Return(nil, nil)

		_, err := f.service().GetByID(ctx, "buyer-1", id)
		assert.ErrorIs(t, err, model.ErrOrderNotFound)
	})

	t.Run("Repository error", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("GetByID", ctx, "buyer-1", id).Return(nil, errors.New("db down"))

		_, err := f.service().GetByID(ctx, "buyer-1", id)
		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrOrderNotFound)
	})
}
