package handler

import (
	"errors"
	"io"
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles checkout and order history HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// PlaceOnline handles POST /api/checkout requests for prepaid orders.
func (h *OrderHandler) PlaceOnline(w http.ResponseWriter, r *http.Request) {
	h.place(w, r, model.PaymentMethodOnline)
}

// PlaceCOD handles POST /api/checkout/cod requests.
func (h *OrderHandler) PlaceCOD(w http.ResponseWriter, r *http.Request) {
	h.place(w, r, model.PaymentMethodCOD)
}

func (h *OrderHandler) place(w http.ResponseWriter, r *http.Request, method model.PaymentMethod) {
	var req model.PlaceOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.PlaceOrder(r.Context(), service.PlaceOrderCommand{
		BuyerID:  buyerID(r),
		DeviceID: r.Header.Get(DeviceIDHeader),
		Method:   method,
		Request:  &req,
	})
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

type paymentIntentRequest struct {
	BuyNow *model.CartItemRequest `json:"buyNow,omitempty"`
}

// PaymentIntent handles POST /api/checkout/payment requests. The body is
// optional and only carries a buy-now item.
func (h *OrderHandler) PaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req paymentIntentRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, err, h.logger)
		return
	}

	intent, err := h.service.CreatePaymentIntent(r.Context(), buyerID(r), req.BuyNow)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, intent)
}

// List handles GET /api/orders?limit=...&offset=... requests.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	orders, err := h.service.List(r.Context(), buyerID(r), limit, offset)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, model.ErrOrderNotFound, h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), buyerID(r), orderID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
