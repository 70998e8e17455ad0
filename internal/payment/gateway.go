// Package payment talks to the Razorpay orders API and verifies the
// signatures it returns to the browser after checkout.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"storefront/internal/config"
	"storefront/internal/model"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Gateway creates payment intents and verifies completed payments.
type Gateway interface {
	CreateOrder(ctx context.Context, receipt string, amount decimal.Decimal) (*model.PaymentIntentResponse, error)
	VerifySignature(confirmation model.PaymentConfirmation) error
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// Razorpay is a Gateway backed by the Razorpay REST API.
type Razorpay struct {
	http      *resty.Client
	keyID     string
	keySecret string
	currency  string
	logger    zerolog.Logger
}

// NewRazorpay creates a Razorpay gateway.
func NewRazorpay(cfg config.PaymentConfig, logger zerolog.Logger) *Razorpay {
	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetBasicAuth(cfg.KeyID, cfg.KeySecret).
		SetHeader("Content-Type", "application/json")

	return &Razorpay{
		http:      http,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		currency:  cfg.Currency,
		logger:    logger.With().Str("component", "razorpay").Logger(),
	}
}

// ToPaise converts a rupee amount to the smallest currency unit.
func ToPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CreateOrder registers a gateway order for amount. receipt is the
// storefront's display order id.
func (r *Razorpay) CreateOrder(ctx context.Context, receipt string, amount decimal.Decimal) (*model.PaymentIntentResponse, error) {
	if !amount.IsPositive() {
		return nil, model.ErrEmptyCart
	}

	var created createOrderResponse
	var apiErr errorResponse
	resp, err := r.http.R().
		SetContext(ctx).
		SetBody(createOrderRequest{
			Amount:   ToPaise(amount),
			Currency: r.currency,
			Receipt:  receipt,
		}).
		SetResult(&created).
		SetError(&apiErr).
		Post("/v1/orders")
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to reach payment gateway")
		return nil, model.ErrPaymentGatewayUnavailable.Wrap(err)
	}
	if resp.IsError() {
		r.logger.Error().
			Int("status", resp.StatusCode()).
			Str("code", apiErr.Error.Code).
			Str("description", apiErr.Error.Description).
			Msg("payment gateway rejected order")
		return nil, model.ErrPaymentGatewayUnavailable.Wrap(fmt.Errorf("gateway status %d", resp.StatusCode()))
	}

	r.logger.Info().Str("gateway_order_id", created.ID).Str("receipt", receipt).Msg("payment order created")

	return &model.PaymentIntentResponse{
		GatewayOrderID: created.ID,
		KeyID:          r.keyID,
		Amount:         created.Amount,
		Currency:       created.Currency,
	}, nil
}

// VerifySignature checks the HMAC-SHA256 signature over
// "<order id>|<payment id>" keyed with the account secret.
func (r *Razorpay) VerifySignature(confirmation model.PaymentConfirmation) error {
	if confirmation.GatewayOrderID == "" || confirmation.PaymentID == "" || confirmation.Signature == "" {
		return model.ErrPaymentVerificationFailed
	}

	expected := Sign(r.keySecret, confirmation.GatewayOrderID, confirmation.PaymentID)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(confirmation.Signature))) {
		r.logger.Warn().
			Str("gateway_order_id", confirmation.GatewayOrderID).
			Str("payment_id", confirmation.PaymentID).
			Msg("payment signature mismatch")
		return model.ErrPaymentVerificationFailed
	}
	return nil
}

// Sign computes the hex signature the gateway attaches to a payment.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
