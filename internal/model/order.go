package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order. Checkout only produces
// Pending and Paid; the rest are set by back-office tooling.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusPaid      OrderStatus = "Paid"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// PaymentMethod identifies how the buyer pays.
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "COD"
	PaymentMethodOnline PaymentMethod = "Razorpay"
)

// BuyerContact holds the buyer's contact details as entered at checkout.
type BuyerContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Address is a geocoded shipping address.
type Address struct {
	Line       string  `json:"line"`
	City       string  `json:"city"`
	PostalCode string  `json:"postalCode"`
	Region     string  `json:"region"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// Formatted renders the address as a single display line.
func (a Address) Formatted() string {
	return fmt.Sprintf("%s ,%s ,%s ,%s", a.Line, a.City, a.PostalCode, a.Region)
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// BillingDetails is the checkout form.
type BillingDetails struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Pincode  string `json:"pincode"`
	Region   string `json:"region,omitempty"`
}

// FullAddress joins the address fields the way the geocoder expects them.
func (b BillingDetails) FullAddress() string {
	return fmt.Sprintf("%s, %s, %s", b.Address, b.City, b.Pincode)
}

// MissingField returns the name of the first empty required field.
func (b BillingDetails) MissingField() string {
	fields := []struct {
		name  string
		value string
	}{
		{"fullName", b.FullName},
		{"email", b.Email},
		{"phone", b.Phone},
		{"address", b.Address},
		{"city", b.City},
		{"pincode", b.Pincode},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return f.name
		}
	}
	return ""
}

// SellerIDs is the set of sellers touched by an order. Stored orders
// carry a bare string when exactly one seller is involved and a list
// otherwise; both forms are accepted when reading.
type SellerIDs []string

// MarshalJSON implements json.Marshaler.
func (s SellerIDs) MarshalJSON() ([]byte, error) {
	if len(s) == 1 {
		return json.Marshal(s[0])
	}
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *SellerIDs) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*s = SellerIDs{}
			return nil
		}
		*s = SellerIDs{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("sellerid must be a string or a list of strings: %w", err)
	}
	*s = SellerIDs(many)
	return nil
}

// Order is the canonical record of a completed purchase.
type Order struct {
	// StorageID is the server-assigned primary key. OrderID is for display
	// only and is not guaranteed to be unique.
	StorageID        string          `json:"id,omitempty"`
	OrderID          string          `json:"orderId"`
	BuyerID          string          `json:"userId"`
	Status           OrderStatus     `json:"orderStatus"`
	PaymentMethod    PaymentMethod   `json:"paymentMethod"`
	PaymentReference *string         `json:"paymentId"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	ShippingCharges  decimal.Decimal `json:"shippingCharges"`
	Contact          BuyerContact    `json:"contact"`
	ShippingAddress  Address         `json:"shippingAddress"`
	Lines            []CartLine      `json:"products"`
	SellerIDs        SellerIDs       `json:"sellerid"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ItemCount returns the number of units across all lines.
func (o *Order) ItemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

// PaymentConfirmation is what the gateway hands back to the client after
// a successful online payment.
type PaymentConfirmation struct {
	GatewayOrderID string `json:"razorpay_order_id"`
	PaymentID      string `json:"razorpay_payment_id"`
	Signature      string `json:"razorpay_signature"`
}

// PlaceOrderRequest is the checkout payload shared by both payment entry points.
type PlaceOrderRequest struct {
	Billing     BillingDetails       `json:"billingDetails"`
	Coordinates *Coordinates         `json:"coordinates,omitempty"`
	BuyNow      *CartItemRequest     `json:"buyNow,omitempty"`
	Payment     *PaymentConfirmation `json:"payment,omitempty"`
}

// PlaceOrderResponse is returned once the canonical order is stored.
type PlaceOrderResponse struct {
	Order        *Order  `json:"order"`
	Confirmation Receipt `json:"confirmation"`
	// SellerFailures counts sellers whose projections did not fully
	// commit. It never turns a placed order into a failure.
	SellerFailures int      `json:"sellerFailures"`
	Warnings       []string `json:"warnings,omitempty"`
}

// PaymentIntentResponse carries what the client needs to open the
// gateway's hosted checkout.
type PaymentIntentResponse struct {
	GatewayOrderID string `json:"gatewayOrderId"`
	KeyID          string `json:"keyId"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
}
