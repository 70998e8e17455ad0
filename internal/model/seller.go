package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SellerOrderCopy is the per-seller projection of an order.
type SellerOrderCopy struct {
	StorageID string `json:"id,omitempty"`
	// OrderStorageID references the canonical order; the copy does not own it.
	OrderStorageID  string          `json:"orderDocId"`
	OrderID         string          `json:"orderId"`
	SellerID        string          `json:"sellerId"`
	BuyerID         string          `json:"userId"`
	Lines           []CartLine      `json:"products"`
	Subtotal        decimal.Decimal `json:"sellerSubtotal"`
	ShippingCharges decimal.Decimal `json:"shippingCharges"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	Status          OrderStatus     `json:"orderStatus"`
	Contact         BuyerContact    `json:"contact"`
	ShippingAddress Address         `json:"shippingAddress"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// OrderSummary is appended to a seller profile's order history.
type OrderSummary struct {
	OrderID        string          `json:"orderId"`
	OrderStorageID string          `json:"orderDocId"`
	BuyerName      string          `json:"customerName"`
	BuyerPhone     string          `json:"customerPhone"`
	Subtotal       decimal.Decimal `json:"totalAmount"`
	Status         OrderStatus     `json:"orderStatus"`
	Lines          []CartLine      `json:"products"`
	Address        string          `json:"address"`
	Timestamp      time.Time       `json:"orderDate"`
}

// SellerProfile is the externally owned seller aggregate.
type SellerProfile struct {
	SellerID      string          `json:"sellerId"`
	Orders        []OrderSummary  `json:"orders"`
	TotalSales    decimal.Decimal `json:"totalSales"`
	LastOrderDate *time.Time      `json:"lastOrderDate,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
