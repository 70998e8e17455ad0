package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultSellerID is assigned to lines whose source records name no seller.
const DefaultSellerID = "default_seller"

// Variant is the size/weight/stock snapshot of the selected product variant.
type Variant struct {
	SKU    *string `json:"sku"`
	Stock  any     `json:"stock"`
	Weight any     `json:"weight"`
	Width  any     `json:"width"`
	Height any     `json:"height"`
}

// CartLine is one purchasable unit of the buyer's active selection.
type CartLine struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	SKU       string          `json:"sku"`
	SellerID  string          `json:"sellerId"`
	BrandName string          `json:"brandName,omitempty"`
	Category  string          `json:"category,omitempty"`
	Color     string          `json:"color,omitempty"`
	Size      string          `json:"size,omitempty"`
	Images    []string        `json:"images"`
	Variant   *Variant        `json:"sizevariants,omitempty"`
}

// MoneyScale is the number of decimal places stored for amounts; it
// matches the NUMERIC columns.
const MoneyScale = 2

// Money rounds an amount to MoneyScale places.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// Total returns unit price times quantity.
func (l CartLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// StoredCartLine is a persisted cart entry. Record keeps the product
// snapshot exactly as the client added it.
type StoredCartLine struct {
	BuyerID   string    `json:"-" db:"buyer_id"`
	ProductID string    `json:"productId" db:"product_id"`
	SKU       string    `json:"sku" db:"sku"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Record    Record    `json:"record" db:"record"`
	AddedAt   time.Time `json:"addedAt" db:"added_at"`
}

// CartItemRequest is the payload for adding an item to the cart.
type CartItemRequest struct {
	Product  Record `json:"product"`
	Quantity int    `json:"quantity"`
}

// CartResponse is the normalised view of the buyer's cart.
type CartResponse struct {
	Lines []CartLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}
