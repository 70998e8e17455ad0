package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is the order confirmation shown to the buyer and cached per device.
type Receipt struct {
	OrderID              string          `json:"id"`
	StorageID            string          `json:"storageId"`
	Date                 time.Time       `json:"date"`
	Total                decimal.Decimal `json:"total"`
	FormattedTotal       string          `json:"formattedTotal"`
	PaymentMethod        PaymentMethod   `json:"paymentMethod"`
	ItemsCount           int             `json:"itemsCount"`
	BuyerName            string          `json:"buyerName"`
	BuyerPhone           string          `json:"buyerPhone"`
	ShippingAddress      Address         `json:"shippingAddress"`
	ExpectedDeliveryDate time.Time       `json:"expectedDeliveryDate"`
	SellerIDs            SellerIDs       `json:"sellerid"`
	Products             []CartLine      `json:"products"`
}
