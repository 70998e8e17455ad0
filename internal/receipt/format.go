package receipt

import (
	"fmt"
	"strings"

	"storefront/internal/model"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders an amount in rupees with Indian digit grouping.
func FormatINR(amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	return inrPrinter.Sprint(currency.Symbol(currency.INR.Amount(f)))
}

// Text renders a receipt as the plain-text download.
func Text(r model.Receipt) string {
	var b strings.Builder

	fmt.Fprintf(&b, "ORDER RECEIPT\n")
	fmt.Fprintf(&b, "=============\n\n")
	fmt.Fprintf(&b, "Order ID: %s\n", r.OrderID)
	fmt.Fprintf(&b, "Date: %s\n", r.Date.Format("02 Jan 2006 15:04"))
	fmt.Fprintf(&b, "Payment Method: %s\n", r.PaymentMethod)
	fmt.Fprintf(&b, "Expected Delivery: %s\n\n", r.ExpectedDeliveryDate.Format("Mon, 02 Jan 2006"))

	fmt.Fprintf(&b, "Customer: %s\n", r.BuyerName)
	fmt.Fprintf(&b, "Phone: %s\n", r.BuyerPhone)
	fmt.Fprintf(&b, "Ship To: %s\n\n", r.ShippingAddress.Formatted())

	fmt.Fprintf(&b, "Items (%d)\n", r.ItemsCount)
	fmt.Fprintf(&b, "---------\n")
	for _, line := range r.Products {
		fmt.Fprintf(&b, "%s x%d  %s\n", line.Name, line.Quantity, FormatINR(line.Total()))
		if line.SKU != "" {
			fmt.Fprintf(&b, "  SKU: %s\n", line.SKU)
		}
	}

	fmt.Fprintf(&b, "\nTotal: %s\n", r.FormattedTotal)
	return b.String()
}

// Filename returns the download name for a receipt.
func Filename(r model.Receipt) string {
	return fmt.Sprintf("receipt-%s.txt", r.OrderID)
}
