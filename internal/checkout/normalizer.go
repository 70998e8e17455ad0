// Package checkout implements the order placement workflow: cart
// normalisation, order composition, seller fan-out and confirmation.
package checkout

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// sellerFields are probed in priority order when resolving a line's seller.
var sellerFields = []string{
	"sellerId",
	"sellerid",
	"seller",
	"vendorId",
	"vendor_id",
	"sellersid",
	"storeId",
	"merchantId",
}

// skuFields are probed in priority order when resolving a line's SKU.
var skuFields = []string{"sku", "SKU", "product_sku", "skuCode", "basesku"}

// skuPlaceholder is what older clients store when a product has no SKU.
const skuPlaceholder = "N/A"

// ResolveSellerID returns the seller named by the first record that names
// one, probing sellerFields in order within each record. Records are
// consulted in the order given; with none matching it returns
// model.DefaultSellerID.
func ResolveSellerID(records ...model.Record) string {
	for _, rec := range records {
		if v := firstString(rec, sellerFields); v != "" {
			return v
		}
	}
	return model.DefaultSellerID
}

// ResolveSKU returns the first SKU found in records, or productID.
func ResolveSKU(productID string, records ...model.Record) string {
	for _, rec := range records {
		if v := firstString(rec, skuFields); v != "" && v != skuPlaceholder {
			return v
		}
	}
	return productID
}

// ProductID returns the product identifier of a record.
func ProductID(rec model.Record) string {
	return firstString(rec, []string{"id", "productId"})
}

// Cart is a normalised, deduplicated list of cart lines.
type Cart struct {
	Lines    []model.CartLine
	Warnings []string
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

// Total returns the sum of line totals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// Add merges line into the cart: an existing line with the same
// (productId, sku) pair absorbs its quantity, anything else is appended.
func (c *Cart) Add(line model.CartLine) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == line.ProductID && c.Lines[i].SKU == line.SKU {
			c.Lines[i].Quantity += line.Quantity
			return
		}
	}
	c.Lines = append(c.Lines, line)
}

// add is Add for normalised lines; a line without a product id is dropped.
func (c *Cart) add(line model.CartLine) {
	if line.ProductID == "" {
		c.Warnings = append(c.Warnings, fmt.Sprintf("line %q has no product id, skipped", line.Name))
		return
	}
	c.Add(line)
}

// NormalizeInput is the raw material for a checkout cart.
type NormalizeInput struct {
	// Cart is the buyer's persisted cart.
	Cart []model.StoredCartLine
	// Catalogue maps product id to the current catalogue record. It takes
	// precedence over the cart snapshot when resolving prices, sellers and
	// SKUs.
	Catalogue map[string]model.Record
	// BuyNow is an optional single item bought directly from a product page.
	BuyNow         model.Record
	BuyNowQuantity int
}

// Normalizer turns raw cart records into CartLines.
type Normalizer struct {
	logger zerolog.Logger
}

// NewNormalizer creates a new cart normalizer.
func NewNormalizer(logger zerolog.Logger) *Normalizer {
	return &Normalizer{
		logger: logger.With().Str("component", "cart-normalizer").Logger(),
	}
}

// Normalize merges the persisted cart with the optional buy-now item.
// An empty result is not an error; callers check Cart.Empty.
func (n *Normalizer) Normalize(in NormalizeInput) *Cart {
	cart := &Cart{}

	for _, stored := range in.Cart {
		rec := stored.Record
		if rec == nil {
			rec = model.Record{"id": stored.ProductID}
		}
		line, warnings := n.Line(rec, in.Catalogue[stored.ProductID], stored.Quantity)
		if line.ProductID == "" {
			line.ProductID = stored.ProductID
		}
		cart.Warnings = append(cart.Warnings, warnings...)
		cart.add(line)
	}

	if in.BuyNow != nil {
		id := ProductID(in.BuyNow)
		line, warnings := n.Line(in.BuyNow, in.Catalogue[id], in.BuyNowQuantity)
		cart.Warnings = append(cart.Warnings, warnings...)
		cart.add(line)
	}

	for _, w := range cart.Warnings {
		n.logger.Warn().Str("diagnostic", w).Msg("cart line defaulted")
	}

	return cart
}

// Line builds one CartLine from a cart record and its catalogue record.
// Malformed price or quantity fields fall back to 0 and 1 and are
// reported as warnings instead of failing the line.
func (n *Normalizer) Line(rec, catalogue model.Record, quantity int) (model.CartLine, []string) {
	var warnings []string

	id := ProductID(rec)
	if id == "" {
		id = ProductID(catalogue)
	}

	// The catalogue prices the line; the snapshot only stands in when the
	// catalogue record is unavailable.
	price, ok := decimalValue(catalogue["price"])
	if !ok {
		price, ok = decimalValue(rec["price"])
	}
	if !ok || price.IsNegative() {
		warnings = append(warnings, fmt.Sprintf("product %s: missing or invalid price, using 0", id))
		price = decimal.Zero
	}
	price = model.Money(price)

	if quantity <= 0 {
		warnings = append(warnings, fmt.Sprintf("product %s: missing or invalid quantity, using 1", id))
		quantity = 1
	}

	name := firstString(rec, []string{"title", "name"})
	if name == "" {
		name = firstString(catalogue, []string{"title", "name"})
	}
	if name == "" {
		name = "Unnamed Product"
	}

	sku := ResolveSKU(id, rec, catalogue)

	line := model.CartLine{
		ProductID: id,
		Name:      name,
		UnitPrice: price,
		Quantity:  quantity,
		SKU:       sku,
		SellerID:  ResolveSellerID(catalogue, rec),
		BrandName: stringValue(rec["brandName"]),
		Category:  stringValue(rec["category"]),
		Color:     stringValue(rec["color"]),
		Size:      stringValue(rec["size"]),
		Images:    stringSlice(rec["images"]),
		Variant:   variantOf(rec, sku),
	}

	return line, warnings
}

// variantOf snapshots variant fields when the record carries any.
func variantOf(rec model.Record, sku string) *model.Variant {
	hasVariant := false
	for _, key := range []string{"stock", "weight", "width", "height", "color", "size"} {
		if present(rec[key]) {
			hasVariant = true
			break
		}
	}
	if !hasVariant {
		return nil
	}

	v := &model.Variant{
		Stock:  nonEmpty(rec["stock"]),
		Weight: nonEmpty(rec["weight"]),
		Width:  nonEmpty(rec["width"]),
		Height: nonEmpty(rec["height"]),
	}
	if explicit := firstString(rec, skuFields); explicit != "" && explicit != skuPlaceholder {
		v.SKU = &sku
	}
	return v
}

func firstString(rec model.Record, keys []string) string {
	if rec == nil {
		return ""
	}
	for _, key := range keys {
		if v := stringValue(rec[key]); v != "" {
			return v
		}
	}
	return ""
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return ""
	}
}

func decimalValue(v any) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case decimal.Decimal:
		return val, true
	case float64:
		return decimal.NewFromFloat(val), true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int64:
		return decimal.NewFromInt(val), true
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

func stringSlice(v any) []string {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := stringValue(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func present(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case float64:
		return val != 0
	case bool:
		return val
	default:
		return true
	}
}

func nonEmpty(v any) any {
	if present(v) {
		return v
	}
	return nil
}
