package checkout

import (
	"reflect"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBilling() model.BillingDetails {
	return model.BillingDetails{
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "9876543210",
		Address:  "12 MG Road",
		City:     "Bengaluru",
		Pincode:  "560001",
	}
}

func twoSellerLines() []model.CartLine {
	return []model.CartLine{
		{ProductID: "P1", Name: "Kurta", UnitPrice: decimal.NewFromInt(500), Quantity: 2, SKU: "P1", SellerID: "S1"},
		{ProductID: "P2", Name: "Scarf", UnitPrice: decimal.NewFromInt(300), Quantity: 1, SKU: "P2", SellerID: "S2"},
	}
}

func fixedComposer(at time.Time) *Composer {
	c := NewComposer("Karnataka", zerolog.Nop())
	c.now = func() time.Time { return at }
	return c
}

func TestComposer_Compose_TwoSellers(t *testing.T) {
	at := time.UnixMilli(1740825000000)
	c := fixedComposer(at)

	comp, err := c.Compose(ComposeInput{
		BuyerID:       "buyer-1",
		Lines:         twoSellerLines(),
		Billing:       testBilling(),
		Coordinates:   &model.Coordinates{Lat: 12.97, Lng: 77.59},
		PaymentMethod: model.PaymentMethodCOD,
	})
	require.NoError(t, err)

	order := comp.Order
	assert.Equal(t, "ORD-1740825000000", order.OrderID)
	assert.Equal(t, "buyer-1", order.BuyerID)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.True(t, decimal.NewFromInt(1300).Equal(order.TotalAmount))
	assert.Equal(t, []string{"S1", "S2"}, comp.SellerIDs)
	assert.Equal(t, model.SellerIDs{"S1", "S2"}, order.SellerIDs)
	assert.Equal(t, "Karnataka", order.ShippingAddress.Region)
	assert.Equal(t, 12.97, order.ShippingAddress.Latitude)
	assert.Empty(t, order.StorageID)
	assert.Empty(t, comp.Warnings)

	groups := PartitionBySeller(order.Lines)
	require.Len(t, groups, 2)
	assert.Equal(t, "S1", groups[0].SellerID)
	assert.True(t, decimal.NewFromInt(1000).Equal(groups[0].Subtotal))
	assert.Equal(t, "S2", groups[1].SellerID)
	assert.True(t, decimal.NewFromInt(300).Equal(groups[1].Subtotal))
}

func TestComposer_Compose_Preconditions(t *testing.T) {
	c := NewComposer("Karnataka", zerolog.Nop())
	coords := &model.Coordinates{Lat: 1, Lng: 2}

	tests := []struct {
		name     string
		input    ComposeInput
		expected error
	}{
		{
			name:     "no buyer",
			input:    ComposeInput{Lines: twoSellerLines(), Coordinates: coords},
			expected: model.ErrAuthenticationRequired,
		},
		{
			name:     "empty cart",
			input:    ComposeInput{BuyerID: "b1", Coordinates: coords},
			expected: model.ErrEmptyCart,
		},
		{
			name:     "unresolved address",
			input:    ComposeInput{BuyerID: "b1", Lines: twoSellerLines()},
			expected: model.ErrAddressUnresolved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp, err := c.Compose(tt.input)
			assert.Nil(t, comp)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestComposer_Compose_DefaultsBadLines(t *testing.T) {
	c := NewComposer("Karnataka", zerolog.Nop())

	lines := []model.CartLine{
		{ProductID: "P1", UnitPrice: decimal.NewFromInt(-5), Quantity: 0},
	}
	comp, err := c.Compose(ComposeInput{
		BuyerID:         "b1",
		Lines:           lines,
		Billing:         testBilling(),
		Coordinates:     &model.Coordinates{},
		PaymentMethod:   model.PaymentMethodOnline,
		Status:          model.OrderStatusPaid,
		ShippingCharges: decimal.NewFromInt(-40),
	})
	require.NoError(t, err)

	assert.Len(t, comp.Warnings, 2)
	assert.Equal(t, 1, comp.Order.Lines[0].Quantity)
	assert.Equal(t, model.DefaultSellerID, comp.Order.Lines[0].SellerID)
	assert.True(t, comp.Order.TotalAmount.IsZero())
	assert.Equal(t, model.OrderStatusPaid, comp.Order.Status)

	// the caller's slice is untouched
	assert.Equal(t, 0, lines[0].Quantity)
}

func TestComposer_Compose_ShippingAdded(t *testing.T) {
	c := NewComposer("Karnataka", zerolog.Nop())

	comp, err := c.Compose(ComposeInput{
		BuyerID:         "b1",
		Lines:           twoSellerLines(),
		Billing:         testBilling(),
		Coordinates:     &model.Coordinates{},
		ShippingCharges: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1350).Equal(comp.Order.TotalAmount))
	assert.True(t, decimal.NewFromInt(50).Equal(comp.Order.ShippingCharges))
}

func TestComposer_Compose_RoundsToStoredScale(t *testing.T) {
	c := NewComposer("Karnataka", zerolog.Nop())

	comp, err := c.Compose(ComposeInput{
		BuyerID: "b1",
		Lines: []model.CartLine{
			{ProductID: "P1", SKU: "P1", SellerID: "S1", UnitPrice: decimal.RequireFromString("99.999"), Quantity: 3},
			{ProductID: "P2", SKU: "P2", SellerID: "S2", UnitPrice: decimal.RequireFromString("10.004"), Quantity: 1},
		},
		Coordinates:     &model.Coordinates{},
		ShippingCharges: decimal.RequireFromString("49.995"),
	})
	require.NoError(t, err)

	order := comp.Order
	assert.Equal(t, "100", order.Lines[0].UnitPrice.String())
	assert.Equal(t, "10", order.Lines[1].UnitPrice.String())
	assert.Equal(t, "50", order.ShippingCharges.String())
	assert.Equal(t, "360", order.TotalAmount.String())

	for _, g := range PartitionBySeller(order.Lines) {
		assert.True(t, g.Subtotal.Equal(model.Money(g.Subtotal)), "subtotal %s", g.Subtotal)
	}
}

type genLine struct {
	Price    int64
	Quantity int
	Seller   int
}

func genLines() gopter.Gen {
	return gen.SliceOfN(8, gen.Struct(reflect.TypeOf(genLine{}), map[string]gopter.Gen{
		"Price":    gen.Int64Range(0, 100000),
		"Quantity": gen.IntRange(1, 20),
		"Seller":   gen.IntRange(0, 3),
	}))
}

func toCartLines(in []genLine) []model.CartLine {
	lines := make([]model.CartLine, len(in))
	for i, g := range in {
		lines[i] = model.CartLine{
			ProductID: "P" + string(rune('A'+i)),
			SKU:       "P" + string(rune('A'+i)),
			UnitPrice: decimal.New(g.Price, -2),
			Quantity:  g.Quantity,
			SellerID:  []string{"S1", "S2", "S3", ""}[g.Seller],
		}
	}
	return lines
}

func TestComposer_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	c := NewComposer("Karnataka", zerolog.Nop())

	properties.Property("total equals sum of line totals plus shipping", prop.ForAll(
		func(in []genLine, shipping int64) bool {
			lines := toCartLines(in)
			comp, err := c.Compose(ComposeInput{
				BuyerID:         "b1",
				Lines:           lines,
				Coordinates:     &model.Coordinates{},
				ShippingCharges: decimal.NewFromInt(shipping),
			})
			if err != nil {
				return false
			}
			sum := decimal.NewFromInt(shipping)
			for _, l := range lines {
				sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
			}
			return comp.Order.TotalAmount.Equal(sum)
		},
		genLines(),
		gen.Int64Range(0, 200),
	))

	properties.Property("seller subtotals partition the line total", prop.ForAll(
		func(in []genLine) bool {
			comp, err := c.Compose(ComposeInput{
				BuyerID:     "b1",
				Lines:       toCartLines(in),
				Coordinates: &model.Coordinates{},
			})
			if err != nil {
				return false
			}
			groups := PartitionBySeller(comp.Order.Lines)
			if len(groups) != len(comp.SellerIDs) {
				return false
			}
			sum := decimal.Zero
			for i, g := range groups {
				if g.SellerID != comp.SellerIDs[i] {
					return false
				}
				sum = sum.Add(g.Subtotal)
			}
			return sum.Equal(comp.Order.TotalAmount)
		},
		genLines(),
	))

	properties.TestingRun(t)
}
