package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is a loosely typed product or cart document. Catalogue entries
// written by different seller tools disagree on field names, so lookups
// that must tolerate aliases work on Record rather than on Product.
type Record map[string]any

// Product represents a catalogue entry.
type Product struct {
	ID         string          `json:"id" db:"id"`
	Name       string          `json:"name" db:"name"`
	Price      decimal.Decimal `json:"price" db:"price"`
	Category   string          `json:"category" db:"category"`
	Attributes Record          `json:"attributes,omitempty" db:"attributes"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
}

// Record flattens the product into a Record. Typed columns win over
// attribute keys of the same name.
func (p *Product) Record() Record {
	rec := make(Record, len(p.Attributes)+4)
	for k, v := range p.Attributes {
		rec[k] = v
	}
	rec["id"] = p.ID
	rec["name"] = p.Name
	rec["price"] = p.Price.String()
	rec["category"] = p.Category
	return rec
}

// ProductPage is one keyset-paginated slice of a category listing.
type ProductPage struct {
	Products []Product `json:"products"`
	// NextCursor is the product id to pass as "after" for the next page;
	// empty when there are no more products.
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}
