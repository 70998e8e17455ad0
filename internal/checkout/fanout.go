package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// SellerStore is the seller side of the document store.
type SellerStore interface {
	// CreateSellerOrder stores a per-seller order copy and returns its storage id.
	CreateSellerOrder(ctx context.Context, copy *model.SellerOrderCopy) (string, error)

	// GetSellerProfile returns the profile, or nil when it does not exist.
	GetSellerProfile(ctx context.Context, sellerID string) (*model.SellerProfile, error)

	// BootstrapSellerProfile creates an empty profile if none exists.
	BootstrapSellerProfile(ctx context.Context, sellerID string) error

	// AppendOrderSummary appends summary to the order history and adds
	// delta to total sales in one atomic update.
	AppendOrderSummary(ctx context.Context, sellerID string, summary model.OrderSummary, delta decimal.Decimal) error
}

// SellerGroup is the slice of an order that belongs to one seller.
type SellerGroup struct {
	SellerID string
	Lines    []model.CartLine
	Subtotal decimal.Decimal
}

// PartitionBySeller groups lines by seller in first-seen order.
func PartitionBySeller(lines []model.CartLine) []SellerGroup {
	index := make(map[string]int)
	var groups []SellerGroup

	for _, line := range lines {
		sellerID := line.SellerID
		if sellerID == "" {
			sellerID = model.DefaultSellerID
		}
		i, ok := index[sellerID]
		if !ok {
			i = len(groups)
			index[sellerID] = i
			groups = append(groups, SellerGroup{SellerID: sellerID, Subtotal: decimal.Zero})
		}
		groups[i].Lines = append(groups[i].Lines, line)
		groups[i].Subtotal = groups[i].Subtotal.Add(line.Total())
	}

	return groups
}

// SellerOutcome records what happened to one seller's projections.
type SellerOutcome struct {
	SellerID     string
	Subtotal     decimal.Decimal
	CopyID       string
	CopyErr      error
	BootstrapErr error
	ProfileErr   error
}

// Err returns nil when the copy and the profile update both committed.
// A failed bootstrap alone is not an error if the update went through.
func (o SellerOutcome) Err() error {
	if o.CopyErr == nil && o.ProfileErr == nil {
		return nil
	}
	return model.ErrSellerProjectionFailed.Wrap(errors.Join(o.CopyErr, o.BootstrapErr, o.ProfileErr))
}

// FanOutReport lists per-seller outcomes of one fan-out.
type FanOutReport struct {
	OrderStorageID string
	Outcomes       []SellerOutcome
}

// Failures returns the outcomes that did not fully commit.
func (r *FanOutReport) Failures() []SellerOutcome {
	var failed []SellerOutcome
	for _, o := range r.Outcomes {
		if o.Err() != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// FanOutWriter projects a stored order onto its sellers.
type FanOutWriter struct {
	store       SellerStore
	concurrency int
	now         func() time.Time
	logger      zerolog.Logger
}

// NewFanOutWriter creates a fan-out writer. concurrency bounds how many
// sellers are projected at once; 1 processes them sequentially.
func NewFanOutWriter(store SellerStore, concurrency int, logger zerolog.Logger) *FanOutWriter {
	if concurrency < 1 {
		concurrency = 1
	}
	return &FanOutWriter{
		store:       store,
		concurrency: concurrency,
		now:         time.Now,
		logger:      logger.With().Str("component", "seller-fanout").Logger(),
	}
}

// FanOut writes one order copy per seller and updates each seller's
// profile. The order must already be stored. Seller failures are
// reported in the returned report and never abort other sellers; the
// only error is a missing storage id.
func (w *FanOutWriter) FanOut(ctx context.Context, order *model.Order) (*FanOutReport, error) {
	if order == nil || order.StorageID == "" {
		return nil, fmt.Errorf("fan-out requires a stored order")
	}

	groups := PartitionBySeller(order.Lines)
	report := &FanOutReport{
		OrderStorageID: order.StorageID,
		Outcomes:       make([]SellerOutcome, len(groups)),
	}

	var g errgroup.Group
	g.SetLimit(w.concurrency)

	for i, group := range groups {
		g.Go(func() error {
			report.Outcomes[i] = w.project(ctx, order, group)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range report.Outcomes {
		if err := o.Err(); err != nil {
			failed++
			w.logger.Error().
				Err(err).
				Str("order_id", order.OrderID).
				Str("order_storage_id", order.StorageID).
				Str("seller_id", o.SellerID).
				Msg("seller projection failed")
		}
	}

	w.logger.Info().
		Str("order_id", order.OrderID).
		Int("sellers", len(groups)).
		Int("failed", failed).
		Msg("seller fan-out completed")

	return report, nil
}

// project runs the three sub-steps for one seller. Each is attempted
// regardless of how the previous one went.
func (w *FanOutWriter) project(ctx context.Context, order *model.Order, group SellerGroup) SellerOutcome {
	outcome := SellerOutcome{
		SellerID: group.SellerID,
		Subtotal: group.Subtotal,
	}

	sellerCopy := &model.SellerOrderCopy{
		OrderStorageID:  order.StorageID,
		OrderID:         order.OrderID,
		SellerID:        group.SellerID,
		BuyerID:         order.BuyerID,
		Lines:           group.Lines,
		Subtotal:        group.Subtotal,
		ShippingCharges: order.ShippingCharges,
		PaymentMethod:   order.PaymentMethod,
		Status:          order.Status,
		Contact:         order.Contact,
		ShippingAddress: order.ShippingAddress,
	}
	copyID, err := w.store.CreateSellerOrder(ctx, sellerCopy)
	if err != nil {
		outcome.CopyErr = fmt.Errorf("write seller order copy: %w", err)
	} else {
		outcome.CopyID = copyID
	}

	profile, err := w.store.GetSellerProfile(ctx, group.SellerID)
	if err != nil || profile == nil {
		if err != nil {
			w.logger.Warn().Err(err).Str("seller_id", group.SellerID).Msg("failed to read seller profile, bootstrapping")
		}
		if bootErr := w.store.BootstrapSellerProfile(ctx, group.SellerID); bootErr != nil {
			outcome.BootstrapErr = model.ErrProfileBootstrapFailed.Wrap(bootErr)
			w.logger.Warn().Err(bootErr).Str("seller_id", group.SellerID).Msg("could not initialise seller profile")
		}
	}

	summary := model.OrderSummary{
		OrderID:        order.OrderID,
		OrderStorageID: order.StorageID,
		BuyerName:      order.Contact.Name,
		BuyerPhone:     order.Contact.Phone,
		Subtotal:       group.Subtotal,
		Status:         order.Status,
		Lines:          group.Lines,
		Address:        order.ShippingAddress.Formatted(),
		Timestamp:      w.now().UTC(),
	}
	if err := w.store.AppendOrderSummary(ctx, group.SellerID, summary, group.Subtotal); err != nil {
		outcome.ProfileErr = fmt.Errorf("update seller profile: %w", err)
	}

	return outcome
}
