package service

import (
	"context"
	"fmt"

	"storefront/internal/checkout"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	normalizer  *checkout.Normalizer
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	normalizer *checkout.Normalizer,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		normalizer:  normalizer,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// Get returns the buyer's normalised cart.
func (s *cartService) Get(ctx context.Context, buyerID string) (*model.CartResponse, error) {
	if buyerID == "" {
		return nil, model.ErrAuthenticationRequired
	}

	cart, err := buildCart(ctx, s.cartRepo, s.productRepo, s.normalizer, buyerID, nil, s.logger)
	if err != nil {
		return nil, err
	}

	return cartResponse(cart), nil
}

// AddItem stores the product snapshot in the cart, merging with an
// existing line of the same product and SKU.
func (s *cartService) AddItem(ctx context.Context, buyerID string, req *model.CartItemRequest) (*model.CartResponse, error) {
	if buyerID == "" {
		return nil, model.ErrAuthenticationRequired
	}
	if req == nil || req.Product == nil {
		return nil, model.NewMissingFieldError("product")
	}
	if req.Quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	productID := checkout.ProductID(req.Product)
	if productID == "" {
		return nil, model.NewMissingFieldError("product.id")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to look up product")
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	line := &model.StoredCartLine{
		BuyerID:   buyerID,
		ProductID: productID,
		SKU:       checkout.ResolveSKU(productID, req.Product, product.Record()),
		Quantity:  req.Quantity,
		Record:    req.Product,
	}
	if err := s.cartRepo.Add(ctx, line); err != nil {
		s.logger.Error().Err(err).Str("buyer_id", buyerID).Str("product_id", productID).Msg("failed to add cart item")
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	s.logger.Debug().
		Str("buyer_id", buyerID).
		Str("product_id", productID).
		Str("sku", line.SKU).
		Int("quantity", line.Quantity).
		Msg("cart item added")

	return s.Get(ctx, buyerID)
}

// Clear empties the buyer's cart.
func (s *cartService) Clear(ctx context.Context, buyerID string) error {
	if buyerID == "" {
		return model.ErrAuthenticationRequired
	}
	if err := s.cartRepo.Clear(ctx, buyerID); err != nil {
		s.logger.Error().Err(err).Str("buyer_id", buyerID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// buildCart loads the stored cart, looks up the current catalogue records
// and normalises both together with the optional buy-now item. A failed
// catalogue lookup degrades to the cart snapshots; a buy-now item must be
// found in the catalogue.
func buildCart(
	ctx context.Context,
	carts repository.CartRepository,
	products repository.ProductRepository,
	normalizer *checkout.Normalizer,
	buyerID string,
	buyNow *model.CartItemRequest,
	logger zerolog.Logger,
) (*checkout.Cart, error) {
	stored, err := carts.List(ctx, buyerID)
	if err != nil {
		logger.Error().Err(err).Str("buyer_id", buyerID).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	ids := make([]string, 0, len(stored)+1)
	for _, l := range stored {
		ids = append(ids, l.ProductID)
	}

	in := checkout.NormalizeInput{Cart: stored}
	buyNowID := ""
	if buyNow != nil && buyNow.Product != nil {
		buyNowID = checkout.ProductID(buyNow.Product)
		if buyNowID == "" {
			return nil, model.NewMissingFieldError("buyNow.product.id")
		}
		in.BuyNow = buyNow.Product
		in.BuyNowQuantity = buyNow.Quantity
		ids = append(ids, buyNowID)
	}

	if len(ids) > 0 {
		found, err := products.GetByIDs(ctx, ids)
		if err != nil {
			// A buy-now item never reached the cart, so nothing vouches for it.
			if buyNowID != "" {
				logger.Error().Err(err).Str("product_id", buyNowID).Msg("failed to look up buy-now product")
				return nil, fmt.Errorf("failed to look up product: %w", err)
			}
			logger.Warn().Err(err).Str("buyer_id", buyerID).Msg("catalogue lookup failed, using cart snapshots")
		} else {
			in.Catalogue = make(map[string]model.Record, len(found))
			for i := range found {
				in.Catalogue[found[i].ID] = found[i].Record()
			}
		}
	}

	if buyNowID != "" {
		if _, ok := in.Catalogue[buyNowID]; !ok {
			return nil, model.ErrProductNotFound
		}
	}

	return normalizer.Normalize(in), nil
}

func cartResponse(cart *checkout.Cart) *model.CartResponse {
	resp := &model.CartResponse{
		Lines: cart.Lines,
		Total: cart.Total(),
	}
	if resp.Lines == nil {
		resp.Lines = []model.CartLine{}
	}
	for _, l := range cart.Lines {
		resp.Count += l.Quantity
	}
	return resp
}
