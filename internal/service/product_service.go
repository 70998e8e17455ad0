package service

import (
	"context"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

const (
	// CataloguePageSize is the number of products per category page.
	CataloguePageSize = 8
	// RelatedLimit caps the related products shown on a product page.
	RelatedLimit = 10
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// ListByCategory fetches one extra row to learn whether another page exists.
func (s *productService) ListByCategory(ctx context.Context, category, after string) (*model.ProductPage, error) {
	products, err := s.productRepo.ListByCategory(ctx, category, after, CataloguePageSize+1)
	if err != nil {
		s.logger.Error().Err(err).
			Str("category", category).
			Str("after", after).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	page := &model.ProductPage{Products: products}
	if len(products) > CataloguePageSize {
		page.Products = products[:CataloguePageSize]
		page.HasMore = true
		page.NextCursor = page.Products[CataloguePageSize-1].ID
	}
	if page.Products == nil {
		page.Products = []model.Product{}
	}

	s.logger.Debug().
		Str("category", category).
		Int("count", len(page.Products)).
		Bool("has_more", page.HasMore).
		Msg("retrieved products")

	return page, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Related returns up to RelatedLimit products sharing the product's category.
func (s *productService) Related(ctx context.Context, id string) ([]model.Product, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	related, err := s.productRepo.Related(ctx, product.Category, product.ID, RelatedLimit)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get related products")
		return nil, fmt.Errorf("failed to get related products: %w", err)
	}
	if related == nil {
		related = []model.Product{}
	}

	return related, nil
}
