package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anant-harryfan/shreycommerse/models"
	"github.com/anant-harryfan/shreycommerse/repository"
)

// CatalogService provides read-only product and category lookups. The cart
// core consumes it to validate add targets; the storefront uses it for
// listings. Nothing here mutates catalog state.
type CatalogService interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type catalogServiceImpl struct {
	repo   repository.ProductRepository
	cache  *ProductCache
	logger *zap.Logger
}

// NewCatalogService creates a new CatalogService. cache may be nil.
func NewCatalogService(repo repository.ProductRepository, cache *ProductCache, logger *zap.Logger) CatalogService {
	return &catalogServiceImpl{repo: repo, cache: cache, logger: logger}
}

// GetProduct retrieves one product, serving from the Redis cache when warm.
func (s *catalogServiceImpl) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if product, ok := s.cache.GetProduct(ctx, productID.String()); ok {
		return product, nil
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	s.cache.SetProductAsync(productID.String(), product)
	return product, nil
}

// ListProducts retrieves products, optionally filtered by category.
func (s *catalogServiceImpl) ListProducts(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error) {
	return s.repo.FindAll(ctx, categoryID)
}

// ListCategories retrieves every category.
func (s *catalogServiceImpl) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.FindAllCategories(ctx)
}
