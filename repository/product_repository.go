package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anant-harryfan/shreycommerse/models"
)

// ProductRepository defines read-only catalog access. The cart core never
// writes product or category rows.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindAll(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error)
	FindAllCategories(ctx context.Context) ([]models.Category, error)
}

// GormProductRepository implements ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository.
func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID retrieves a product with its category.
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// FindAll retrieves products, optionally filtered by category.
func (r *GormProductRepository) FindAll(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	query := r.db.WithContext(ctx).Preload("Category").Order("created_at DESC")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, translateError(err)
	}
	return products, nil
}

// FindAllCategories retrieves every category.
func (r *GormProductRepository) FindAllCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, translateError(err)
	}
	return categories, nil
}
