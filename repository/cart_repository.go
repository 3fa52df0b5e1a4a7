package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anant-harryfan/shreycommerse/models"
)

// CartRepository defines data access for cart line items. It is the single
// writer of cart_items rows; the (user_id, product_id) unique index is
// enforced here at the storage layer, not just in service logic.
type CartRepository interface {
	GetByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	FindByID(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error)
	Insert(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (*models.CartItem, error)
	Delete(ctx context.Context, itemID uuid.UUID) error
}

// GormCartRepository implements CartRepository using GORM.
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository.
func NewGormCartRepository(db *gorm.DB) CartRepository {
	return &GormCartRepository{db: db}
}

// GetByUser retrieves every line item in a user's cart with the product
// snapshot preloaded. An empty cart returns an empty slice, never an error.
func (r *GormCartRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	items := []models.CartItem{}
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Category").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, translateError(err)
	}
	return items, nil
}

// FindByUserAndProduct retrieves the single line item for a (user, product)
// pair. Returns a NotFound-kinded error when no row exists.
func (r *GormCartRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

// Insert creates a new line item. A Conflict-kinded error means a row for
// this (user, product) pair already exists; the service's merge retry
// depends on that signal.
func (r *GormCartRepository) Insert(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, translateError(err)
	}
	return r.findByID(ctx, item.ID)
}

// UpdateQuantity replaces a line item's quantity. Returns a NotFound-kinded
// error if the row is gone.
func (r *GormCartRepository) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, translateError(gorm.ErrRecordNotFound)
	}
	return r.findByID(ctx, itemID)
}

// Delete removes a line item. Deleting an absent row is reported as NotFound
// to surface client bugs rather than hiding them.
func (r *GormCartRepository) Delete(ctx context.Context, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", itemID).Delete(&models.CartItem{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

// FindByID retrieves a single line item by primary key with the product
// snapshot preloaded.
func (r *GormCartRepository) FindByID(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	return r.findByID(ctx, itemID)
}

func (r *GormCartRepository) findByID(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Category").
		Where("id = ?", itemID).
		First(&item).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}
