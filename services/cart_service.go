package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anant-harryfan/shreycommerse/apperrors"
	"github.com/anant-harryfan/shreycommerse/models"
	"github.com/anant-harryfan/shreycommerse/repository"
)

// CartService is the only entry point that mutates cart state. It owns the
// validation, ownership and quantity-merge policy; handlers stay thin.
type CartService interface {
	List(ctx context.Context, identity models.Identity) ([]models.CartItem, error)
	AddItem(ctx context.Context, identity models.Identity, productID uuid.UUID, quantity int) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, identity models.Identity, itemID uuid.UUID, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, identity models.Identity, itemID uuid.UUID) error
}

type cartServiceImpl struct {
	carts    repository.CartRepository
	identity IdentityService
	catalog  CatalogService
	logger   *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(
	carts repository.CartRepository,
	identity IdentityService,
	catalog CatalogService,
	logger *zap.Logger,
) CartService {
	return &cartServiceImpl{
		carts:    carts,
		identity: identity,
		catalog:  catalog,
		logger:   logger,
	}
}

// List returns the caller's cart lines with product snapshots. An empty cart
// is an empty slice, not an error; an anonymous caller gets Unauthenticated
// and the renderer decides how to present that.
func (s *cartServiceImpl) List(ctx context.Context, identity models.Identity) ([]models.CartItem, error) {
	user, err := s.identity.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.carts.GetByUser(ctx, user.ID)
}

// AddItem puts quantity units of a product into the caller's cart. If a line
// for the (user, product) pair already exists the quantities merge into it;
// at no point may a second line for the same pair appear.
//
// The insert path races with concurrent adds for the same pair: both may see
// no existing line and both insert, but the unique index lets exactly one
// win. The loser observes the conflict, re-fetches the winner's line and
// merges into it, so no concurrently added quantity is ever dropped.
func (s *cartServiceImpl) AddItem(ctx context.Context, identity models.Identity, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, apperrors.InvalidArgument("quantity must be at least 1")
	}
	if productID == uuid.Nil {
		return nil, apperrors.InvalidArgument("product_id is required")
	}

	user, err := s.identity.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, err
	}

	existing, err := s.carts.FindByUserAndProduct(ctx, user.ID, productID)
	switch {
	case err == nil:
		return s.carts.UpdateQuantity(ctx, existing.ID, existing.Quantity+quantity)
	case !apperrors.IsKind(err, apperrors.KindNotFound):
		return nil, err
	}

	created, err := s.carts.Insert(ctx, user.ID, productID, quantity)
	if err == nil {
		return created, nil
	}
	if !apperrors.IsKind(err, apperrors.KindConflict) {
		return nil, err
	}

	// Lost the insert race: a concurrent add created the line first.
	// Retry once as a merge-update against the winner's line.
	existing, findErr := s.carts.FindByUserAndProduct(ctx, user.ID, productID)
	if findErr != nil {
		s.logger.Error("Cart insert conflict with no surviving line",
			zap.String("user_id", user.ID.String()),
			zap.String("product_id", productID.String()),
			zap.Error(findErr))
		return nil, apperrors.Wrap(apperrors.ErrConcurrency, findErr)
	}

	merged, updErr := s.carts.UpdateQuantity(ctx, existing.ID, existing.Quantity+quantity)
	if updErr != nil {
		if apperrors.IsKind(updErr, apperrors.KindNotFound) {
			s.logger.Error("Cart merge retry lost the line again",
				zap.String("user_id", user.ID.String()),
				zap.String("product_id", productID.String()),
				zap.Error(updErr))
			return nil, apperrors.Wrap(apperrors.ErrConcurrency, updErr)
		}
		return nil, updErr
	}
	return merged, nil
}

// UpdateQuantity replaces a line item's quantity. Quantities below one are
// rejected outright rather than treated as deletes; removal is its own
// operation.
func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, identity models.Identity, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, apperrors.InvalidArgument("quantity must be at least 1")
	}

	user, err := s.identity.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnership(ctx, user, itemID); err != nil {
		return nil, err
	}
	return s.carts.UpdateQuantity(ctx, itemID, quantity)
}

// RemoveItem deletes a line item after the ownership check.
func (s *cartServiceImpl) RemoveItem(ctx context.Context, identity models.Identity, itemID uuid.UUID) error {
	user, err := s.identity.Resolve(ctx, identity)
	if err != nil {
		return err
	}

	if err := s.checkOwnership(ctx, user, itemID); err != nil {
		return err
	}
	return s.carts.Delete(ctx, itemID)
}

// checkOwnership loads the line item and verifies the caller owns it. An
// ownership miss is logged as a security-relevant event.
func (s *cartServiceImpl) checkOwnership(ctx context.Context, user *models.User, itemID uuid.UUID) error {
	item, err := s.carts.FindByID(ctx, itemID)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return apperrors.NotFound("cart item not found")
		}
		return err
	}
	if item.UserID != user.ID {
		s.logger.Warn("Cart ownership violation",
			zap.String("item_id", itemID.String()),
			zap.String("owner_id", item.UserID.String()),
			zap.String("caller_id", user.ID.String()))
		return apperrors.Forbidden("cart item belongs to another user")
	}
	return nil
}

// Subtotal sums price * quantity across line items, staying in integer minor
// currency units throughout.
func Subtotal(items []models.CartItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Product.PriceCents * int64(item.Quantity)
	}
	return total
}

// ItemCount sums the quantities across line items.
func ItemCount(items []models.CartItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
