package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/anant-harryfan/shreycommerse/apperrors"
	"github.com/anant-harryfan/shreycommerse/models"
	"github.com/anant-harryfan/shreycommerse/repository"
)

// IdentityService maps an external authenticated identity to the internal
// user record, creating one the first time an identity is seen.
type IdentityService interface {
	Resolve(ctx context.Context, identity models.Identity) (*models.User, error)
}

type identityServiceImpl struct {
	users  repository.UserRepository
	logger *zap.Logger
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(users repository.UserRepository, logger *zap.Logger) IdentityService {
	return &identityServiceImpl{users: users, logger: logger}
}

// Resolve returns the internal user for the given identity, creating the row
// lazily. Two requests racing to create the same identity settle through the
// unique index on external_id: the loser re-fetches the winner's row.
func (s *identityServiceImpl) Resolve(ctx context.Context, identity models.Identity) (*models.User, error) {
	if identity.IsAnonymous() {
		return nil, apperrors.Unauthenticated("authentication required")
	}

	user, err := s.users.FindByExternalID(ctx, identity.ExternalID)
	if err == nil {
		return user, nil
	}
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}

	user = &models.User{
		ExternalID: identity.ExternalID,
		Email:      identity.Email,
		Name:       identity.Name,
	}
	createErr := s.users.Create(ctx, user)
	if createErr == nil {
		s.logger.Info("Created user on first cart interaction",
			zap.String("external_id", identity.ExternalID))
		return user, nil
	}
	if apperrors.IsKind(createErr, apperrors.KindConflict) {
		// Another request created the same identity first.
		return s.users.FindByExternalID(ctx, identity.ExternalID)
	}
	return nil, createErr
}
