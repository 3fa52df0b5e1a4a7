package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/anant-harryfan/shreycommerse/apperrors"
)

// translateError maps storage-layer failures onto the application taxonomy.
// Context deadline and cancellation become retryable Unavailable errors so a
// timed-out store call is never reported as a plain 500.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.Wrap(apperrors.ErrNotFound, err)
	case isUniqueViolation(err):
		return apperrors.Wrap(apperrors.ErrConflict, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.Wrap(apperrors.ErrUnavailable, err)
	default:
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}

// isUniqueViolation reports whether err is a unique-index violation. GORM's
// TranslateError covers the common case; the string check is the fallback for
// drivers that bypass translation.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
