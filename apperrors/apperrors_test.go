package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKind(t *testing.T) {
	err := NotFound("cart item not found")
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
	assert.False(t, IsKind(nil, KindNotFound))
}

func TestIsKind_WrappedChain(t *testing.T) {
	inner := Wrap(ErrConflict, errors.New("duplicate key"))
	outer := fmt.Errorf("adding item: %w", inner)
	assert.True(t, IsKind(outer, KindConflict))
}

func TestWrap_KeepsKindAndCode(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	err := Wrap(ErrUnavailable, cause)
	assert.Equal(t, KindUnavailable, err.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, err.Code)
	assert.ErrorIs(t, err, cause)
	// The shared sentinel must not be mutated.
	assert.Nil(t, ErrUnavailable.Err)
}

func TestFrom_UnknownErrorBecomesInternal(t *testing.T) {
	appErr := From(errors.New("boom"))
	assert.Equal(t, KindInternal, appErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
}

func TestError_MessageFormatting(t *testing.T) {
	plain := NotFound("product not found")
	assert.Equal(t, "product not found", plain.Error())

	wrapped := Wrap(ErrNotFound, errors.New("record not found"))
	assert.Contains(t, wrapped.Error(), "record not found")
}
