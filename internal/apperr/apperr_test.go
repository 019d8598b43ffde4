package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOfSurvivesWrapping(t *testing.T) {
	err := NotFound("product", "p-1")
	wrapped := fmt.Errorf("loading cart: %w", err)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.False(t, Is(wrapped, KindInvalidInput))
}

func TestKindOfPlainErrorFallsBackToStorage(t *testing.T) {
	assert.Equal(t, KindStorage, KindOf(errors.New("connection reset")))
}

func TestInsufficientStockCarriesCounts(t *testing.T) {
	err := InsufficientStock("p-1", 3, 10)

	assert.Equal(t, KindInsufficientStock, err.Kind)
	assert.Equal(t, "product", err.Entity)
	assert.Equal(t, "p-1", err.ID)
	assert.Equal(t, 3, err.Available)
	assert.Equal(t, 10, err.Requested)
	assert.Contains(t, err.Error(), "available 3")
	assert.Contains(t, err.Error(), "requested 10")
}

func TestBusyUnwrapsCause(t *testing.T) {
	cause := errors.New("lock timeout")
	err := Busy(cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, KindBusy, KindOf(err))
}
