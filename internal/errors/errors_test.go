package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrappedErrorsMatchSentinel(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := fmt.Errorf("list transactions: %w", ErrDataAccess.Wrap(cause))

	assert.True(t, stderrors.Is(err, ErrDataAccess))
	assert.True(t, stderrors.Is(err, cause))
	assert.False(t, stderrors.Is(err, ErrNotFound))
	assert.Equal(t, CodeDataAccess, CodeOf(err))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, "", CodeOf(stderrors.New("boom")))
	assert.Equal(t, CodeInvalidAmount, CodeOf(ErrInvalidTransactionAmount.WithMessage("amount too large")))
}
