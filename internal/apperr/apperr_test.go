package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "Validation", err: apperr.Validation("amount must be positive"), want: apperr.ErrValidation},
		{name: "WrappedConflict", err: fmt.Errorf("open till: %w", apperr.Conflict("already open")), want: apperr.ErrConflict},
		{name: "Sentinel", err: fmt.Errorf("get: %w", apperr.ErrNotFound), want: apperr.ErrNotFound},
		{name: "Plain", err: errors.New("boom"), want: apperr.ErrInternal},
		{name: "Internal", err: apperr.Internal("closing till", errors.New("tx aborted")), want: apperr.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.Kind(tt.err))
		})
	}
}

func TestMessage_HidesInternalCause(t *testing.T) {
	cause := errors.New("pq: relation tills does not exist")
	err := apperr.Internal("closing till", cause)

	msg, details := apperr.Message(err)
	assert.Equal(t, "internal error", msg)
	assert.Empty(t, details)
	assert.ErrorIs(t, err, cause)
}

func TestMessage_Details(t *testing.T) {
	err := apperr.Validation("not enough denominations").WithDetails("a", "b")

	msg, details := apperr.Message(fmt.Errorf("record: %w", err))
	assert.Equal(t, "not enough denominations", msg)
	assert.Equal(t, []string{"a", "b"}, details)
}
