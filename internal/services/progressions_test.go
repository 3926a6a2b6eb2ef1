package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampLimit(t *testing.T) {
	tests := map[int]int{
		-5:  DefaultListLimit,
		0:   DefaultListLimit,
		1:   1,
		50:  50,
		100: 100,
		500: MaxListLimit,
	}
	for in, want := range tests {
		assert.Equal(t, want, ClampLimit(in), "limit %d", in)
	}
}

func TestProgressionStoreRejectsMalformedIDs(t *testing.T) {
	store := NewProgressionStore(nil)
	ctx := context.Background()

	_, err := store.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrProgressionNotFound)

	err = store.Delete(ctx, "42")
	assert.ErrorIs(t, err, ErrProgressionNotFound)
}
