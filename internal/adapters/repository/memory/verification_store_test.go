package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordThenLookup(t *testing.T) {
	store := NewVerificationStore()
	ctx := context.Background()

	before := time.Now()
	record, err := store.Record(ctx, "abc123", "g@x.com")
	require.NoError(t, err)
	require.NotNil(t, record)

	got, err := store.Lookup(ctx, "abc123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "g@x.com", got.Email)
	assert.False(t, got.VerifiedAt.Before(before))
	assert.False(t, got.VerifiedAt.After(time.Now()))
}

func TestLookupUnknownTokenIsNotFound(t *testing.T) {
	store := NewVerificationStore()

	got, err := store.Lookup(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = store.Lookup(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecordLastWriteWins(t *testing.T) {
	store := NewVerificationStore()
	ctx := context.Background()

	_, err := store.Record(ctx, "abc123", "first@x.com")
	require.NoError(t, err)
	_, err = store.Record(ctx, "abc123", "second@x.com")
	require.NoError(t, err)

	got, err := store.Lookup(ctx, "abc123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "second@x.com", got.Email)
}

func TestRecordIdempotentOnIdenticalCalls(t *testing.T) {
	store := NewVerificationStore()
	ctx := context.Background()

	_, err := store.Record(ctx, "abc123", "g@x.com")
	require.NoError(t, err)
	_, err = store.Record(ctx, "abc123", "g@x.com")
	require.NoError(t, err)

	got, err := store.Lookup(ctx, "abc123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "g@x.com", got.Email)
}

func TestLookupReturnsCopy(t *testing.T) {
	store := NewVerificationStore()
	ctx := context.Background()

	_, err := store.Record(ctx, "abc123", "g@x.com")
	require.NoError(t, err)

	first, err := store.Lookup(ctx, "abc123")
	require.NoError(t, err)
	first.Email = "mutated@x.com"

	second, err := store.Lookup(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "g@x.com", second.Email)
}
