package session

import (
	"context"
	"testing"

	"github.com/chemist-edu/apiserver/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestTokenStore_SetAndGet(t *testing.T) {
	db := setupDB(t)
	store := NewTokenStore(NewMetadataRepository(db), logging.NopLogger{})
	ctx := context.Background()

	store.SetTokens(ctx, "access-1", "refresh-1")
	assert.Equal(t, "access-1", store.AccessToken(ctx))
	assert.Equal(t, "refresh-1", store.RefreshToken(ctx))
}

func TestTokenStore_AbsentYieldsEmpty(t *testing.T) {
	db := setupDB(t)
	store := NewTokenStore(NewMetadataRepository(db), logging.NopLogger{})
	ctx := context.Background()

	assert.Equal(t, "", store.AccessToken(ctx))
	assert.Equal(t, "", store.RefreshToken(ctx))
}

func TestTokenStore_SetOverwritesPair(t *testing.T) {
	db := setupDB(t)
	store := NewTokenStore(NewMetadataRepository(db), logging.NopLogger{})
	ctx := context.Background()

	store.SetTokens(ctx, "access-1", "refresh-1")
	store.SetTokens(ctx, "access-2", "refresh-2")
	assert.Equal(t, "access-2", store.AccessToken(ctx))
	assert.Equal(t, "refresh-2", store.RefreshToken(ctx))
}

func TestTokenStore_ClearIdempotent(t *testing.T) {
	db := setupDB(t)
	store := NewTokenStore(NewMetadataRepository(db), logging.NopLogger{})
	ctx := context.Background()

	store.SetTokens(ctx, "access-1", "refresh-1")
	store.ClearTokens(ctx)
	store.ClearTokens(ctx)
	assert.Equal(t, "", store.AccessToken(ctx))
	assert.Equal(t, "", store.RefreshToken(ctx))
}
