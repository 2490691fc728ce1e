package session

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/chemist-edu/apiserver/internal/logging"
	"github.com/chemist-edu/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func insertMeta(t *testing.T, db *sql.DB, k string, v []byte) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO metadata(key,value) VALUES(?,?)`, k, v)
	require.NoError(t, err)
}

func validAccount() types.Account {
	return types.Account{
		ID:       7,
		Username: "nodira",
		Email:    "nodira@example.com",
		Name:     "Nodira K",
		RoleName: "ROLE_ADMIN",
	}
}

func TestAccountCache_RoundTrip(t *testing.T) {
	db := setupDB(t)
	cache := NewAccountCache(NewMetadataRepository(db), logging.NopLogger{})
	ctx := context.Background()

	account := validAccount()
	cache.Store(ctx, account)

	got, ok := cache.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, account, got)
	assert.True(t, cache.Exists(ctx))
}

func TestAccountCache_GetAbsent(t *testing.T) {
	db := setupDB(t)
	cache := NewAccountCache(NewMetadataRepository(db), logging.NopLogger{})

	_, ok := cache.Get(context.Background())
	assert.False(t, ok)
	assert.False(t, cache.Exists(context.Background()))
}

func TestAccountCache_StalePurgedOnRead(t *testing.T) {
	db := setupDB(t)
	cache := NewAccountCache(NewMetadataRepository(db), logging.NopLogger{})
	ctx := context.Background()

	base := time.Now()
	cache.now = func() time.Time { return base }
	cache.Store(ctx, validAccount())

	cache.now = func() time.Time { return base.Add(staleAfter + time.Minute) }
	_, ok := cache.Get(ctx)
	assert.False(t, ok)
	assert.False(t, cache.Exists(ctx), "stale snapshot must be purged, not just skipped")
}

func TestAccountCache_FreshJustInsideWindow(t *testing.T) {
	db := setupDB(t)
	cache := NewAccountCache(NewMetadataRepository(db), logging.NopLogger{})
	ctx := context.Background()

	base := time.Now()
	cache.now = func() time.Time { return base }
	cache.Store(ctx, validAccount())

	cache.now = func() time.Time { return base.Add(staleAfter - time.Minute) }
	_, ok := cache.Get(ctx)
	assert.True(t, ok)
}

func TestAccountCache_MalformedPurgedOnRead(t *testing.T) {
	db := setupDB(t)
	cache := NewAccountCache(NewMetadataRepository(db), logging.NopLogger{})
	ctx := context.Background()

	insertMeta(t, db, accountDataKey, []byte("not json at all"))

	_, ok := cache.Get(ctx)
	assert.False(t, ok)
	assert.False(t, cache.Exists(ctx))
}

func TestAccountCache_WrongShapePurgedOnRead(t *testing.T) {
	db := setupDB(t)
	cache := NewAccountCache(NewMetadataRepository(db), logging.NopLogger{})
	ctx := context.Background()

	// Non-numeric id does not decode into an account.
	insertMeta(t, db, accountDataKey,
		[]byte(`{"id":"1","email":"a@b.c","role_name":"ADMIN","_timestamp":1,"_version":"1.0"}`))

	_, ok := cache.Get(ctx)
	assert.False(t, ok)
	assert.False(t, cache.Exists(ctx))
}

func TestAccountCache_MissingVersionPurged(t *testing.T) {
	db := setupDB(t)
	cache := NewAccountCache(NewMetadataRepository(db), logging.NopLogger{})
	ctx := context.Background()

	insertMeta(t, db, accountDataKey,
		[]byte(`{"id":1,"email":"a@b.c","role_name":"ADMIN"}`))

	_, ok := cache.Get(ctx)
	assert.False(t, ok)
}

func TestAccountCache_ClearIdempotent(t *testing.T) {
	db := setupDB(t)
	cache := NewAccountCache(NewMetadataRepository(db), logging.NopLogger{})
	ctx := context.Background()

	cache.Store(ctx, validAccount())
	cache.Clear(ctx)
	cache.Clear(ctx)
	assert.False(t, cache.Exists(ctx))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		account types.Account
		want    bool
	}{
		{"complete", types.Account{ID: 1, Email: "a@b.c", RoleName: "ADMIN"}, true},
		{"prefixed role", types.Account{ID: 1, Email: "a@b.c", RoleName: "ROLE_ADMIN"}, true},
		{"zero id", types.Account{Email: "a@b.c", RoleName: "ADMIN"}, false},
		{"negative id", types.Account{ID: -2, Email: "a@b.c", RoleName: "ADMIN"}, false},
		{"missing email", types.Account{ID: 1, RoleName: "ADMIN"}, false},
		{"missing role", types.Account{ID: 1, Email: "a@b.c"}, false},
		{"empty", types.Account{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.account))
		})
	}
}
