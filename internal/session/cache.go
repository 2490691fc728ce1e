package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/chemist-edu/apiserver/internal/logging"
	"github.com/chemist-edu/apiserver/internal/roles"
	"github.com/chemist-edu/apiserver/types"
)

// accountDataKey is the fixed key under which the account snapshot
// lives in the metadata table.
const accountDataKey = "chemist_account_data"

// snapshotVersion tags the stored format so future layout changes can
// invalidate old snapshots.
const snapshotVersion = "1.0"

// staleAfter bounds how long a cached identity is trusted. A role
// revoked on the server must not keep granting local affordances
// indefinitely.
const staleAfter = 7 * 24 * time.Hour

// storedSnapshot is the durable form of an account: the account fields
// plus write-time metadata.
type storedSnapshot struct {
	types.Account
	Timestamp int64  `json:"_timestamp"`
	Version   string `json:"_version"`
}

// AccountCache is a durable write-through cache of the last-known
// signed-in account. Reads purge anything malformed or older than the
// staleness window. Storage failures degrade to "absent" and are
// logged, never surfaced.
type AccountCache struct {
	repo   *MetadataRepository
	logger logging.Logger
	now    func() time.Time
}

func NewAccountCache(repo *MetadataRepository, logger logging.Logger) *AccountCache {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &AccountCache{repo: repo, logger: logger, now: time.Now}
}

// Store writes the account snapshot with current-time metadata. A
// failed write is logged and otherwise ignored; it must never
// interrupt the caller's primary flow.
func (c *AccountCache) Store(ctx context.Context, account types.Account) {
	data, err := json.Marshal(storedSnapshot{
		Account:   account,
		Timestamp: c.now().UnixMilli(),
		Version:   snapshotVersion,
	})
	if err != nil {
		c.logger.Error(ctx, "account cache marshal failed", "error", err)
		return
	}
	if err := c.repo.Set(ctx, accountDataKey, data); err != nil {
		c.logger.Error(ctx, "account cache write failed", "error", err)
	}
}

// Get returns the cached account. Absence, malformed data, a failed
// shape check, and staleness all yield (zero, false); the bad entry is
// purged so the next read is clean.
func (c *AccountCache) Get(ctx context.Context) (types.Account, bool) {
	data, err := c.repo.Get(ctx, accountDataKey)
	if err != nil {
		c.logger.Error(ctx, "account cache read failed", "error", err)
		return types.Account{}, false
	}
	if len(data) == 0 {
		return types.Account{}, false
	}

	var snap storedSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.logger.Warn(ctx, "purging malformed account cache", "error", err)
		c.Clear(ctx)
		return types.Account{}, false
	}

	age := c.now().Sub(time.UnixMilli(snap.Timestamp))
	if snap.Version == "" || age > staleAfter {
		c.Clear(ctx)
		return types.Account{}, false
	}

	if !Validate(snap.Account) {
		c.logger.Warn(ctx, "purging invalid account cache")
		c.Clear(ctx)
		return types.Account{}, false
	}
	return snap.Account, true
}

// Exists reports whether a snapshot is present, without decoding it.
func (c *AccountCache) Exists(ctx context.Context) bool {
	data, err := c.repo.Get(ctx, accountDataKey)
	if err != nil {
		c.logger.Error(ctx, "account cache read failed", "error", err)
		return false
	}
	return len(data) > 0
}

// Clear removes the snapshot. Idempotent.
func (c *AccountCache) Clear(ctx context.Context) {
	if err := c.repo.Delete(ctx, accountDataKey); err != nil {
		c.logger.Error(ctx, "account cache clear failed", "error", err)
	}
}

// Validate is the structural predicate applied before trusting any
// account-shaped data, whether read from the cache or received from
// the API: a positive id, an email, and a non-empty primary role.
func Validate(account types.Account) bool {
	if account.ID < 1 {
		return false
	}
	if account.Email == "" {
		return false
	}
	return roles.CurrentRoleName(account) != roles.None
}
