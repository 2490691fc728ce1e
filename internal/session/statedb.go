// Package session implements the operator CLI's local session
// lifecycle: durable token and account storage under the state
// directory, and a state machine that coordinates login, logout,
// refresh, and boot-time rehydration against the auth API.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const stateDBFile = "state.db"

// OpenStateDB opens (creating if needed) the sqlite database holding
// local session state and ensures the metadata table exists.
func OpenStateDB(ctx context.Context, stateDir string) (*sql.DB, error) {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(stateDir, stateDBFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open state db: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS metadata (
			key   TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to init state db: %w", err)
	}
	return db, nil
}
