/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"database/sql"

	"github.com/chemist-edu/apiserver/config"
	"github.com/chemist-edu/apiserver/internal/logging"
	"github.com/chemist-edu/apiserver/internal/session"
)

// newSessionManager wires the operator-side session stack: the local
// sqlite state database, the token and account stores on top of it,
// and the HTTP auth client. The caller must close the returned db.
func newSessionManager(ctx context.Context, cfg config.Config) (*session.Manager, *sql.DB, error) {
	stateDB, err := session.OpenStateDB(ctx, cfg.Client.StateDir)
	if err != nil {
		return nil, nil, err
	}

	logger := logging.Default()
	repo := session.NewMetadataRepository(stateDB)
	tokens := session.NewTokenStore(repo, logger)
	cache := session.NewAccountCache(repo, logger)
	api := session.NewAPIClient(cfg.Client)

	manager := session.NewManager(ctx, api, tokens, cache, logger)
	return manager, stateDB, nil
}
