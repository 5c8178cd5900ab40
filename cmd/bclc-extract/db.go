package main

import (
	"context"
	"log/slog"

	"github.com/oncostruct/bclc-extractor/internal/common"
	"github.com/oncostruct/bclc-extractor/internal/repository"
)

// openDB validates the persistence config and opens the configured database.
// Callers own the returned handle and must Close it.
func openDB(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*repository.DB, error) {
	if err := cfg.ValidateForPersistence(); err != nil {
		return nil, err
	}
	return repository.Open(ctx, repository.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
}
