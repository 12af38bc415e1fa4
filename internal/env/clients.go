package environment

import (
	"context"
	"log/slog"

	"flycenter-counter/internal/config"
	"flycenter-counter/internal/infra/orderstore"
	"flycenter-counter/internal/infra/sqlite3"
)

type Clients struct {
	SQLiteDB   *sqlite3.DB
	OrderStore *orderstore.Client
}

func newClients(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Clients, error) {
	sqliteDB, err := provideSQLiteDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	orderStore := orderstore.NewClient(
		cfg.OrderStore.ADDR(),
		cfg.OrderStore.Timeout,
		cfg.OrderStore.RateLimit.RPS,
		cfg.OrderStore.RateLimit.Burst,
		logger,
	)

	return &Clients{
		SQLiteDB:   sqliteDB,
		OrderStore: orderStore,
	}, nil
}

func provideSQLiteDB(ctx context.Context, cfg config.Config) (*sqlite3.DB, error) {
	opts := []sqlite3.Option{
		sqlite3.WithPath(cfg.DB.Path),
		sqlite3.WithConnTimeout(cfg.DB.ConnTimeout),
		sqlite3.WithBusyTimeout(cfg.DB.BusyTimeout),
	}

	return sqlite3.New(ctx, opts...)
}
