package db

import (
	"context"

	"pressroom/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPostgresConnection builds the pgx pool the repositories share.
// The configured request timeout doubles as the connect timeout, so a
// stalled database fails startup within the same bound the request
// path uses.
func NewPostgresConnection(cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, err
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.GetRequestTimeout()

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetRequestTimeout())
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
