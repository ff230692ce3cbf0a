package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/feb027/melon-ai-sub001/internal/storage"
)

// PostgresStorage is the Postgres implementation of storage.Storage
type PostgresStorage struct {
	pool     *pgxpool.Pool
	analyses *PostgresAnalysesStorage
}

// New connects a pgx pool and verifies it with a ping
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{
		pool:     pool,
		analyses: NewAnalysesStorage(pool),
	}, nil
}

func (p *PostgresStorage) ListAnalyses(ctx context.Context, filter storage.AnalysisFilter) ([]storage.AnalysisRecord, error) {
	return p.analyses.ListAnalyses(ctx, filter)
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}
