package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/feb027/melon-ai-sub001/internal/storage"
)

// PostgresAnalysesStorage is the Postgres implementation of AnalysesStorage
type PostgresAnalysesStorage struct {
	pool *pgxpool.Pool
}

// NewAnalysesStorage creates a PostgresAnalysesStorage
func NewAnalysesStorage(pool *pgxpool.Pool) *PostgresAnalysesStorage {
	return &PostgresAnalysesStorage{pool: pool}
}

func (p *PostgresAnalysesStorage) ListAnalyses(ctx context.Context, filter storage.AnalysisFilter) ([]storage.AnalysisRecord, error) {
	query := `
		SELECT id, created_at, location, watermelon_type, maturity_status, confidence, sweetness_level, skin_quality
		FROM analyses
		WHERE created_at >= $1 AND created_at <= $2
	`

	// Both bounds are passed as UTC instants; the column comparison is
	// inclusive on both ends.
	args := []any{filter.From.UTC(), filter.To.UTC()}

	if filter.Location != "" {
		args = append(args, filter.Location)
		query += fmt.Sprintf(" AND location = $%d", len(args))
	}

	// The compound "<type>:<variety>" column is matched on the raw string:
	// type as a "starts with type:" pattern, variety as an "ends with
	// :variety" pattern. This mirrors how the capture flow encodes the key.
	if filter.FruitType != "" {
		args = append(args, filter.FruitType+":%")
		query += fmt.Sprintf(" AND watermelon_type LIKE $%d", len(args))
	}
	if filter.FruitVariety != "" {
		args = append(args, "%:"+filter.FruitVariety)
		query += fmt.Sprintf(" AND watermelon_type LIKE $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []storage.AnalysisRecord
	for rows.Next() {
		var rec storage.AnalysisRecord
		err := rows.Scan(
			&rec.ID,
			&rec.CreatedAt,
			&rec.Location,
			&rec.WatermelonType,
			&rec.MaturityStatus,
			&rec.Confidence,
			&rec.SweetnessLevel,
			&rec.SkinQuality,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, rec)
	}

	return results, rows.Err()
}
