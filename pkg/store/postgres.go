//go:build !wasm

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/types"
)

// PostgresRepository implements ComparisonRepository on jackc/pgx/v5, for
// deployments sharing one comparison store across multiple scheduler
// instances.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to dsn and ensures the comparisons table exists.
func NewPostgres(ctx context.Context, dsn string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := createPostgresSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

func createPostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS comparisons (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			start_time TIMESTAMPTZ,
			end_time TIMESTAMPTZ,
			status_message TEXT,
			lease_token TEXT,
			base_path TEXT,
			compare_path TEXT,
			document_pairs_json JSONB NOT NULL,
			summary_json JSONB NOT NULL
		)
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_comparisons_status ON comparisons(status)`)
	return err
}

// FindByStatus implements ComparisonRepository.
func (p *PostgresRepository) FindByStatus(ctx context.Context, statuses ...types.Status) ([]types.Comparison, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	rows, err := p.pool.Query(ctx, `
		SELECT id, status, start_time, end_time, status_message, lease_token, base_path, compare_path, document_pairs_json, summary_json
		FROM comparisons WHERE status = ANY($1)
	`, names)
	if err != nil {
		return nil, fmt.Errorf("querying comparisons by status: %w", err)
	}
	defer rows.Close()

	var out []types.Comparison
	for rows.Next() {
		c, err := scanPostgresComparison(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Save implements ComparisonRepository.
func (p *PostgresRepository) Save(ctx context.Context, c types.Comparison) error {
	pairsJSON, err := json.Marshal(c.DocumentPairs)
	if err != nil {
		return fmt.Errorf("serializing document pairs: %w", err)
	}
	summaryJSON, err := json.Marshal(c.Summary)
	if err != nil {
		return fmt.Errorf("serializing summary: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO comparisons (id, status, start_time, end_time, status_message, lease_token, base_path, compare_path, document_pairs_json, summary_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			status = excluded.status,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			status_message = excluded.status_message,
			lease_token = excluded.lease_token,
			base_path = excluded.base_path,
			compare_path = excluded.compare_path,
			document_pairs_json = excluded.document_pairs_json,
			summary_json = excluded.summary_json
	`, c.ID, string(c.Status), toTimestamptz(c.StartTime), toTimestamptz(c.EndTime),
		c.StatusMessage, c.LeaseToken, c.BasePath, c.ComparePath, pairsJSON, summaryJSON)
	if err != nil {
		return fmt.Errorf("saving comparison %s: %w", c.ID, err)
	}
	return nil
}

// FindByID implements ComparisonRepository.
func (p *PostgresRepository) FindByID(ctx context.Context, id string) (types.Comparison, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, status, start_time, end_time, status_message, lease_token, base_path, compare_path, document_pairs_json, summary_json
		FROM comparisons WHERE id = $1
	`, id)
	c, err := scanPostgresComparison(row)
	if err != nil {
		return types.Comparison{}, fmt.Errorf("comparison %s: %w", id, err)
	}
	return c, nil
}

// Close implements ComparisonRepository.
func (p *PostgresRepository) Close() error {
	p.pool.Close()
	return nil
}

type pgxRowScanner interface {
	Scan(dest ...any) error
}

func scanPostgresComparison(row pgxRowScanner) (types.Comparison, error) {
	var c types.Comparison
	var status string
	var basePath, comparePath pgtype.Text
	var startTime, endTime pgtype.Timestamptz
	var pairsJSON, summaryJSON []byte

	if err := row.Scan(&c.ID, &status, &startTime, &endTime, &c.StatusMessage, &c.LeaseToken, &basePath, &comparePath, &pairsJSON, &summaryJSON); err != nil {
		if err == pgx.ErrNoRows {
			return types.Comparison{}, err
		}
		return types.Comparison{}, fmt.Errorf("scanning comparison: %w", err)
	}
	c.Status = types.Status(status)
	if basePath.Valid {
		c.BasePath = basePath.String
	}
	if comparePath.Valid {
		c.ComparePath = comparePath.String
	}
	if startTime.Valid {
		c.StartTime = startTime.Time
	}
	if endTime.Valid {
		c.EndTime = endTime.Time
	}

	if err := json.Unmarshal(pairsJSON, &c.DocumentPairs); err != nil {
		return types.Comparison{}, fmt.Errorf("deserializing document pairs: %w", err)
	}
	if err := json.Unmarshal(summaryJSON, &c.Summary); err != nil {
		return types.Comparison{}, fmt.Errorf("deserializing summary: %w", err)
	}

	return c, nil
}

func toTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}
