//go:build !wasm

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/types"
)

// SQLiteRepository implements ComparisonRepository on modernc.org/sqlite,
// a CGO-free driver so the binary stays a single static executable.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLite opens (and migrates) a SQLite-backed repository at path.
func NewSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

const rfc3339Nano = time.RFC3339Nano

// FindByStatus implements ComparisonRepository.
func (s *SQLiteRepository) FindByStatus(ctx context.Context, statuses ...types.Status) ([]types.Comparison, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	placeholders := make([]any, len(statuses))
	query := "SELECT id, status, start_time, end_time, status_message, lease_token, base_path, compare_path, document_pairs_json, summary_json FROM comparisons WHERE status IN ("
	for i, st := range statuses {
		placeholders[i] = string(st)
		if i > 0 {
			query += ","
		}
		query += "?"
	}
	query += ")"

	rows, err := s.db.QueryContext(ctx, query, placeholders...)
	if err != nil {
		return nil, fmt.Errorf("querying comparisons by status: %w", err)
	}
	defer rows.Close()

	var out []types.Comparison
	for rows.Next() {
		c, err := scanComparison(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Save implements ComparisonRepository.
func (s *SQLiteRepository) Save(ctx context.Context, c types.Comparison) error {
	pairsJSON, err := json.Marshal(c.DocumentPairs)
	if err != nil {
		return fmt.Errorf("serializing document pairs: %w", err)
	}
	summaryJSON, err := json.Marshal(c.Summary)
	if err != nil {
		return fmt.Errorf("serializing summary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO comparisons (id, status, start_time, end_time, status_message, lease_token, base_path, compare_path, document_pairs_json, summary_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			status_message = excluded.status_message,
			lease_token = excluded.lease_token,
			base_path = excluded.base_path,
			compare_path = excluded.compare_path,
			document_pairs_json = excluded.document_pairs_json,
			summary_json = excluded.summary_json
	`,
		c.ID, string(c.Status), formatTime(c.StartTime), formatTime(c.EndTime),
		c.StatusMessage, c.LeaseToken, c.BasePath, c.ComparePath, string(pairsJSON), string(summaryJSON),
	)
	if err != nil {
		return fmt.Errorf("saving comparison %s: %w", c.ID, err)
	}

	return tx.Commit()
}

// FindByID implements ComparisonRepository.
func (s *SQLiteRepository) FindByID(ctx context.Context, id string) (types.Comparison, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, status, start_time, end_time, status_message, lease_token, base_path, compare_path, document_pairs_json, summary_json
		FROM comparisons WHERE id = ?
	`, id)
	return scanComparison(row)
}

// Close implements ComparisonRepository.
func (s *SQLiteRepository) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComparison(row rowScanner) (types.Comparison, error) {
	var (
		id, status, statusMessage, leaseToken string
		basePath, comparePath                 sql.NullString
		startTime, endTime                    sql.NullString
		pairsJSON, summaryJSON                string
	)

	if err := row.Scan(&id, &status, &startTime, &endTime, &statusMessage, &leaseToken, &basePath, &comparePath, &pairsJSON, &summaryJSON); err != nil {
		return types.Comparison{}, fmt.Errorf("scanning comparison: %w", err)
	}

	c := types.Comparison{
		ID:            id,
		Status:        types.Status(status),
		StatusMessage: statusMessage,
		LeaseToken:    leaseToken,
		BasePath:      basePath.String,
		ComparePath:   comparePath.String,
		StartTime:     parseTime(startTime),
		EndTime:       parseTime(endTime),
	}

	if err := json.Unmarshal([]byte(pairsJSON), &c.DocumentPairs); err != nil {
		return types.Comparison{}, fmt.Errorf("deserializing document pairs: %w", err)
	}
	if err := json.Unmarshal([]byte(summaryJSON), &c.Summary); err != nil {
		return types.Comparison{}, fmt.Errorf("deserializing summary: %w", err)
	}

	return c, nil
}

func formatTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(rfc3339Nano), Valid: true}
}

func parseTime(ns sql.NullString) time.Time {
	if !ns.Valid || ns.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(rfc3339Nano, ns.String)
	if err != nil {
		return time.Time{}
	}
	return t
}
