package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mr1hm/go-wx-alerts/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS lookups (
			id TEXT PRIMARY KEY,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			match_count INTEGER NOT NULL,
			headlines TEXT,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_lookups_created_at ON lookups(created_at);
		CREATE INDEX IF NOT EXISTS idx_lookups_match_count ON lookups(match_count);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Add(ctx context.Context, rec *models.LookupRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lookups (id, latitude, longitude, match_count, headlines, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Latitude,
		rec.Longitude,
		rec.MatchCount,
		strings.Join(rec.Headlines, "\n"),
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting lookup: %w", err)
	}
	return nil
}

func (s *SQLiteDB) ListLookups(ctx context.Context, opts Filter) ([]models.LookupRecord, error) {
	query := `SELECT id, latitude, longitude, match_count, headlines, created_at FROM lookups`
	var (
		clauses []string
		args    []any
	)

	if opts.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, *opts.Since)
	}
	if opts.MatchedOnly {
		clauses = append(clauses, "match_count > 0")
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY created_at DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying lookups: %w", err)
	}
	defer rows.Close()

	var records []models.LookupRecord
	for rows.Next() {
		var (
			rec       models.LookupRecord
			headlines string
		)
		if err := rows.Scan(&rec.ID, &rec.Latitude, &rec.Longitude, &rec.MatchCount, &headlines, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning lookup: %w", err)
		}
		if headlines != "" {
			rec.Headlines = strings.Split(headlines, "\n")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lookups: %w", err)
	}

	return records, nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
