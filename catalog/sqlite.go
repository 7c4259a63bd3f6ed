package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// snippetsSchema is the table a SQLite data source must provide. Rows are
// taken in rowid order; the first row is source row 1.
const snippetsSchema = `
	CREATE TABLE IF NOT EXISTS snippets (
		key TEXT,
		label TEXT,
		payload TEXT
	);
	`

// SQLiteSource reads the snippets table of a SQLite database
type SQLiteSource struct {
	Path string
}

func (s *SQLiteSource) Name() string {
	return s.Path
}

func (s *SQLiteSource) ReadRows(ctx context.Context, limit int) ([][]string, error) {
	// sql.Open would create a missing file
	if err := checkFile(s.Path); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, "PRAGMA query_only=ON"); err != nil {
		return nil, fmt.Errorf("failed to open database read-only: %v: %w", err, ErrDataSourceMalformed)
	}

	query := `
		SELECT key, label, payload
		FROM snippets
		ORDER BY rowid
		LIMIT ?
	`

	result, err := conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snippets: %v: %w", err, ErrDataSourceMalformed)
	}
	defer result.Close()

	rows := make([][]string, 0, limit)
	for result.Next() {
		var key, label, payload sql.NullString
		if err := result.Scan(&key, &label, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan snippet: %v: %w", err, ErrDataSourceMalformed)
		}
		rows = append(rows, []string{key.String, label.String, payload.String})
	}

	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snippets: %v: %w", err, ErrDataSourceMalformed)
	}

	return rows, nil
}
