package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

const indexFile = "index.db"

// Index is a SQLite table of run summaries, kept next to the run
// directories so archived runs can be filtered without reading every
// metadata file.
type Index struct {
	db *sql.DB
}

// Summary is one indexed run.
type Summary struct {
	ID         string
	Timestamp  time.Time
	AlphaDeg   float64
	V0         float64
	C          float64
	Integrator string
	XGalileo   float64
	XNewton    float64
}

// Filter narrows Search. Zero values match everything; CMax <= 0 leaves
// the drag coefficient unbounded above.
type Filter struct {
	Integrator string
	CMin       float64
	CMax       float64
	Limit      int
}

func OpenIndex(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	ix := &Index{db: db}
	if err := ix.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return ix, nil
}

func (ix *Index) Close() error {
	return ix.db.Close()
}

func (ix *Index) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			alpha_deg REAL NOT NULL,
			v0 REAL NOT NULL,
			c REAL NOT NULL,
			integrator TEXT NOT NULL,
			x_galileo REAL NOT NULL,
			x_newton REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := ix.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (ix *Index) Insert(ctx context.Context, meta RunMetadata) error {
	_, err := ix.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, created_at, alpha_deg, v0, c, integrator, x_galileo, x_newton)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID,
		meta.Timestamp.UTC().Format(time.RFC3339Nano),
		meta.Params.AlphaDeg,
		meta.Params.V0,
		meta.Params.C,
		meta.Integrator,
		meta.Galileo.X,
		meta.Newton.X,
	)
	return err
}

// Search returns matching runs, oldest first.
func (ix *Index) Search(ctx context.Context, f Filter) ([]Summary, error) {
	clauses := []string{"c >= ?"}
	args := []any{f.CMin}
	if f.CMax > 0 {
		clauses = append(clauses, "c <= ?")
		args = append(args, f.CMax)
	}
	if f.Integrator != "" {
		clauses = append(clauses, "integrator = ?")
		args = append(args, f.Integrator)
	}
	query := fmt.Sprintf(`SELECT id, created_at, alpha_deg, v0, c, integrator, x_galileo, x_newton
		FROM runs
		WHERE %s
		ORDER BY created_at ASC`, strings.Join(clauses, " AND "))
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := ix.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		var created string
		if err := rows.Scan(&s.ID, &created, &s.AlphaDeg, &s.V0, &s.C, &s.Integrator, &s.XGalileo, &s.XNewton); err != nil {
			return nil, err
		}
		if s.Timestamp, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
