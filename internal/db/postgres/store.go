// Package postgres implements db.ReferenceStore over the relational parts dataset.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/kailas-cloud/nsnsearch/internal/db"
	"github.com/kailas-cloud/nsnsearch/internal/domain/nsn"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/probe"
)

// Compile-time check: Store implements db.ReferenceStore.
var _ db.ReferenceStore = (*Store)(nil)

// Config holds connection pool parameters.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Store reads the reference tables through database/sql and lib/pq.
type Store struct {
	db *sql.DB
}

// NewStore opens a connection pool. It does not wait for the server; see WaitForReady.
func NewStore(cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}

	conn, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return &Store{db: conn}, nil
}

// NewStoreForTest wraps an existing *sql.DB (sqlmock in tests).
func NewStoreForTest(conn *sql.DB) *Store {
	return &Store{db: conn}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// WaitForReady polls Ping until the database responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// LoadFragments fetches the rows of one table for the given NIINs in a single query.
func (s *Store) LoadFragments(ctx context.Context, table nsn.Table, niins []string) (nsn.Batch, error) {
	t, ok := tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", db.ErrUnknownTable, table)
	}
	out := make(nsn.Batch, len(niins))
	if len(niins) == 0 {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx, t.load, pq.Array(niins))
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: fmt.Errorf("%s: %w", t.relation, err)}
	}
	defer rows.Close()

	for rows.Next() {
		frag, err := t.scan(rows)
		if err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: fmt.Errorf("scan %s: %w", t.relation, err)}
		}
		cur, ok := out[frag.NIIN]
		if !ok {
			cur = nsn.Fragments{NIIN: frag.NIIN}
		}
		// names is the only multi-row table; the others are DISTINCT ON (niin).
		cur.Names = append(cur.Names, frag.Names...)
		cur.Absorb(frag)
		out[frag.NIIN] = cur
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: fmt.Errorf("%s: %w", t.relation, err)}
	}
	return out, nil
}

// Probe runs one discovery lookup and returns distinct NIINs in ascending order.
func (s *Store) Probe(ctx context.Context, p probe.Probe) ([]string, error) {
	query, args, err := buildProbe(p)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpProbe, Err: fmt.Errorf("%s: %w", p, err)}
	}
	defer rows.Close()

	niins := make([]string, 0, p.Limit)
	for rows.Next() {
		var niin string
		if err := rows.Scan(&niin); err != nil {
			return nil, &db.Error{Op: db.OpProbe, Err: fmt.Errorf("scan %s: %w", p, err)}
		}
		niins = append(niins, niin)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpProbe, Err: fmt.Errorf("%s: %w", p, err)}
	}
	return niins, nil
}
