// Package postgresql exposes the rows of a postgresql table as a batch source.
package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go.llib.dev/batchiter"
)

// Connect opens a pgx connection pool for the given data source name.
// The returned pool satisfies Queryer.
func Connect(dsn string) (*pgxpool.Pool, error) {
	return pgxpool.New(context.Background(), dsn)
}

// Queryer is the part of a pgx connection the source depends on.
// Both *pgxpool.Pool and *pgx.Conn satisfy it.
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Source streams the rows of a table in key order as fixed size batches.
//
// Every Fetch runs a standalone keyset query that continues right after the last
// key of the previous batch, so no connection or server side cursor is held
// between two batches. The connection is owned by the caller, Close doesn't
// release it.
type Source[T any] struct {
	// Connection runs the batch queries.
	Connection Queryer
	// Mapping turns a scanned row into a T value.
	Mapping batchiter.SQLRowMapper[T]
	// Table is the name of the table being read.
	Table string
	// Columns are the selected column names, in the order the Mapping scans them.
	Columns []string
	// IDColumn is the unique column the keyset pagination orders and continues by.
	IDColumn string
	// LastID returns the IDColumn value of an already mapped row.
	LastID func(T) any
	// BatchSize is the most rows a single Fetch retrieves. Defaults to 64.
	BatchSize int

	started bool
	last    any
	current []T
	done    bool
	closed  bool
}

func (s *Source[T]) Fetch(ctx context.Context) (bool, error) {
	if s.closed {
		return false, batchiter.ErrClosed
	}
	if s.done {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	query, args := s.nextQuery()
	rows, err := s.Connection.Query(ctx, query, args...)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	batch := make([]T, 0, s.getBatchSize())
	for rows.Next() {
		v, err := s.Mapping.Map(rows)
		if err != nil {
			return false, err
		}
		batch = append(batch, v)
	}
	if err := rows.Err(); err != nil {
		return false, err
	}
	if len(batch) == 0 {
		s.done = true
		s.current = nil
		return false, nil
	}
	s.started = true
	s.last = s.LastID(batch[len(batch)-1])
	s.current = batch
	return true, nil
}

func (s *Source[T]) nextQuery() (string, []any) {
	if !s.started {
		query := fmt.Sprintf(`SELECT %s FROM %q ORDER BY %q LIMIT %d`,
			s.queryColumnList(), s.Table, s.IDColumn, s.getBatchSize())
		return query, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM %q WHERE %q > $1 ORDER BY %q LIMIT %d`,
		s.queryColumnList(), s.Table, s.IDColumn, s.IDColumn, s.getBatchSize())
	return query, []any{s.last}
}

func (s *Source[T]) queryColumnList() string {
	var dst = make([]string, 0, len(s.Columns))
	for _, name := range s.Columns {
		dst = append(dst, fmt.Sprintf(`%q`, name))
	}
	return strings.Join(dst, `, `)
}

func (s *Source[T]) Batch() []T {
	return s.current
}

func (s *Source[T]) Close() error {
	s.closed = true
	s.current = nil
	return nil
}

func (s *Source[T]) getBatchSize() int {
	const defaultBatchSize = 64
	if s.BatchSize <= 0 {
		return defaultBatchSize
	}
	return s.BatchSize
}
