// Package mariadb exposes the result of a mariadb query as a batch source.
package mariadb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"go.llib.dev/batchiter"
	"go.llib.dev/batchiter/pkg/errkit"
)

// Connect opens a mariadb database handle for the given data source name.
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	// connections must be recycled before the server or a middleware would close them
	db.SetConnMaxLifetime(time.Minute * 3)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	return db, nil
}

// Source streams the result of a query as fixed size batches.
//
// Every Fetch runs the query once more with the next LIMIT / OFFSET window,
// so the traversal doesn't hold a connection between two batches.
// The windows are only disjoint while the result set is not changing underneath,
// a deterministic ORDER BY in the query keeps them stable.
// The database handle is owned by the caller, Close doesn't release it.
type Source[T any] struct {
	// DB is the database handle the batch queries run against.
	DB *sql.DB
	// Mapping turns a scanned row into a T value.
	Mapping batchiter.SQLRowMapper[T]
	// Query is the SELECT statement being windowed, without a LIMIT clause.
	Query string
	// Args are the query arguments.
	Args []any
	// BatchSize is the most rows a single Fetch retrieves. Defaults to 64.
	BatchSize int

	offset  int
	current []T
	done    bool
	closed  bool
}

func (s *Source[T]) Fetch(ctx context.Context) (_ bool, rErr error) {
	if s.closed {
		return false, batchiter.ErrClosed
	}
	if s.done {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	query := fmt.Sprintf("%s LIMIT %d OFFSET %d", s.Query, s.getBatchSize(), s.offset)
	rows, err := s.DB.QueryContext(ctx, query, s.Args...)
	if err != nil {
		return false, err
	}
	defer errkit.Finish(&rErr, rows.Close)
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
	s.offset += len(batch)
	s.current = batch
	return true, nil
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
