package batchiter

import (
	"io"
)

// SQLRows allow you to use the same iterator pattern with sql.Rows structure.
// It also makes testing easier with the same Iterator interface.
func SQLRows[T any](rows sqlRows, mapper SQLRowMapper[T]) *SQLRowsIter[T] {
	return &SQLRowsIter[T]{Rows: rows, Mapper: mapper}
}

type SQLRowsIter[T any] struct {
	Rows   sqlRows
	Mapper SQLRowMapper[T]

	value T
	err   error
}

type sqlRows interface {
	io.Closer
	Next() bool
	Err() error
	Scan(dest ...any) error
}

func (i *SQLRowsIter[T]) Close() error {
	return i.Rows.Close()
}

func (i *SQLRowsIter[T]) Next() bool {
	if i.err != nil {
		return false
	}
	if !i.Rows.Next() {
		return false
	}
	v, err := i.Mapper.Map(i.Rows)
	if err != nil {
		i.err = err
		return false
	}
	i.value = v
	return true
}

func (i *SQLRowsIter[T]) Err() error {
	if i.err != nil {
		return i.err
	}
	return i.Rows.Err()
}

func (i *SQLRowsIter[T]) Value() T {
	return i.value
}

// sql rows iterator dependencies

// SQLRowScanner is the row scanning capability of both database/sql and pgx rows.
type SQLRowScanner interface {
	Scan(...any) error
}

// SQLRowMapper maps a scanned row into a value of T.
type SQLRowMapper[T any] interface {
	Map(s SQLRowScanner) (T, error)
}

type SQLRowMapperFunc[T any] func(SQLRowScanner) (T, error)

func (fn SQLRowMapperFunc[T]) Map(s SQLRowScanner) (T, error) { return fn(s) }
