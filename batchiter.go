// package batchiter exposes batch producing resources as single value iterators.
//
// # Summary
//
// Many resources deliver their content in batches rather than one element at a time.
// Database drivers fetch row sets, message brokers deliver chunks, paginated HTTP APIs return pages.
// Consumers on the other hand are the simplest to write against a single value iterator.
// This package adapts a batch producing source into the classic pull based Iterator,
// hiding batch boundaries, skipping empty batches
// and managing the lifecycle of the underlying resource on behalf of the consumer.
// The adapter comes in two flavours that share one state machine:
// a blocking one for synchronous code and a context aware one for cooperative code,
// mirroring how database/sql pairs Query with QueryContext.
//
// # Resources
//
// https://en.wikipedia.org/wiki/Iterator_pattern
package batchiter

import (
	"context"
	"io"

	"go.llib.dev/batchiter/pkg/errkit"
)

// Iterator define a separate object that encapsulates accessing and traversing an aggregate object.
// Clients use an iterator to access and traverse an aggregate without knowing its representation (data structures).
// Interface design inspirited by https://golang.org/pkg/encoding/json/#Decoder
// https://en.wikipedia.org/wiki/Iterator_pattern
type Iterator[V any] interface {
	// Closer is required to make it able to cancel iterators where resources are being used behind the scene
	// for all other cases where the underling io is handled on a higher level, it should simply return nil
	io.Closer
	// Err return the error cause.
	Err() error
	// Next will ensure that Value returns the next item when executed.
	// If the next value is not retrievable, Next should return false and ensure Err() will return the error cause.
	Next() bool
	// Value returns the current value in the iterator.
	// The action should be repeatable without side effects.
	Value() V
}

// ContextIterator is the context aware counterpart of Iterator.
// It traverses the same elements, but each potentially blocking action
// takes a context so the consumer can signal cancellation mid traversal.
type ContextIterator[V any] interface {
	// NextContext behaves like Iterator.Next, but retrieval honours the received context.
	NextContext(ctx context.Context) bool
	// Err return the error cause.
	Err() error
	// Value returns the current value in the iterator.
	Value() V
	// CloseContext behaves like io.Closer.Close, but resource release honours the received context.
	CloseContext(ctx context.Context) error
}

// BatchSource is the supplier side contract of the package.
// A BatchSource yields its elements in batches, one batch at a time, in order.
//
// Fetch advances the source to its next batch and reports whether one became available.
// After Fetch reported a batch, Batch returns it; the returned slice is valid until the next Fetch.
// A batch may be empty, consumers must be prepared to fetch further.
// Once Fetch returned false, subsequent calls must keep returning false.
type BatchSource[V any] interface {
	// Fetch advances the source to its next batch.
	// A false result with a nil error means the source ran out of batches.
	Fetch(ctx context.Context) (bool, error)
	// Batch returns the most recently fetched batch.
	Batch() []V
	// Closer releases the resource behind the source.
	// Close must be idempotent.
	io.Closer
}

// ContextCloser is an optional upgrade interface for BatchSource implementations
// whose resource release involves communication and thus benefits from a context.
// When a source implements it, the context aware disposal path of the Cursor prefers it over io.Closer.
type ContextCloser interface {
	CloseContext(ctx context.Context) error
}

const (
	// ErrClosed is returned when an operation is attempted on an already closed cursor or source.
	ErrClosed errkit.Error = "batchiter: already closed"
	// ErrNoValue is returned by Cursor.Current when the cursor is not positioned on a value.
	// Either Next was not yet called, or the elements ran out.
	ErrNoValue errkit.Error = "batchiter: cursor has no value"
	// ErrNotSupported is returned for operations the implementation deliberately doesn't support.
	ErrNotSupported errkit.Error = "batchiter: operation not supported"
)

// WithContext binds a ContextIterator to the given context,
// and exposes it under the blocking Iterator contract.
// It allows context bound traversal to be used with consumers written against Iterator.
func WithContext[V any](ctx context.Context, i ContextIterator[V]) Iterator[V] {
	return &boundIterator[V]{Context: ctx, Iterator: i}
}

type boundIterator[V any] struct {
	Context  context.Context
	Iterator ContextIterator[V]
}

func (i *boundIterator[V]) Next() bool   { return i.Iterator.NextContext(i.Context) }
func (i *boundIterator[V]) Close() error { return i.Iterator.CloseContext(i.Context) }
func (i *boundIterator[V]) Err() error   { return i.Iterator.Err() }
func (i *boundIterator[V]) Value() V     { return i.Iterator.Value() }
