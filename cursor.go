package batchiter

import (
	"context"
)

// From returns a Cursor that traverses the elements of the given batch source one by one.
//
// The Cursor takes ownership of the source:
// closing the Cursor closes the source as well,
// and the source must not be used directly afterwards.
func From[V any](src BatchSource[V]) *Cursor[V] {
	return &Cursor[V]{src: src}
}

// Lazy returns a Cursor whose batch source is resolved on first use.
//
// The resolve function runs at most once, on the first advance or on closing, whichever happens first.
// Resolving on close guarantees that a source created behind an unused cursor is still released.
// When resolving fails, the failure becomes the Cursor's error cause and the function is not retried.
func Lazy[V any](resolve func(ctx context.Context) (BatchSource[V], error)) *Cursor[V] {
	return &Cursor[V]{resolve: resolve}
}

// Cursor adapts a BatchSource into a single value iterator.
//
// Cursor implements both Iterator and ContextIterator, sharing one state between the two,
// the same way a database/sql statement exposes Query and QueryContext over the same connection.
// The blocking methods are shorthands that use context.Background.
// Interleaving the two calling styles on one Cursor is allowed.
//
// Batch boundaries are invisible to the consumer: when the current batch runs out,
// the next advance fetches further batches, skipping empty ones,
// until a value is found or the source reports it ran out.
//
// A Cursor is not safe for concurrent use; it expects a single consumer.
// The zero value of Cursor is an exhausted cursor without a source.
type Cursor[V any] struct {
	src     BatchSource[V]
	resolve func(ctx context.Context) (BatchSource[V], error)

	// items traverses the current batch; at most one is alive at any time.
	items Iterator[V]

	value    V
	err      error
	hasValue bool
	finished bool
	closed   bool
}

// Next advances the cursor to the next element.
// It reports false when the elements ran out, when an error occurred, or when the cursor is closed.
func (c *Cursor[V]) Next() bool {
	return c.next(context.Background())
}

// NextContext behaves like Next, and passes the received context on to the batch source.
// The context is handed over as is; whether cancellation interrupts an ongoing fetch
// is up to the source implementation.
func (c *Cursor[V]) NextContext(ctx context.Context) bool {
	return c.next(ctx)
}

func (c *Cursor[V]) next(ctx context.Context) bool {
	if c.closed {
		if c.err == nil {
			c.err = ErrClosed
		}
		return false
	}
	if c.err != nil || c.finished {
		return false
	}
	if c.src == nil {
		if c.resolve == nil {
			c.finished = true
			return false
		}
		if !c.obtain(ctx) {
			return false
		}
	}
	if c.items != nil && c.items.Next() {
		c.value = c.items.Value()
		c.hasValue = true
		return true
	}
	c.hasValue = false
	for {
		more, err := c.src.Fetch(ctx)
		if err != nil {
			c.err = err
			return false
		}
		if !more {
			c.releaseItems()
			c.finished = true
			return false
		}
		c.releaseItems()
		c.items = Slice(c.src.Batch())
		if c.items.Next() {
			c.value = c.items.Value()
			c.hasValue = true
			return true
		}
		// empty batch, fetch further
	}
}

// obtain runs the pending source resolution.
// The resolve function is detached before the call, so it cannot run twice.
func (c *Cursor[V]) obtain(ctx context.Context) bool {
	resolve := c.resolve
	c.resolve = nil
	src, err := resolve(ctx)
	if err != nil {
		c.err = err
		return false
	}
	if src == nil {
		c.finished = true
		return false
	}
	c.src = src
	return true
}

// releaseItems closes and detaches the iterator of the current batch.
func (c *Cursor[V]) releaseItems() {
	if c.items == nil {
		return
	}
	_ = c.items.Close()
	c.items = nil
}

// Value returns the element the cursor currently stands on.
// The action is repeatable without side effects.
// Before the first advance, and after the elements ran out, Value returns the zero value of V.
func (c *Cursor[V]) Value() V {
	return c.value
}

// Current returns the element the cursor currently stands on,
// or an error describing why there is none.
// It returns ErrClosed after the cursor was closed,
// and ErrNoValue when the cursor is not positioned on an element.
func (c *Cursor[V]) Current() (V, error) {
	var zero V
	if c.closed {
		return zero, ErrClosed
	}
	if !c.hasValue {
		return zero, ErrNoValue
	}
	return c.value, nil
}

// Err return the error cause of the traversal.
// A closed cursor that is advanced further reports ErrClosed here.
func (c *Cursor[V]) Err() error {
	return c.err
}

// Close releases the current batch and the batch source.
// Closing is idempotent; further calls return nil without touching the source again.
// After closing, advancing fails and Current returns ErrClosed.
func (c *Cursor[V]) Close() error {
	return c.close(context.Background())
}

// CloseContext behaves like Close, and passes the received context on to the release of the source.
func (c *Cursor[V]) CloseContext(ctx context.Context) error {
	return c.close(ctx)
}

func (c *Cursor[V]) close(ctx context.Context) error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.releaseItems()
	c.hasValue = false
	var zero V
	c.value = zero
	if c.src == nil && c.resolve != nil {
		// a pending source must still be resolved, else its resource would leak
		if !c.obtain(ctx) {
			return c.err
		}
	}
	if c.src == nil {
		return nil
	}
	if closer, ok := c.src.(ContextCloser); ok {
		return closer.CloseContext(ctx)
	}
	return c.src.Close()
}

// Reset is not supported, a batch source cannot be rewound.
func (c *Cursor[V]) Reset() error {
	return ErrNotSupported
}
