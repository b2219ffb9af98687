package batchiter

import (
	"context"
)

// Batches returns an in-memory BatchSource that serves the given batches in their given order.
// Empty batches are served as any other batch would be.
// Useful as a building block in tests and as a reference implementation of the BatchSource contract.
func Batches[V any](batches ...[]V) BatchSource[V] {
	return &batchesSource[V]{batches: batches}
}

type batchesSource[V any] struct {
	batches [][]V

	index   int
	current []V
	closed  bool
}

func (s *batchesSource[V]) Fetch(ctx context.Context) (bool, error) {
	if s.closed {
		return false, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if len(s.batches) <= s.index {
		s.current = nil
		return false, nil
	}
	s.current = s.batches[s.index]
	s.index++
	return true, nil
}

func (s *batchesSource[V]) Batch() []V {
	return s.current
}

func (s *batchesSource[V]) Close() error {
	s.closed = true
	s.current = nil
	return nil
}

// FetchFunc adapts a fetch lambda into a BatchSource.
//
// The lambda returns the next batch along with whether further batches can be expected.
// After the lambda reported that no more batches follow, it is not called again.
// A final batch may be returned together with a false more flag.
func FetchFunc[V any](fetch func(ctx context.Context) (batch []V, more bool, err error)) BatchSource[V] {
	return &funcSource[V]{fetch: fetch}
}

type funcSource[V any] struct {
	fetch func(ctx context.Context) ([]V, bool, error)

	current []V
	noMore  bool
	closed  bool
}

func (s *funcSource[V]) Fetch(ctx context.Context) (bool, error) {
	if s.closed {
		return false, ErrClosed
	}
	if s.noMore {
		s.current = nil
		return false, nil
	}
	batch, more, err := s.fetch(ctx)
	if err != nil {
		return false, err
	}
	s.noMore = !more
	if len(batch) == 0 && !more {
		s.current = nil
		return false, nil
	}
	s.current = batch
	return true, nil
}

func (s *funcSource[V]) Batch() []V {
	return s.current
}

func (s *funcSource[V]) Close() error {
	s.closed = true
	s.current = nil
	return nil
}

// StubSource returns a SourceStub that wraps the given batch source,
// where individual methods can be replaced for testing purposes.
func StubSource[V any](src BatchSource[V]) *SourceStub[V] {
	return &SourceStub[V]{
		Source:    src,
		StubFetch: src.Fetch,
		StubBatch: src.Batch,
		StubClose: src.Close,
	}
}

type SourceStub[V any] struct {
	Source    BatchSource[V]
	StubFetch func(ctx context.Context) (bool, error)
	StubBatch func() []V
	StubClose func() error
}

// wrapper

func (m *SourceStub[V]) Fetch(ctx context.Context) (bool, error) {
	return m.StubFetch(ctx)
}

func (m *SourceStub[V]) Batch() []V {
	return m.StubBatch()
}

func (m *SourceStub[V]) Close() error {
	return m.StubClose()
}

// Reseting stubs

func (m *SourceStub[V]) ResetFetch() {
	m.StubFetch = m.Source.Fetch
}

func (m *SourceStub[V]) ResetBatch() {
	m.StubBatch = m.Source.Batch
}

func (m *SourceStub[V]) ResetClose() {
	m.StubClose = m.Source.Close
}
