// Package batchitercontracts provides reusable test suites
// for Iterator, ContextIterator and BatchSource implementations.
//
// The contract callbacks must return a fresh, ready to use subject on every call,
// populated with at least one element.
package batchitercontracts

import (
	"context"
	"testing"
	"time"

	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"

	"go.llib.dev/batchiter"
)

type Iterator[V any] func(tb testing.TB) batchiter.Iterator[V]

func (c Iterator[V]) Spec(s *testcase.Spec) {
	s.Describe("it behaves like an iterator", func(s *testcase.Spec) {
		subject := testcase.Let(s, func(t *testcase.T) batchiter.Iterator[V] {
			return c(t)
		})

		s.Then("values can be collected from the iterator", func(t *testcase.T) {
			vs, err := batchiter.Collect[V](subject.Get(t))
			t.Must.NoError(err)
			t.Must.NotEmpty(vs)
		})

		s.Then("closing the iterator is possible, even multiple times, without an issue", func(t *testcase.T) {
			sub := subject.Get(t)
			for i, n := 0, t.Random.IntB(3, 7); i < n; i++ {
				t.Must.NoError(sub.Close())
			}
		})

		s.Test("Iterator.Err() method is non-blocking similarly to context.Context.Err()", func(t *testcase.T) {
			const timeout = 250 * time.Millisecond
			assert.Within(t, timeout, func(ctx context.Context) {
				assert.NoError(t, subject.Get(t).Err())
			})

			_, err := batchiter.Collect(subject.Get(t))
			assert.NoError(t, err)

			assert.Within(t, timeout, func(ctx context.Context) {
				assert.NoError(t, subject.Get(t).Err())
			})
		})

		s.When("iterator is closed", func(s *testcase.Spec) {
			s.Before(func(t *testcase.T) {
				t.Must.NoError(subject.Get(t).Close())
			})

			s.Then("no more value is iterated", func(t *testcase.T) {
				t.Must.False(subject.Get(t).Next())
			})
		})
	})
}

func (c Iterator[V]) Test(t *testing.T) {
	c.Spec(testcase.NewSpec(t))
}

func (c Iterator[V]) Benchmark(b *testing.B) {
	c.Spec(testcase.NewSpec(b))
}

type ContextIterator[V any] func(tb testing.TB) batchiter.ContextIterator[V]

func (c ContextIterator[V]) Spec(s *testcase.Spec) {
	s.Describe("it behaves like a context aware iterator", func(s *testcase.Spec) {
		subject := testcase.Let(s, func(t *testcase.T) batchiter.ContextIterator[V] {
			return c(t)
		})

		s.Then("values can be collected from the iterator", func(t *testcase.T) {
			vs, err := batchiter.CollectContext[V](context.Background(), subject.Get(t))
			t.Must.NoError(err)
			t.Must.NotEmpty(vs)
		})

		s.Then("closing the iterator is possible, even multiple times, without an issue", func(t *testcase.T) {
			sub := subject.Get(t)
			for i, n := 0, t.Random.IntB(3, 7); i < n; i++ {
				t.Must.NoError(sub.CloseContext(context.Background()))
			}
		})

		s.Then("the iterator works under the blocking contract when bound to a context", func(t *testcase.T) {
			vs, err := batchiter.Collect[V](batchiter.WithContext[V](context.Background(), subject.Get(t)))
			t.Must.NoError(err)
			t.Must.NotEmpty(vs)
		})

		s.When("iterator is closed", func(s *testcase.Spec) {
			s.Before(func(t *testcase.T) {
				t.Must.NoError(subject.Get(t).CloseContext(context.Background()))
			})

			s.Then("no more value is iterated", func(t *testcase.T) {
				t.Must.False(subject.Get(t).NextContext(context.Background()))
			})
		})
	})
}

func (c ContextIterator[V]) Test(t *testing.T) {
	c.Spec(testcase.NewSpec(t))
}

func (c ContextIterator[V]) Benchmark(b *testing.B) {
	c.Spec(testcase.NewSpec(b))
}

type Source[V any] func(tb testing.TB) batchiter.BatchSource[V]

func (c Source[V]) Spec(s *testcase.Spec) {
	s.Describe("it behaves like a batch source", func(s *testcase.Spec) {
		subject := testcase.Let(s, func(t *testcase.T) batchiter.BatchSource[V] {
			return c(t)
		})

		s.Then("its elements can be collected through a cursor", func(t *testcase.T) {
			vs, err := batchiter.Collect[V](batchiter.From[V](subject.Get(t)))
			t.Must.NoError(err)
			t.Must.NotEmpty(vs)
		})

		s.Then("exhaustion is stable, fetching past the end keeps reporting no more batches", func(t *testcase.T) {
			sub := subject.Get(t)
			ctx := context.Background()
			for {
				more, err := sub.Fetch(ctx)
				t.Must.NoError(err)
				if !more {
					break
				}
			}
			for i, n := 0, t.Random.IntB(3, 7); i < n; i++ {
				more, err := sub.Fetch(ctx)
				t.Must.NoError(err)
				t.Must.False(more)
			}
		})

		s.Then("closing the source is possible, even multiple times, without an issue", func(t *testcase.T) {
			sub := subject.Get(t)
			for i, n := 0, t.Random.IntB(3, 7); i < n; i++ {
				t.Must.NoError(sub.Close())
			}
		})

		s.When("the source is closed", func(s *testcase.Spec) {
			s.Before(func(t *testcase.T) {
				t.Must.NoError(subject.Get(t).Close())
			})

			s.Then("fetching fails with ErrClosed", func(t *testcase.T) {
				_, err := subject.Get(t).Fetch(context.Background())
				t.Must.ErrorIs(batchiter.ErrClosed, err)
			})
		})
	})
}

func (c Source[V]) Test(t *testing.T) {
	c.Spec(testcase.NewSpec(t))
}

func (c Source[V]) Benchmark(b *testing.B) {
	c.Spec(testcase.NewSpec(b))
}
