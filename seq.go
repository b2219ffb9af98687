package batchiter

import (
	"iter"
)

// Seq exposes the iterator as an iter.Seq2 sequence of value and error pairs,
// so the iterator becomes usable directly in a range statement.
// Values arrive with a nil error; when the traversal fails, one final pair carries the error cause.
// The iterator is closed when the sequence finishes, which makes the sequence single use.
func Seq[V any](i Iterator[V]) iter.Seq2[V, error] {
	return func(yield func(V, error) bool) {
		defer i.Close()
		for i.Next() {
			if !yield(i.Value(), nil) {
				return
			}
		}
		var zero V
		if err := i.Err(); err != nil {
			if !yield(zero, err) {
				return
			}
		}
		if err := i.Close(); err != nil {
			if !yield(zero, err) {
				return
			}
		}
	}
}

// FromSeq exposes an iter.Seq2 sequence of value and error pairs under the Iterator contract.
// An error entry in the sequence becomes the iterator's error cause and ends the traversal.
func FromSeq[V any](sq iter.Seq2[V, error]) Iterator[V] {
	next, stop := iter.Pull2(sq)
	return &seqIter[V]{next: next, stop: stop}
}

type seqIter[V any] struct {
	next func() (V, error, bool)
	stop func()

	value V
	err   error
	done  bool
}

func (i *seqIter[V]) Next() bool {
	if i.done || i.err != nil {
		return false
	}
	v, err, ok := i.next()
	if !ok {
		return false
	}
	if err != nil {
		i.err = err
		return false
	}
	i.value = v
	return true
}

func (i *seqIter[V]) Close() error {
	if i.done {
		return nil
	}
	i.done = true
	i.stop()
	return nil
}

func (i *seqIter[V]) Err() error {
	return i.err
}

func (i *seqIter[V]) Value() V {
	return i.value
}
