package batchiter

import (
	"context"

	"go.llib.dev/batchiter/pkg/errkit"
)

// Collect will drain the iterator into a slice, then close the iterator.
func Collect[T any](i Iterator[T]) (vs []T, err error) {
	defer func() {
		closeErr := i.Close()
		if err == nil {
			err = closeErr
		}
	}()
	vs = make([]T, 0)
	for i.Next() {
		vs = append(vs, i.Value())
	}
	return vs, i.Err()
}

// CollectContext behaves like Collect for a ContextIterator.
// Both the traversal and the final release receive the given context.
func CollectContext[T any](ctx context.Context, i ContextIterator[T]) (vs []T, err error) {
	defer func() {
		closeErr := i.CloseContext(ctx)
		if err == nil {
			err = closeErr
		}
	}()
	vs = make([]T, 0)
	for i.NextContext(ctx) {
		vs = append(vs, i.Value())
	}
	return vs, i.Err()
}

// First decode the first next value of the iterator and close the iterator
func First[T any](i Iterator[T]) (value T, found bool, err error) {
	defer func() {
		cErr := i.Close()
		if err == nil {
			err = cErr
		}
	}()
	if !i.Next() {
		return value, false, i.Err()
	}
	return i.Value(), true, i.Err()
}

// Last fully drains the iterator and returns the final value it observed.
func Last[T any](i Iterator[T]) (value T, found bool, err error) {
	defer func() {
		cErr := i.Close()
		if err == nil && cErr != nil {
			err = cErr
		}
	}()
	iterated := false
	var v T
	for i.Next() {
		iterated = true
		v = i.Value()
	}
	if err := i.Err(); err != nil {
		return v, false, err
	}
	if !iterated {
		return v, false, nil
	}
	return v, true, nil
}

// Take will take up to `n` amount of element, if it is available.
// The iterator is left open, so the remaining elements are still retrievable.
func Take[T any](iter Iterator[T], n int) ([]T, error) {
	var vs []T
	for i := 0; i < n; i++ {
		if !iter.Next() {
			break
		}
		vs = append(vs, iter.Value())
	}
	return vs, iter.Err()
}

// Count will iterate over and count the total iterations number
//
// Good when all you want is count all the elements in an iterator but don't want to do anything else.
func Count[T any](i Iterator[T]) (total int, err error) {
	defer func() {
		closeErr := i.Close()
		if err == nil {
			err = closeErr
		}
	}()
	total = 0
	for i.Next() {
		total++
	}
	return total, i.Err()
}

// Break can be returned from the ForEach block to stop the traversal early without an error.
const Break errkit.Error = `batchiter:break`

// ForEach runs the block on each element of the iterator, then closes the iterator.
func ForEach[T any](i Iterator[T], fn func(T) error) (rErr error) {
	defer func() {
		cErr := i.Close()
		if rErr == nil {
			rErr = cErr
		}
	}()
	for i.Next() {
		v := i.Value()
		err := fn(v)
		if err == Break {
			break
		}
		if err != nil {
			return err
		}
	}
	return i.Err()
}

// Reduce folds the iterator's elements into a single value with the given block.
func Reduce[
	R, T any,
	FN func(R, T) R |
		func(R, T) (R, error),
](i Iterator[T], initial R, blk FN) (result R, rErr error) {
	var do func(R, T) (R, error)
	switch blk := any(blk).(type) {
	case func(R, T) R:
		do = func(result R, t T) (R, error) {
			return blk(result, t), nil
		}
	case func(R, T) (R, error):
		do = blk
	}
	defer func() {
		cErr := i.Close()
		if rErr != nil {
			return
		}
		rErr = cErr
	}()
	var v = initial
	for i.Next() {
		var err error
		v, err = do(v, i.Value())
		if err != nil {
			return v, err
		}
	}
	return v, i.Err()
}

// Must returns the value or panics on a non nil error.
// Meant for tests and examples where the error outcome is not part of the exercised behaviour.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
