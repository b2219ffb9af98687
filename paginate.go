package batchiter

import (
	"context"
)

// Paginate will create an Iterator[T] which can be used like any other iterator,
// Under the hood the "more" function will be used to dynamically retrieve more values
// when the previously called values are already used up.
//
// If the more function has a hard-coded true for the "has next page" return value,
// then the pagination will interpret an empty result as "no more pages left".
//
// The returned iterator is a Cursor over a FetchFunc batch source,
// bound to the given context for the duration of the traversal.
func Paginate[T any](
	ctx context.Context,
	more func(ctx context.Context, offset int) (values []T, hasNext bool, _ error),
) Iterator[T] {
	var offset int
	src := FetchFunc[T](func(ctx context.Context) ([]T, bool, error) {
		vs, hasNext, err := more(ctx, offset)
		if err != nil {
			return nil, false, err
		}
		offset += len(vs)
		if hasNext && len(vs) == 0 {
			// when hasNext is true but the result is empty,
			// then it is treated as a NoMore,
			// to enable easy implementations for those cases,
			// where the developer just wants to use a hard-coded true for this value.
			return nil, false, nil
		}
		return vs, hasNext, nil
	})
	return WithContext[T](ctx, From[T](src))
}
