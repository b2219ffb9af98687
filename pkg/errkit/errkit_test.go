package errkit_test

import (
	"errors"
	"fmt"
	"testing"

	"go.llib.dev/testcase/assert"
	"go.llib.dev/testcase/random"

	"go.llib.dev/batchiter/pkg/errkit"
)

var rnd = random.New(random.CryptoSeed{})

func ExampleError_Error() {
	const ErrSomething errkit.Error = "something is an error"

	_ = ErrSomething
}

func TestError_Error_smoke(t *testing.T) {
	const ErrExample errkit.Error = "ErrExample"
	assert.Equal(t, ErrExample.Error(), string(ErrExample))
}

type ErrAsStub struct {
	V string
}

func (err ErrAsStub) Error() string {
	return fmt.Sprintf("ErrAsStub: %s", err.V)
}

func TestError_Wrap_smoke(t *testing.T) {
	const ErrExample errkit.Error = "ErrExample"
	t.Run("happy", func(t *testing.T) {
		exp := rnd.Error()
		got := ErrExample.Wrap(exp)
		assert.ErrorIs(t, got, exp)
		assert.ErrorIs(t, got, ErrExample)
		assert.Contain(t, got.Error(), fmt.Sprintf("[%s] %s", ErrExample, exp.Error()))

		t.Run("Is", func(t *testing.T) {
			assert.True(t, errors.Is(got, ErrExample))
			assert.True(t, errors.Is(got, exp))
		})

		t.Run("As", func(t *testing.T) {
			exp := ErrAsStub{V: rnd.String()}
			got := ErrExample.Wrap(exp)
			assert.ErrorIs(t, got, exp)
			assert.ErrorIs(t, got, ErrExample)

			var expected ErrAsStub
			assert.True(t, errors.As(got, &expected))
			assert.Equal(t, exp, expected)
		})
	})
	t.Run("nil", func(t *testing.T) {
		got := ErrExample.Wrap(nil)
		assert.ErrorIs(t, got, ErrExample)
		assert.Equal[error](t, got, ErrExample)
	})
}

func TestError_F_smoke(t *testing.T) {
	const ErrExample errkit.Error = "ErrExample"
	t.Run("sprintf", func(t *testing.T) {
		got := ErrExample.F("foo - bar - %s", "baz")
		assert.ErrorIs(t, got, ErrExample)
		assert.Contain(t, got.Error(), "foo - bar - baz")
	})
	t.Run("errorf", func(t *testing.T) {
		exp := rnd.Error()
		got := ErrExample.F("%w", exp)
		assert.ErrorIs(t, got, ErrExample)
		assert.ErrorIs(t, got, exp)
		assert.Contain(t, got.Error(), ErrExample.Error())
	})
}

func TestMerge_smoke(t *testing.T) {
	t.Run("no error", func(t *testing.T) {
		assert.NoError(t, errkit.Merge())
		assert.NoError(t, errkit.Merge(nil))
		assert.NoError(t, errkit.Merge(nil, nil))
	})
	t.Run("single error", func(t *testing.T) {
		exp := rnd.Error()
		got := errkit.Merge(exp)
		assert.Equal[error](t, got, exp)
	})
	t.Run("single error mixed with nils", func(t *testing.T) {
		exp := rnd.Error()
		got := errkit.Merge(nil, exp, nil)
		assert.Equal[error](t, got, exp)
	})
	t.Run("multiple errors", func(t *testing.T) {
		err1 := rnd.Error()
		err2 := rnd.Error()
		got := errkit.Merge(err1, err2)
		assert.ErrorIs(t, got, err1)
		assert.ErrorIs(t, got, err2)
	})
}

func TestFinish_smoke(t *testing.T) {
	t.Run("when both are nil", func(t *testing.T) {
		var do = func() (rErr error) {
			defer errkit.Finish(&rErr, func() error { return nil })
			return nil
		}
		assert.NoError(t, do())
	})
	t.Run("when the deferred block fails", func(t *testing.T) {
		exp := rnd.Error()
		var do = func() (rErr error) {
			defer errkit.Finish(&rErr, func() error { return exp })
			return nil
		}
		assert.ErrorIs(t, do(), exp)
	})
	t.Run("when the function already returned with a failure", func(t *testing.T) {
		exp := rnd.Error()
		var do = func() (rErr error) {
			defer errkit.Finish(&rErr, func() error { return nil })
			return exp
		}
		assert.ErrorIs(t, do(), exp)
	})
	t.Run("when both fail, both are reported back", func(t *testing.T) {
		expReturned := rnd.Error()
		expDeferred := rnd.Error()
		var do = func() (rErr error) {
			defer errkit.Finish(&rErr, func() error { return expDeferred })
			return expReturned
		}
		got := do()
		assert.ErrorIs(t, got, expReturned)
		assert.ErrorIs(t, got, expDeferred)
	})
}
