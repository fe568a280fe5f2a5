// Package result provides the two value-or-failure containers returned by
// the container-based aggregation strategies.
//
// Expected carries a deferred failure: the error is captured where the
// failure happens and re-signaled, with its identity intact, when the caller
// asks for the value. Coded carries a small numeric failure code instead.
package result

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrUnchecked is raised by Coded.Get when the failure arm is live.
	ErrUnchecked = errors.New("unchecked error")

	// ErrSlicing is raised by Fail when the captured failure's dynamic type
	// differs from its static type.
	ErrSlicing = errors.New("invalid failure type; slicing may occur")
)

// Expected holds either a value or a captured failure. Exactly one arm is
// live; the zero Expected is not valid and must not be used.
type Expected[T any] struct {
	value T
	err   error
	ok    bool
}

// Of returns an Expected holding val.
func Of[T any](val T) Expected[T] {
	return Expected[T]{value: val, ok: true}
}

// Fail returns an Expected holding err. The dynamic type of err must be
// exactly E: passing a concrete failure through an interface-typed E, or a
// nil failure, panics with an error wrapping ErrSlicing.
func Fail[T any, E error](err E) Expected[T] {
	static := reflect.TypeFor[E]()
	dynamic := reflect.TypeOf(err)

	if dynamic != static {
		panic(fmt.Errorf("%w: captured %v as %v", ErrSlicing, dynamic, static))
	}

	return Expected[T]{err: err}
}

// Valid reports whether the value arm is live.
func (e Expected[T]) Valid() bool {
	return e.ok
}

// Get returns the value, or re-signals the captured failure by panicking
// with the original error value.
func (e Expected[T]) Get() T {
	if !e.ok {
		panic(e.err)
	}

	return e.value
}

// Err returns the captured failure, or nil when the value arm is live.
func (e Expected[T]) Err() error {
	if e.ok {
		return nil
	}

	return e.err
}

// HasError reports whether the failure arm is live and matches target in
// the sense of errors.Is.
func (e Expected[T]) HasError(target error) bool {
	return !e.ok && errors.Is(e.err, target)
}
