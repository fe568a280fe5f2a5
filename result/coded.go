package result

// Coded holds either a value or a non-zero numeric failure code.
type Coded[T any] struct {
	value T
	code  uint32
	ok    bool
}

// OfCode returns a Coded holding val.
func OfCode[T any](val T) Coded[T] {
	return Coded[T]{value: val, ok: true}
}

// FailCode returns a Coded holding the failure code.
func FailCode[T any](code uint32) Coded[T] {
	return Coded[T]{code: code}
}

// Valid reports whether the value arm is live.
func (c Coded[T]) Valid() bool {
	return c.ok
}

// Get returns the value. It panics with ErrUnchecked when the failure arm
// is live, since the code itself carries no error identity.
func (c Coded[T]) Get() T {
	if !c.ok {
		panic(ErrUnchecked)
	}

	return c.value
}

// Code returns the failure code, or 0 when the value arm is live.
func (c Coded[T]) Code() uint32 {
	if c.ok {
		return 0
	}

	return c.code
}
