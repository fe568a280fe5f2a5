package result

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testError struct{ msg string }

func (e testError) Error() string { return e.msg }

var errOther = errors.New("other")

func TestExpectedValue(t *testing.T) {
	e := Of(42)

	require.True(t, e.Valid())
	assert.Equal(t, 42, e.Get())
	assert.NoError(t, e.Err())
	assert.False(t, e.HasError(errOther))
}

func TestExpectedFailure(t *testing.T) {
	failure := testError{msg: "boom"}
	e := Fail[int](failure)

	require.False(t, e.Valid())
	assert.Equal(t, failure, e.Err())
	assert.True(t, e.HasError(failure))
	assert.False(t, e.HasError(errOther))
}

func TestExpectedGetResignalsFailure(t *testing.T) {
	failure := testError{msg: "boom"}
	e := Fail[int](failure)

	assert.PanicsWithValue(t, failure, func() { e.Get() })
}

func TestExpectedCopyKeepsLiveArm(t *testing.T) {
	orig := Fail[string](testError{msg: "copied"})
	cp := orig

	require.False(t, cp.Valid())
	assert.Equal(t, orig.Err(), cp.Err())

	val := Of("value")
	cp2 := val
	require.True(t, cp2.Valid())
	assert.Equal(t, "value", cp2.Get())
}

func TestFailRejectsInterfaceTypedFailure(t *testing.T) {
	var err error = testError{msg: "sliced"}

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")

		perr, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		assert.ErrorIs(t, perr, ErrSlicing)
	}()

	Fail[int](err)
}

func TestFailRejectsNilFailure(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		assert.ErrorIs(t, r.(error), ErrSlicing)
	}()

	Fail[int, error](nil)
}

func TestFailAcceptsPointerFailure(t *testing.T) {
	failure := &testError{msg: "pointer"}
	e := Fail[int](failure)

	require.False(t, e.Valid())
	assert.Same(t, failure, e.Err())
}

func TestCodedValue(t *testing.T) {
	c := OfCode(7)

	require.True(t, c.Valid())
	assert.Equal(t, 7, c.Get())
	assert.Zero(t, c.Code())
}

func TestCodedFailure(t *testing.T) {
	c := FailCode[int](3)

	require.False(t, c.Valid())
	assert.Equal(t, uint32(3), c.Code())
	assert.PanicsWithValue(t, ErrUnchecked, func() { c.Get() })
}
