package value_test

import (
	"math"
	"testing"

	"github.com/seho-dev/bud/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual_ScalarVariants(t *testing.T) {
	t.Parallel()

	assert.True(t, value.Equal(value.Null, value.Null))
	assert.True(t, value.Equal(value.Bool(true), value.Bool(true)))
	assert.False(t, value.Equal(value.Bool(true), value.Bool(false)))
	assert.True(t, value.Equal(value.I32(7), value.I32(7)))
	assert.False(t, value.Equal(value.I32(7), value.I64(7)))
	assert.True(t, value.Equal(value.String("x"), value.String("x")))
}

func TestEqual_Composite_ElementWiseInOrder(t *testing.T) {
	t.Parallel()

	a := value.Array(value.I32(1), value.I32(2))
	b := value.Array(value.I32(1), value.I32(2))
	c := value.Array(value.I32(2), value.I32(1))
	assert.True(t, value.Equal(a, b))
	assert.False(t, value.Equal(a, c))

	o1 := value.Object(value.Pair{Key: "a", Value: value.I32(1)}, value.Pair{Key: "b", Value: value.I32(2)})
	o2 := value.Object(value.Pair{Key: "a", Value: value.I32(1)}, value.Pair{Key: "b", Value: value.I32(2)})
	o3 := value.Object(value.Pair{Key: "b", Value: value.I32(2)}, value.Pair{Key: "a", Value: value.I32(1)})
	assert.True(t, value.Equal(o1, o2))
	assert.False(t, value.Equal(o1, o3), "key order is part of Object identity")
}

func TestFloatBitPatterns_PreserveNaNPayload(t *testing.T) {
	t.Parallel()

	nan1 := math.Float64frombits(0x7ff8000000000001)
	nan2 := math.Float64frombits(0x7ff8000000000002)

	v1 := value.F64(nan1)
	v2 := value.F64(nan2)

	// Mathematically both are NaN and != under IEEE-754 float comparison,
	// but the ADT must distinguish them because they cross the boundary as
	// bit patterns, not as floats.
	assert.False(t, value.Equal(v1, v2))
	assert.True(t, value.Equal(v1, value.F64(nan1)))

	bits, ok := value.F64Bits(v1)
	require.True(t, ok)
	assert.Equal(t, uint64(0x7ff8000000000001), bits)
	assert.True(t, value.Equal(value.F64FromBits(bits), v1))
}

func TestIsNumeric(t *testing.T) {
	t.Parallel()

	assert.True(t, value.I32(1).IsNumeric())
	assert.True(t, value.I64(1).IsNumeric())
	assert.True(t, value.F32(1).IsNumeric())
	assert.True(t, value.F64(1).IsNumeric())
	assert.False(t, value.Null.IsNumeric())
	assert.False(t, value.Bool(true).IsNumeric())
	assert.False(t, value.String("s").IsNumeric())
	assert.False(t, value.Array().IsNumeric())
	assert.False(t, value.Object().IsNumeric())
}

func TestKindString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		v    value.Value
		want string
	}{
		{value.Null, "Null"},
		{value.Bool(true), "Bool"},
		{value.I32(1), "I32"},
		{value.I64(1), "I64"},
		{value.F32(1), "F32"},
		{value.F64(1), "F64"},
		{value.String("s"), "String"},
		{value.Array(), "Array"},
		{value.Object(), "Object"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.v.Kind().String())
	}
}
