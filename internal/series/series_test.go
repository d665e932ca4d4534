package series

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTypedSeries(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("string", func(t *testing.T) {
		s := New("city", []string{"tokyo", "osaka"}, mem)
		defer s.Release()

		assert.Equal(t, "city", s.Name())
		assert.Equal(t, 2, s.Len())
		assert.Equal(t, arrow.STRING, s.DataType().ID())
		assert.Equal(t, "osaka", s.Value(1))
		assert.Zero(t, s.NullCount())
	})

	t.Run("int64", func(t *testing.T) {
		s := New("age", []int64{30, 41}, mem)
		defer s.Release()

		assert.Equal(t, arrow.INT64, s.DataType().ID())
		assert.Equal(t, []int64{30, 41}, s.Values())
	})

	t.Run("float64", func(t *testing.T) {
		s := New("score", []float64{0.5, 1.5}, mem)
		defer s.Release()

		assert.Equal(t, arrow.FLOAT64, s.DataType().ID())
	})

	t.Run("bool", func(t *testing.T) {
		s := New("active", []bool{true, false}, mem)
		defer s.Release()

		assert.Equal(t, arrow.BOOL, s.DataType().ID())
	})
}

func TestNewWithNulls(t *testing.T) {
	mem := memory.NewGoAllocator()

	s := NewWithNulls("income", []float64{100, 0, 300}, []bool{true, false, true}, mem)
	defer s.Release()

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 1, s.NullCount())
	assert.False(t, s.IsNull(0))
	assert.True(t, s.IsNull(1))

	// null slots read as zero values
	values := s.Values()
	assert.Equal(t, []float64{100, 0, 300}, values)
	assert.Equal(t, []bool{true, false, true}, s.Validity())
}

func TestNewWithNullsMismatchedMaskPanics(t *testing.T) {
	mem := memory.NewGoAllocator()
	assert.Panics(t, func() {
		NewWithNulls("x", []int64{1, 2, 3}, []bool{true}, mem)
	})
}

func TestNewSafeUnsupportedType(t *testing.T) {
	mem := memory.NewGoAllocator()

	type odd struct{ A int }
	s, err := NewSafe("bad", []odd{{1}}, mem)
	require.Error(t, err)
	assert.Nil(t, s)
}

func TestNewSafeWithNulls(t *testing.T) {
	mem := memory.NewGoAllocator()

	s, err := NewSafeWithNulls("name", []string{"a", ""}, []bool{true, false}, mem)
	require.NoError(t, err)
	defer s.Release()
	assert.Equal(t, 1, s.NullCount())

	_, err = NewSafeWithNulls("x", []int64{1}, []bool{true, false}, mem)
	assert.Error(t, err)
}

func TestValueOutOfRangeReturnsZero(t *testing.T) {
	mem := memory.NewGoAllocator()
	s := New("v", []int64{7}, mem)
	defer s.Release()

	assert.Equal(t, int64(7), s.Value(0))
	assert.Zero(t, s.Value(5))
	assert.Zero(t, s.Value(-1))
}
