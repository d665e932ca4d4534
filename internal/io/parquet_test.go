package io

import (
	"bytes"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osanai/scrub/internal/dataframe"
	"github.com/osanai/scrub/internal/series"
)

func TestParquetRoundTrip(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("name", []string{"alice", "bob", "carol"}, mem),
		series.New("age", []int64{30, 41, 27}, mem),
		series.NewWithNulls("income", []float64{52000, 0, 48000}, []bool{true, false, true}, mem),
		series.New("active", []bool{true, false, true}, mem),
	)
	defer df.Release()

	var buf bytes.Buffer
	writer := NewParquetWriter(&buf, DefaultParquetOptions())
	require.NoError(t, writer.Write(df))

	back, err := NewParquetReader(&buf, DefaultParquetOptions(), mem).Read()
	require.NoError(t, err)
	defer back.Release()

	assert.Equal(t, df.Columns(), back.Columns())
	assert.Equal(t, 3, back.Len())

	values, valid, ok := back.FloatColumn("income")
	require.True(t, ok)
	assert.Equal(t, []bool{true, false, true}, valid)
	assert.Equal(t, 52000.0, values[0])

	cell, present := back.CellString("name", 1)
	assert.True(t, present)
	assert.Equal(t, "bob", cell)

	s, _ := back.Column("active")
	assert.Equal(t, arrow.BOOL, s.DataType().ID())
}

func TestParquetCompressionCodecs(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("v", []int64{1, 2, 3}, mem),
	)
	defer df.Release()

	for _, codec := range []string{"snappy", "gzip", "zstd", "uncompressed"} {
		t.Run(codec, func(t *testing.T) {
			opts := DefaultParquetOptions()
			opts.Compression = codec

			var buf bytes.Buffer
			require.NoError(t, NewParquetWriter(&buf, opts).Write(df))

			back, err := NewParquetReader(&buf, opts, mem).Read()
			require.NoError(t, err)
			defer back.Release()
			assert.Equal(t, 3, back.Len())
		})
	}
}

func TestParquetReadGarbage(t *testing.T) {
	mem := memory.NewGoAllocator()
	reader := NewParquetReader(bytes.NewReader([]byte("not parquet")), DefaultParquetOptions(), mem)

	_, err := reader.Read()
	assert.Error(t, err)
}
