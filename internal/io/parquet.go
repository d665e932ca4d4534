package io

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/osanai/scrub/internal/dataframe"
	scruberrors "github.com/osanai/scrub/internal/errors"
	"github.com/osanai/scrub/internal/series"
)

// Read reads Parquet data and returns a DataFrame. Validity bitmaps carry
// over, so nulls survive the round trip.
func (r *ParquetReader) Read() (*dataframe.DataFrame, error) {
	data, err := io.ReadAll(r.reader)
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}

	pqReader, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating parquet file reader: %w", err)
	}
	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, r.mem)
	if err != nil {
		return nil, fmt.Errorf("creating arrow file reader: %w", err)
	}
	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}
	defer table.Release()

	return r.tableToDataFrame(table)
}

func (r *ParquetReader) tableToDataFrame(table arrow.Table) (*dataframe.DataFrame, error) {
	seriesList := make([]dataframe.ISeries, 0, int(table.NumCols()))
	for i := 0; i < int(table.NumCols()); i++ {
		col := table.Column(i)
		name := table.Schema().Field(i).Name

		s, err := r.columnToSeries(name, col)
		if err != nil {
			return nil, err
		}
		seriesList = append(seriesList, s)
	}
	return dataframe.New(seriesList...), nil
}

// columnToSeries flattens a possibly chunked column into one series.
// Narrow numeric types widen to the engine's storage types.
func (r *ParquetReader) columnToSeries(name string, col *arrow.Column) (dataframe.ISeries, error) {
	switch col.DataType().ID() {
	case arrow.INT64:
		return collectChunks(name, col, r.mem, func(arr *array.Int64, i int) int64 { return arr.Value(i) })
	case arrow.INT32:
		return collectChunks(name, col, r.mem, func(arr *array.Int32, i int) int64 { return int64(arr.Value(i)) })
	case arrow.FLOAT64:
		return collectChunks(name, col, r.mem, func(arr *array.Float64, i int) float64 { return arr.Value(i) })
	case arrow.FLOAT32:
		return collectChunks(name, col, r.mem, func(arr *array.Float32, i int) float64 { return float64(arr.Value(i)) })
	case arrow.STRING:
		return collectChunks(name, col, r.mem, func(arr *array.String, i int) string { return arr.Value(i) })
	case arrow.BOOL:
		return collectChunks(name, col, r.mem, func(arr *array.Boolean, i int) bool { return arr.Value(i) })
	default:
		return nil, scruberrors.NewUnsupportedFormatError("io.parquet.read",
			fmt.Sprintf("column %s: parquet type %s", name, col.DataType().Name()))
	}
}

// collectChunks concatenates the chunks of one column into value and
// validity slices and builds a series from them.
func collectChunks[A arrow.Array, T any](
	name string, col *arrow.Column, mem memory.Allocator, value func(A, int) T,
) (dataframe.ISeries, error) {
	values := make([]T, 0, col.Len())
	valid := make([]bool, 0, col.Len())

	for _, chunk := range col.Data().Chunks() {
		arr, ok := chunk.(A)
		if !ok {
			return nil, fmt.Errorf("column %s: unexpected chunk type %T", name, chunk)
		}
		for i := 0; i < arr.Len(); i++ {
			var v T
			if !arr.IsNull(i) {
				v = value(arr, i)
			}
			values = append(values, v)
			valid = append(valid, !arr.IsNull(i))
		}
	}
	return series.NewSafeWithNulls(name, values, valid, mem)
}

// Write writes the DataFrame to Parquet format.
func (w *ParquetWriter) Write(df *dataframe.DataFrame) error {
	table, err := dataFrameToTable(df)
	if err != nil {
		return fmt.Errorf("converting DataFrame to Arrow table: %w", err)
	}
	defer table.Release()

	var compression compress.Compression
	switch w.options.Compression {
	case "gzip":
		compression = compress.Codecs.Gzip
	case "zstd":
		compression = compress.Codecs.Zstd
	case "uncompressed":
		compression = compress.Codecs.Uncompressed
	default:
		compression = compress.Codecs.Snappy
	}

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compression),
		parquet.WithBatchSize(int64(w.options.BatchSize)),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(memory.NewGoAllocator()))

	writer, err := pqarrow.NewFileWriter(table.Schema(), w.writer, props, arrowProps)
	if err != nil {
		return fmt.Errorf("creating file writer: %w", err)
	}

	if err := writer.WriteTable(table, int64(df.Len())); err != nil {
		_ = writer.Close()
		return fmt.Errorf("writing table: %w", err)
	}
	return writer.Close()
}

// dataFrameToTable assembles an Arrow table over the frame's column
// arrays without copying values.
func dataFrameToTable(df *dataframe.DataFrame) (arrow.Table, error) {
	cols := df.Columns()
	fields := make([]arrow.Field, 0, len(cols))
	arrays := make([]arrow.Array, 0, len(cols))
	defer func() {
		for _, arr := range arrays {
			arr.Release()
		}
	}()

	for _, name := range cols {
		s, _ := df.Column(name)
		fields = append(fields, arrow.Field{Name: name, Type: s.DataType(), Nullable: true})
		arrays = append(arrays, s.Array())
	}

	schema := arrow.NewSchema(fields, nil)
	columns := make([]arrow.Column, 0, len(cols))
	for i, arr := range arrays {
		chunked := arrow.NewChunked(arr.DataType(), []arrow.Array{arr})
		columns = append(columns, *arrow.NewColumn(schema.Field(i), chunked))
	}

	return array.NewTable(schema, columns, int64(df.Len())), nil
}
