// Package io reads and writes tables in CSV, Parquet, and Excel form
// with automatic type inference and null preservation: an empty cell in a
// text format round-trips as a null value, not as a zero.
package io

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/osanai/scrub/internal/dataframe"
)

// DataReader produces a DataFrame from an underlying source.
type DataReader interface {
	Read() (*dataframe.DataFrame, error)
}

// DataWriter serializes a DataFrame to an underlying sink.
type DataWriter interface {
	Write(df *dataframe.DataFrame) error
}

// CSVOptions contains configuration options for CSV operations.
type CSVOptions struct {
	// Delimiter is the field delimiter (default: comma)
	Delimiter rune
	// Comment is the comment character (default: 0 = disabled)
	Comment rune
	// Header indicates whether the first row contains headers
	Header bool
	// SkipInitialSpace indicates whether to skip initial whitespace
	SkipInitialSpace bool
}

// DefaultCSVOptions returns default CSV options.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter: ',',
		Comment:   0,
		Header:    true,
	}
}

// CSVReader reads CSV data and converts it to DataFrames.
type CSVReader struct {
	reader  io.Reader
	options CSVOptions
	mem     memory.Allocator
}

// NewCSVReader creates a new CSV reader with the specified options.
func NewCSVReader(reader io.Reader, options CSVOptions, mem memory.Allocator) *CSVReader {
	return &CSVReader{reader: reader, options: options, mem: mem}
}

// CSVWriter writes DataFrames to CSV format.
type CSVWriter struct {
	writer  io.Writer
	options CSVOptions
}

// NewCSVWriter creates a new CSV writer with the specified options.
func NewCSVWriter(writer io.Writer, options CSVOptions) *CSVWriter {
	return &CSVWriter{writer: writer, options: options}
}

// ParquetOptions contains configuration options for Parquet operations.
type ParquetOptions struct {
	// Compression type for Parquet files
	Compression string
	// BatchSize for reading/writing operations
	BatchSize int
}

// DefaultParquetOptions returns default Parquet options.
func DefaultParquetOptions() ParquetOptions {
	return ParquetOptions{
		Compression: "snappy",
		BatchSize:   1024,
	}
}

// ParquetReader reads Parquet data and converts it to DataFrames.
type ParquetReader struct {
	reader  io.Reader
	options ParquetOptions
	mem     memory.Allocator
}

// NewParquetReader creates a new Parquet reader with the specified options.
func NewParquetReader(reader io.Reader, options ParquetOptions, mem memory.Allocator) *ParquetReader {
	return &ParquetReader{reader: reader, options: options, mem: mem}
}

// ParquetWriter writes DataFrames to Parquet format.
type ParquetWriter struct {
	writer  io.Writer
	options ParquetOptions
}

// NewParquetWriter creates a new Parquet writer with the specified options.
func NewParquetWriter(writer io.Writer, options ParquetOptions) *ParquetWriter {
	return &ParquetWriter{writer: writer, options: options}
}

// ExcelOptions contains configuration options for Excel operations.
type ExcelOptions struct {
	// Sheet is the worksheet name; empty selects the first sheet on read
	// and "Sheet1" on write.
	Sheet string
	// Header indicates whether the first row contains headers
	Header bool
}

// DefaultExcelOptions returns default Excel options.
func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{Header: true}
}
