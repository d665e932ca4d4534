package io

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/osanai/scrub/internal/dataframe"
	"github.com/osanai/scrub/internal/series"
)

const (
	trueStr  = "true"
	falseStr = "false"
)

// Read reads CSV data and returns a DataFrame. Empty cells become nulls.
func (r *CSVReader) Read() (*dataframe.DataFrame, error) {
	csvReader := csv.NewReader(r.reader)
	csvReader.Comma = r.options.Delimiter
	csvReader.Comment = r.options.Comment
	csvReader.TrimLeadingSpace = r.options.SkipInitialSpace

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return dataframe.New(), nil
	}

	var headers []string
	var dataRows [][]string
	if r.options.Header {
		headers = records[0]
		dataRows = records[1:]
	} else {
		numCols := len(records[0])
		headers = make([]string, numCols)
		for i := 0; i < numCols; i++ {
			headers[i] = fmt.Sprintf("column_%d", i)
		}
		dataRows = records
	}

	// Transpose to columns; short rows pad with empty (null) cells.
	numCols := len(headers)
	columns := make([][]string, numCols)
	for i := 0; i < numCols; i++ {
		columns[i] = make([]string, len(dataRows))
		for j, row := range dataRows {
			if i < len(row) {
				columns[i][j] = row[i]
			}
		}
	}

	seriesList := make([]dataframe.ISeries, 0, numCols)
	for i, header := range headers {
		s, err := seriesFromStrings(header, columns[i], r.mem)
		if err != nil {
			return nil, fmt.Errorf("creating series for column %s: %w", header, err)
		}
		seriesList = append(seriesList, s)
	}
	return dataframe.New(seriesList...), nil
}

// seriesFromStrings creates a series from raw string cells, inferring the
// narrowest type that fits every non-empty cell. Empty cells are null.
func seriesFromStrings(name string, data []string, mem memory.Allocator) (dataframe.ISeries, error) {
	valid := make([]bool, len(data))
	for i, value := range data {
		valid[i] = value != ""
	}

	switch inferDataType(data) {
	case "bool":
		values := make([]bool, len(data))
		for i, value := range data {
			if valid[i] {
				values[i] = strings.EqualFold(value, trueStr)
			}
		}
		return series.NewSafeWithNulls(name, values, valid, mem)
	case "int":
		values := make([]int64, len(data))
		for i, value := range data {
			if valid[i] {
				values[i], _ = strconv.ParseInt(value, 10, 64)
			}
		}
		return series.NewSafeWithNulls(name, values, valid, mem)
	case "float":
		values := make([]float64, len(data))
		for i, value := range data {
			if valid[i] {
				values[i], _ = strconv.ParseFloat(value, 64)
			}
		}
		return series.NewSafeWithNulls(name, values, valid, mem)
	default:
		return series.NewSafeWithNulls(name, data, valid, mem)
	}
}

// inferDataType determines the most specific type holding every non-empty
// cell. All-empty columns default to string.
func inferDataType(data []string) string {
	canBeInt := true
	canBeFloat := true
	canBeBool := true
	hasValue := false

	for _, value := range data {
		if value == "" {
			continue
		}
		hasValue = true

		if canBeBool {
			lower := strings.ToLower(value)
			if lower != trueStr && lower != falseStr {
				canBeBool = false
			}
		}
		if canBeInt {
			if _, err := strconv.ParseInt(value, 10, 64); err != nil {
				canBeInt = false
			}
		}
		if canBeFloat {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				canBeFloat = false
			}
		}
	}

	if !hasValue {
		return "string"
	}
	if canBeBool {
		return "bool"
	}
	if canBeInt {
		return "int"
	}
	if canBeFloat {
		return "float"
	}
	return "string"
}

// Write writes the DataFrame to CSV format. Nulls serialize as empty
// cells, the inverse of the reader's convention.
func (w *CSVWriter) Write(df *dataframe.DataFrame) error {
	csvWriter := csv.NewWriter(w.writer)
	csvWriter.Comma = w.options.Delimiter
	defer csvWriter.Flush()

	if w.options.Header {
		if err := csvWriter.Write(df.Columns()); err != nil {
			return fmt.Errorf("writing headers: %w", err)
		}
	}

	cols := df.Columns()
	for i := 0; i < df.Len(); i++ {
		row := make([]string, len(cols))
		for j, name := range cols {
			if cell, present := df.CellString(name, i); present {
				row[j] = cell
			}
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	return csvWriter.Error()
}
