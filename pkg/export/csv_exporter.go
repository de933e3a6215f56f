package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// utf8BOM makes spreadsheet applications detect the encoding; timetable
// exports are typically opened in Excel rather than parsed programmatically.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Dataset defines tabular export content. Rows are keyed by header name;
// cells absent from a row render as emptyCell.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

const emptyCell = "-"

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	buf.Write(utf8BOM)
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			if value, ok := row[header]; ok && value != "" {
				record[i] = value
			} else {
				record[i] = emptyCell
			}
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
