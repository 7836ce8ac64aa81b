package emitter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/yairfalse/idlescan/pkg/resource"
)

// CSVEmitter writes the report as CSV with a header row.
type CSVEmitter struct {
	path string
}

// NewCSVEmitter creates a CSV emitter writing to path.
func NewCSVEmitter(path string) *CSVEmitter {
	return &CSVEmitter{path: path}
}

// Path returns the destination file.
func (e *CSVEmitter) Path() string {
	return e.path
}

// Emit overwrites the destination with the report.
func (e *CSVEmitter) Emit(_ context.Context, report *resource.Report) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, report.Records()); err != nil {
		return err
	}
	return writeFile(e.path, buf.Bytes())
}

// Close is a no-op.
func (e *CSVEmitter) Close() error {
	return nil
}

// WriteCSV writes the header followed by one row per record.
func WriteCSV(w io.Writer, records []resource.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write([]string{r.ResourceType, r.ResourceID, r.Region, r.Status, r.Details}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a report previously written by WriteCSV.
func ReadCSV(r io.Reader) ([]resource.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read csv: missing header")
	}
	for i, col := range Header {
		if rows[0][i] != col {
			return nil, fmt.Errorf("read csv: unexpected column %q at %d", rows[0][i], i)
		}
	}

	records := make([]resource.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, resource.Record{
			ResourceType: row[0],
			ResourceID:   row[1],
			Region:       row[2],
			Status:       row[3],
			Details:      row[4],
		})
	}
	return records, nil
}
