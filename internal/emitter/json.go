package emitter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yairfalse/idlescan/pkg/resource"
)

// JSONEmitter writes the report as a JSON array of records.
type JSONEmitter struct {
	path string
}

// NewJSONEmitter creates a JSON emitter writing to path.
func NewJSONEmitter(path string) *JSONEmitter {
	return &JSONEmitter{path: path}
}

// Emit overwrites the destination with the report.
func (e *JSONEmitter) Emit(_ context.Context, report *resource.Report) error {
	data, err := json.MarshalIndent(report.Records(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json report: %w", err)
	}
	return writeFile(e.path, append(data, '\n'))
}

// Close is a no-op.
func (e *JSONEmitter) Close() error {
	return nil
}
