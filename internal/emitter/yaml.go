package emitter

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/yairfalse/idlescan/pkg/resource"
)

// YAMLEmitter writes the report as a YAML sequence of records.
type YAMLEmitter struct {
	path string
}

// NewYAMLEmitter creates a YAML emitter writing to path.
func NewYAMLEmitter(path string) *YAMLEmitter {
	return &YAMLEmitter{path: path}
}

// Emit overwrites the destination with the report.
func (e *YAMLEmitter) Emit(_ context.Context, report *resource.Report) error {
	data, err := yaml.Marshal(report.Records())
	if err != nil {
		return fmt.Errorf("marshal yaml report: %w", err)
	}
	return writeFile(e.path, data)
}

// Close is a no-op.
func (e *YAMLEmitter) Close() error {
	return nil
}
