// Package emitter writes the audit report to its destinations.
package emitter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yairfalse/idlescan/internal/config"
	"github.com/yairfalse/idlescan/pkg/resource"
)

// Emitter outputs a completed report to a backend.
type Emitter interface {
	// Emit writes the report.
	Emit(ctx context.Context, report *resource.Report) error

	// Close cleans up resources.
	Close() error
}

// Header is the column order shared by every tabular format.
var Header = []string{"ResourceType", "ResourceId", "Region", "Status", "Details"}

// New returns the report emitter for the given format.
func New(format, path string) (Emitter, error) {
	switch format {
	case config.FormatCSV:
		return NewCSVEmitter(path), nil
	case config.FormatJSON:
		return NewJSONEmitter(path), nil
	case config.FormatYAML:
		return NewYAMLEmitter(path), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// MultiEmitter fans out to multiple emitters.
type MultiEmitter struct {
	emitters []Emitter
}

// NewMultiEmitter creates an emitter that sends to multiple backends.
func NewMultiEmitter(emitters ...Emitter) *MultiEmitter {
	return &MultiEmitter{emitters: emitters}
}

// Emit sends to all emitters, returns first error.
func (m *MultiEmitter) Emit(ctx context.Context, report *resource.Report) error {
	for _, e := range m.emitters {
		if err := e.Emit(ctx, report); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all emitters.
func (m *MultiEmitter) Close() error {
	for _, e := range m.emitters {
		if err := e.Close(); err != nil {
			return err
		}
	}
	return nil
}

// writeFile atomically replaces path with data.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename report: %w", err)
	}
	return nil
}
