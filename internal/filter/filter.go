// Package filter selects which collectors take part in an audit.
package filter

import (
	"github.com/yairfalse/idlescan/internal/collector"
)

// Filter controls which collectors run.
type Filter struct {
	include map[string]bool
	exclude map[string]bool
}

// New creates a new Filter. An empty include list means "all".
func New(include, exclude []string) *Filter {
	return &Filter{
		include: toSet(include),
		exclude: toSet(exclude),
	}
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// ShouldRun returns true if the named collector should run.
func (f *Filter) ShouldRun(name string) bool {
	if f.exclude[name] {
		return false
	}
	return len(f.include) == 0 || f.include[name]
}

// Apply returns the collectors that pass the filter, keeping their order.
func (f *Filter) Apply(collectors []collector.Collector) []collector.Collector {
	if f.IsEmpty() {
		return collectors
	}

	kept := make([]collector.Collector, 0, len(collectors))
	for _, c := range collectors {
		if f.ShouldRun(c.Name()) {
			kept = append(kept, c)
		}
	}
	return kept
}

// IsEmpty returns true if no filters are configured.
func (f *Filter) IsEmpty() bool {
	return len(f.include) == 0 && len(f.exclude) == 0
}
