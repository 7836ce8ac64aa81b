// Package resource defines the unified audit record and report for idlescan.
package resource

import (
	"sort"
	"sync"
	"time"
)

// Resource types as they appear in the report.
const (
	TypeEBSVolume  = "EBS Volume"
	TypeElasticIP  = "Elastic IP"
	TypeS3Bucket   = "S3 Bucket"
	TypeEKSCluster = "EKS Cluster"
	TypeFSx        = "FSx"
)

// Statuses assigned by the collectors. EKS and FSx report their native
// lifecycle strings instead.
const (
	StatusUnattached   = "Unattached"
	StatusUnassociated = "Unassociated"
	StatusActive       = "Active"
	StatusEmpty        = "Empty"
	StatusError        = "Error"
)

// Sentinels used when the real value is not known.
const (
	NotApplicable = "N/A"
	UnknownRegion = "Unknown"
)

// Record is one row of the audit report.
type Record struct {
	ResourceType string `json:"ResourceType" yaml:"ResourceType"`
	ResourceID   string `json:"ResourceId" yaml:"ResourceId"`
	Region       string `json:"Region" yaml:"Region"`
	Status       string `json:"Status" yaml:"Status"`
	Details      string `json:"Details" yaml:"Details"`
}

// IsError reports whether the record stands for a failure.
func (r Record) IsError() bool {
	return r.Status == StatusError
}

// ErrorRecord builds the synthetic record emitted in place of data that
// could not be collected.
func ErrorRecord(typ, id, region string, err error) Record {
	if id == "" {
		id = NotApplicable
	}
	if region == "" {
		region = UnknownRegion
	}
	return Record{
		ResourceType: typ,
		ResourceID:   id,
		Region:       region,
		Status:       StatusError,
		Details:      err.Error(),
	}
}

// Report is the ordered, append-only result of one audit run.
type Report struct {
	mu      sync.RWMutex
	records []Record
	frozen  bool
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{}
}

// Append adds records in order. Appending to a frozen report panics.
func (r *Report) Append(records ...Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		panic("resource: append to frozen report")
	}
	r.records = append(r.records, records...)
}

// Freeze marks the end of collection.
func (r *Report) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Report) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Len returns the number of records.
func (r *Report) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Records returns a copy of the records in insertion order.
func (r *Report) Records() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Count is the number of records sharing a resource type and status.
type Count struct {
	ResourceType string
	Status       string
	Records      int
}

// Counts summarises the report by (type, status), sorted by type then status.
func (r *Report) Counts() []Count {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := make(map[[2]string]int)
	var counts []Count
	for _, rec := range r.records {
		key := [2]string{rec.ResourceType, rec.Status}
		i, ok := idx[key]
		if !ok {
			i = len(counts)
			idx[key] = i
			counts = append(counts, Count{ResourceType: rec.ResourceType, Status: rec.Status})
		}
		counts[i].Records++
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].ResourceType != counts[j].ResourceType {
			return counts[i].ResourceType < counts[j].ResourceType
		}
		return counts[i].Status < counts[j].Status
	})
	return counts
}

// ScanResult holds the outcome of one collector run.
type ScanResult struct {
	Collector string
	Region    string
	Records   int
	Duration  time.Duration
	Error     error
}
