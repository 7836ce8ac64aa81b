package resource

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorRecord(t *testing.T) {
	r := ErrorRecord(TypeEKSCluster, "", "us-east-1", errors.New("access denied"))

	assert.Equal(t, TypeEKSCluster, r.ResourceType)
	assert.Equal(t, NotApplicable, r.ResourceID)
	assert.Equal(t, "us-east-1", r.Region)
	assert.Equal(t, StatusError, r.Status)
	assert.Equal(t, "access denied", r.Details)
	assert.True(t, r.IsError())
}

func TestErrorRecord_UnknownRegion(t *testing.T) {
	r := ErrorRecord(TypeS3Bucket, "logs", "", errors.New("boom"))

	assert.Equal(t, "logs", r.ResourceID)
	assert.Equal(t, UnknownRegion, r.Region)
}

func TestReport_AppendKeepsOrder(t *testing.T) {
	rep := NewReport()
	rep.Append(Record{ResourceType: TypeEBSVolume, ResourceID: "vol-1", Status: StatusUnattached})
	rep.Append(
		Record{ResourceType: TypeElasticIP, ResourceID: "1.2.3.4", Status: StatusUnassociated},
		Record{ResourceType: TypeS3Bucket, ResourceID: "b", Status: StatusEmpty},
	)

	records := rep.Records()
	require.Len(t, records, 3)
	assert.Equal(t, 3, rep.Len())
	assert.Equal(t, "vol-1", records[0].ResourceID)
	assert.Equal(t, "1.2.3.4", records[1].ResourceID)
	assert.Equal(t, "b", records[2].ResourceID)
}

func TestReport_RecordsIsCopy(t *testing.T) {
	rep := NewReport()
	rep.Append(Record{ResourceType: TypeFSx, ResourceID: "fs-1", Status: "AVAILABLE"})

	records := rep.Records()
	records[0].Status = "changed"

	assert.Equal(t, "AVAILABLE", rep.Records()[0].Status)
}

func TestReport_AppendAfterFreezePanics(t *testing.T) {
	rep := NewReport()
	rep.Freeze()

	assert.True(t, rep.Frozen())
	assert.Panics(t, func() {
		rep.Append(Record{ResourceType: TypeFSx, Status: "AVAILABLE"})
	})
}

func TestReport_Counts(t *testing.T) {
	rep := NewReport()
	rep.Append(
		Record{ResourceType: TypeS3Bucket, Status: StatusActive},
		Record{ResourceType: TypeEBSVolume, Status: StatusUnattached},
		Record{ResourceType: TypeS3Bucket, Status: StatusError},
		Record{ResourceType: TypeS3Bucket, Status: StatusActive},
	)

	counts := rep.Counts()

	require.Len(t, counts, 3)
	assert.Equal(t, Count{ResourceType: TypeEBSVolume, Status: StatusUnattached, Records: 1}, counts[0])
	assert.Equal(t, Count{ResourceType: TypeS3Bucket, Status: StatusActive, Records: 2}, counts[1])
	assert.Equal(t, Count{ResourceType: TypeS3Bucket, Status: StatusError, Records: 1}, counts[2])
}
