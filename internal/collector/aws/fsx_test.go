package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/fsx"
	fsxtypes "github.com/aws/aws-sdk-go-v2/service/fsx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/idlescan/pkg/resource"
)

type mockFSxClient struct {
	DescribeFileSystemsFunc func(ctx context.Context, params *fsx.DescribeFileSystemsInput, optFns ...func(*fsx.Options)) (*fsx.DescribeFileSystemsOutput, error)
}

func (m *mockFSxClient) DescribeFileSystems(ctx context.Context, params *fsx.DescribeFileSystemsInput, optFns ...func(*fsx.Options)) (*fsx.DescribeFileSystemsOutput, error) {
	return m.DescribeFileSystemsFunc(ctx, params, optFns...)
}

func TestFileSystemCollector(t *testing.T) {
	mock := &mockFSxClient{
		DescribeFileSystemsFunc: func(_ context.Context, _ *fsx.DescribeFileSystemsInput, _ ...func(*fsx.Options)) (*fsx.DescribeFileSystemsOutput, error) {
			return &fsx.DescribeFileSystemsOutput{
				FileSystems: []fsxtypes.FileSystem{
					{
						FileSystemId: aws.String("fs-0123"),
						Lifecycle:    fsxtypes.FileSystemLifecycleAvailable,
						CreationTime: aws.Time(time.Date(2022, 11, 2, 23, 59, 0, 0, time.UTC)),
					},
					{
						FileSystemId: aws.String("fs-0456"),
						Lifecycle:    fsxtypes.FileSystemLifecycleDeleting,
						CreationTime: aws.Time(time.Date(2021, 1, 5, 0, 0, 0, 0, time.UTC)),
					},
				},
			}, nil
		},
	}

	records, err := NewFileSystemCollector(mock, "us-west-2").Collect(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)

	r := records[0]
	assert.Equal(t, resource.TypeFSx, r.ResourceType)
	assert.Equal(t, "fs-0123", r.ResourceID)
	assert.Equal(t, "us-west-2", r.Region)
	assert.Equal(t, "AVAILABLE", r.Status)
	assert.Equal(t, "Created: 2022-11-02", r.Details)
	assert.Equal(t, "DELETING", records[1].Status)
}

func TestFileSystemCollector_Error(t *testing.T) {
	mock := &mockFSxClient{
		DescribeFileSystemsFunc: func(_ context.Context, _ *fsx.DescribeFileSystemsInput, _ ...func(*fsx.Options)) (*fsx.DescribeFileSystemsOutput, error) {
			return nil, errors.New("fsx unavailable in region")
		},
	}

	_, err := NewFileSystemCollector(mock, "us-west-2").Collect(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "describe file systems")
}

func TestFileSystemCollector_MissingCreationTime(t *testing.T) {
	mock := &mockFSxClient{
		DescribeFileSystemsFunc: func(_ context.Context, _ *fsx.DescribeFileSystemsInput, _ ...func(*fsx.Options)) (*fsx.DescribeFileSystemsOutput, error) {
			return &fsx.DescribeFileSystemsOutput{
				FileSystems: []fsxtypes.FileSystem{
					{FileSystemId: aws.String("fs-ok"), Lifecycle: fsxtypes.FileSystemLifecycleAvailable, CreationTime: aws.Time(time.Now())},
					{FileSystemId: aws.String("fs-bad"), Lifecycle: fsxtypes.FileSystemLifecycleCreating},
				},
			}, nil
		},
	}

	records, err := NewFileSystemCollector(mock, "us-west-2").Collect(context.Background())

	require.Error(t, err)
	assert.Nil(t, records)
	assert.Contains(t, err.Error(), "fs-bad")
}
