package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/idlescan/pkg/resource"
)

// mockEC2Client implements EC2API for testing.
type mockEC2Client struct {
	describeVolumesFunc   func(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error)
	describeAddressesFunc func(ctx context.Context, params *ec2.DescribeAddressesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error)
}

func (m *mockEC2Client) DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
	if m.describeVolumesFunc != nil {
		return m.describeVolumesFunc(ctx, params, optFns...)
	}
	return &ec2.DescribeVolumesOutput{}, nil
}

func (m *mockEC2Client) DescribeAddresses(ctx context.Context, params *ec2.DescribeAddressesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error) {
	if m.describeAddressesFunc != nil {
		return m.describeAddressesFunc(ctx, params, optFns...)
	}
	return &ec2.DescribeAddressesOutput{}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// EBS Volume Tests
// ══════════════════════════════════════════════════════════════════════════════

func TestVolumeCollector(t *testing.T) {
	var gotFilters []types.Filter
	mock := &mockEC2Client{
		describeVolumesFunc: func(_ context.Context, params *ec2.DescribeVolumesInput, _ ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
			gotFilters = params.Filters
			return &ec2.DescribeVolumesOutput{
				Volumes: []types.Volume{
					{VolumeId: aws.String("vol-1"), Size: aws.Int32(100), State: types.VolumeStateAvailable},
					{VolumeId: aws.String("vol-2"), Size: aws.Int32(8), State: types.VolumeStateAvailable},
					{VolumeId: aws.String("vol-3"), Size: aws.Int32(500), State: types.VolumeStateAvailable},
				},
			}, nil
		},
	}

	c := NewVolumeCollector(mock, "us-east-1")
	records, err := c.Collect(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, resource.TypeEBSVolume, r.ResourceType)
		assert.Equal(t, resource.StatusUnattached, r.Status)
		assert.Equal(t, "us-east-1", r.Region)
	}
	assert.Equal(t, "vol-1", records[0].ResourceID)
	assert.Equal(t, "Size: 100 GiB", records[0].Details)
	assert.Equal(t, "Size: 8 GiB", records[1].Details)

	require.Len(t, gotFilters, 1)
	assert.Equal(t, "status", aws.ToString(gotFilters[0].Name))
	assert.Equal(t, []string{"available"}, gotFilters[0].Values)
}

func TestVolumeCollector_Pagination(t *testing.T) {
	calls := 0
	mock := &mockEC2Client{
		describeVolumesFunc: func(_ context.Context, params *ec2.DescribeVolumesInput, _ ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
			calls++
			if params.NextToken == nil {
				return &ec2.DescribeVolumesOutput{
					Volumes:   []types.Volume{{VolumeId: aws.String("vol-1"), Size: aws.Int32(1)}},
					NextToken: aws.String("page2"),
				}, nil
			}
			return &ec2.DescribeVolumesOutput{
				Volumes: []types.Volume{{VolumeId: aws.String("vol-2"), Size: aws.Int32(2)}},
			}, nil
		},
	}

	records, err := NewVolumeCollector(mock, "us-east-1").Collect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, records, 2)
	assert.Equal(t, "vol-2", records[1].ResourceID)
}

func TestVolumeCollector_Error(t *testing.T) {
	mock := &mockEC2Client{
		describeVolumesFunc: func(_ context.Context, _ *ec2.DescribeVolumesInput, _ ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
			return nil, errors.New("access denied")
		},
	}

	_, err := NewVolumeCollector(mock, "us-east-1").Collect(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "describe volumes")
	assert.Contains(t, err.Error(), "access denied")
}

// ══════════════════════════════════════════════════════════════════════════════
// Elastic IP Tests
// ══════════════════════════════════════════════════════════════════════════════

func TestAddressCollector(t *testing.T) {
	mock := &mockEC2Client{
		describeAddressesFunc: func(_ context.Context, _ *ec2.DescribeAddressesInput, _ ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error) {
			return &ec2.DescribeAddressesOutput{
				Addresses: []types.Address{
					{PublicIp: aws.String("1.1.1.1"), InstanceId: aws.String("i-123"), AssociationId: aws.String("eipassoc-1")},
					{PublicIp: aws.String("2.2.2.2")},
					{PublicIp: aws.String("3.3.3.3"), AssociationId: aws.String("eipassoc-2")},
					{PublicIp: aws.String("4.4.4.4"), AllocationId: aws.String("eipalloc-4")},
					{PublicIp: aws.String("5.5.5.5"), InstanceId: aws.String("i-456")},
				},
			}, nil
		},
	}

	c := NewAddressCollector(mock, "eu-west-1")
	records, err := c.Collect(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2.2.2.2", records[0].ResourceID)
	assert.Equal(t, "4.4.4.4", records[1].ResourceID)
	for _, r := range records {
		assert.Equal(t, resource.TypeElasticIP, r.ResourceType)
		assert.Equal(t, resource.StatusUnassociated, r.Status)
		assert.Equal(t, "eu-west-1", r.Region)
		assert.Equal(t, "Elastic IP not in use", r.Details)
	}
}

func TestAddressCollector_AllAssociated(t *testing.T) {
	mock := &mockEC2Client{
		describeAddressesFunc: func(_ context.Context, _ *ec2.DescribeAddressesInput, _ ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error) {
			return &ec2.DescribeAddressesOutput{
				Addresses: []types.Address{{PublicIp: aws.String("1.1.1.1"), InstanceId: aws.String("i-1")}},
			}, nil
		},
	}

	records, err := NewAddressCollector(mock, "us-east-1").Collect(context.Background())

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAddressCollector_Error(t *testing.T) {
	mock := &mockEC2Client{
		describeAddressesFunc: func(_ context.Context, _ *ec2.DescribeAddressesInput, _ ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error) {
			return nil, errors.New("throttled")
		},
	}

	_, err := NewAddressCollector(mock, "us-east-1").Collect(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}
