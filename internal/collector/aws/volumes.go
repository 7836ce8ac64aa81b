package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/yairfalse/idlescan/pkg/resource"
)

// VolumeCollector reports EBS volumes in the "available" state, i.e. not
// attached to any instance.
type VolumeCollector struct {
	client EC2API
	region string
}

// NewVolumeCollector creates an EBS volume collector.
func NewVolumeCollector(client EC2API, region string) *VolumeCollector {
	return &VolumeCollector{client: client, region: region}
}

func (c *VolumeCollector) Name() string         { return "ebs" }
func (c *VolumeCollector) ResourceType() string { return resource.TypeEBSVolume }
func (c *VolumeCollector) Region() string       { return c.region }

// Collect lists unattached volumes.
func (c *VolumeCollector) Collect(ctx context.Context) ([]resource.Record, error) {
	var records []resource.Record
	var nextToken *string

	for {
		output, err := c.client.DescribeVolumes(ctx, &ec2.DescribeVolumesInput{
			Filters: []ec2types.Filter{
				{Name: aws.String("status"), Values: []string{string(ec2types.VolumeStateAvailable)}},
			},
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("describe volumes: %w", err)
		}

		for _, vol := range output.Volumes {
			records = append(records, c.convertVolume(vol))
		}

		if output.NextToken == nil {
			break
		}
		nextToken = output.NextToken
	}

	return records, nil
}

func (c *VolumeCollector) convertVolume(vol ec2types.Volume) resource.Record {
	return resource.Record{
		ResourceType: resource.TypeEBSVolume,
		ResourceID:   aws.ToString(vol.VolumeId),
		Region:       c.region,
		Status:       resource.StatusUnattached,
		Details:      fmt.Sprintf("Size: %d GiB", aws.ToInt32(vol.Size)),
	}
}
