package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/yairfalse/idlescan/pkg/resource"
)

// AddressCollector reports Elastic IPs that are not associated with anything.
type AddressCollector struct {
	client EC2API
	region string
}

// NewAddressCollector creates an Elastic IP collector.
func NewAddressCollector(client EC2API, region string) *AddressCollector {
	return &AddressCollector{client: client, region: region}
}

func (c *AddressCollector) Name() string         { return "eip" }
func (c *AddressCollector) ResourceType() string { return resource.TypeElasticIP }
func (c *AddressCollector) Region() string       { return c.region }

// Collect lists unassociated addresses (no pagination in this API).
func (c *AddressCollector) Collect(ctx context.Context) ([]resource.Record, error) {
	output, err := c.client.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{})
	if err != nil {
		return nil, fmt.Errorf("describe addresses: %w", err)
	}

	var records []resource.Record
	for _, addr := range output.Addresses {
		if isAssociated(addr) {
			continue
		}
		records = append(records, resource.Record{
			ResourceType: resource.TypeElasticIP,
			ResourceID:   aws.ToString(addr.PublicIp),
			Region:       c.region,
			Status:       resource.StatusUnassociated,
			Details:      "Elastic IP not in use",
		})
	}

	return records, nil
}

// isAssociated reports whether the address is attached to an instance or
// network interface.
func isAssociated(addr ec2types.Address) bool {
	return addr.InstanceId != nil || addr.AssociationId != nil
}
