package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	ekstypes "github.com/aws/aws-sdk-go-v2/service/eks/types"

	"github.com/yairfalse/idlescan/pkg/resource"
)

// ClusterCollector inventories EKS clusters. The first failing call aborts
// the whole collector.
type ClusterCollector struct {
	client EKSAPI
	region string
}

// NewClusterCollector creates an EKS cluster collector.
func NewClusterCollector(client EKSAPI, region string) *ClusterCollector {
	return &ClusterCollector{client: client, region: region}
}

func (c *ClusterCollector) Name() string         { return "eks" }
func (c *ClusterCollector) ResourceType() string { return resource.TypeEKSCluster }
func (c *ClusterCollector) Region() string       { return c.region }

// Collect lists cluster names and describes each one.
func (c *ClusterCollector) Collect(ctx context.Context) ([]resource.Record, error) {
	var records []resource.Record
	var nextToken *string

	for {
		listOutput, err := c.client.ListClusters(ctx, &eks.ListClustersInput{NextToken: nextToken})
		if err != nil {
			return nil, fmt.Errorf("list clusters: %w", err)
		}

		for _, name := range listOutput.Clusters {
			descOutput, err := c.client.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: aws.String(name)})
			if err != nil {
				return nil, fmt.Errorf("describe cluster %s: %w", name, err)
			}
			r, err := c.convertCluster(name, descOutput.Cluster)
			if err != nil {
				return nil, err
			}
			records = append(records, r)
		}

		if listOutput.NextToken == nil {
			break
		}
		nextToken = listOutput.NextToken
	}

	return records, nil
}

func (c *ClusterCollector) convertCluster(name string, cluster *ekstypes.Cluster) (resource.Record, error) {
	if cluster == nil {
		return resource.Record{}, fmt.Errorf("describe cluster %s: empty response", name)
	}
	if cluster.CreatedAt == nil {
		return resource.Record{}, fmt.Errorf("cluster %s: missing creation time", name)
	}
	return resource.Record{
		ResourceType: resource.TypeEKSCluster,
		ResourceID:   name,
		Region:       c.region,
		Status:       string(cluster.Status),
		Details:      "Created at " + cluster.CreatedAt.UTC().Format(dateLayout),
	}, nil
}
