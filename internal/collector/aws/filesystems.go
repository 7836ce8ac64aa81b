package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/fsx"
	fsxtypes "github.com/aws/aws-sdk-go-v2/service/fsx/types"

	"github.com/yairfalse/idlescan/pkg/resource"
)

// FileSystemCollector inventories FSx file systems. Like the cluster
// collector it fails as a whole.
type FileSystemCollector struct {
	client FSxAPI
	region string
}

// NewFileSystemCollector creates an FSx collector.
func NewFileSystemCollector(client FSxAPI, region string) *FileSystemCollector {
	return &FileSystemCollector{client: client, region: region}
}

func (c *FileSystemCollector) Name() string         { return "fsx" }
func (c *FileSystemCollector) ResourceType() string { return resource.TypeFSx }
func (c *FileSystemCollector) Region() string       { return c.region }

// Collect lists file systems.
func (c *FileSystemCollector) Collect(ctx context.Context) ([]resource.Record, error) {
	var records []resource.Record
	var nextToken *string

	for {
		output, err := c.client.DescribeFileSystems(ctx, &fsx.DescribeFileSystemsInput{NextToken: nextToken})
		if err != nil {
			return nil, fmt.Errorf("describe file systems: %w", err)
		}

		for _, fs := range output.FileSystems {
			r, err := c.convertFileSystem(fs)
			if err != nil {
				return nil, err
			}
			records = append(records, r)
		}

		if output.NextToken == nil {
			break
		}
		nextToken = output.NextToken
	}

	return records, nil
}

func (c *FileSystemCollector) convertFileSystem(fs fsxtypes.FileSystem) (resource.Record, error) {
	id := aws.ToString(fs.FileSystemId)
	if fs.CreationTime == nil {
		return resource.Record{}, fmt.Errorf("file system %s: missing creation time", id)
	}
	return resource.Record{
		ResourceType: resource.TypeFSx,
		ResourceID:   id,
		Region:       c.region,
		Status:       string(fs.Lifecycle),
		Details:      "Created: " + fs.CreationTime.UTC().Format(dateLayout),
	}, nil
}
