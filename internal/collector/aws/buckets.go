package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"

	"github.com/yairfalse/idlescan/pkg/resource"
)

// defaultBucketRegion is implied by an empty location constraint.
const defaultBucketRegion = "us-east-1"

// BucketCollector reports every bucket as Active (with idle days) or Empty.
// A failure on one bucket becomes an Error record for that bucket only.
type BucketCollector struct {
	client   S3API
	regional RegionalS3
	region   string
	now      func() time.Time
}

// NewBucketCollector creates an S3 bucket collector. regional may be nil, in
// which case client is used for every bucket.
func NewBucketCollector(client S3API, regional RegionalS3, region string) *BucketCollector {
	if regional == nil {
		regional = func(string) S3API { return client }
	}
	return &BucketCollector{
		client:   client,
		regional: regional,
		region:   region,
		now:      time.Now,
	}
}

func (c *BucketCollector) Name() string         { return "s3" }
func (c *BucketCollector) ResourceType() string { return resource.TypeS3Bucket }
func (c *BucketCollector) Region() string       { return c.region }

// Collect lists buckets and inspects each one.
func (c *BucketCollector) Collect(ctx context.Context) ([]resource.Record, error) {
	output, err := c.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}

	records := make([]resource.Record, 0, len(output.Buckets))
	for _, bucket := range output.Buckets {
		name := aws.ToString(bucket.Name)

		r, err := c.inspectBucket(ctx, name)
		if err != nil {
			log.Debug().Err(err).Str("bucket", name).Msg("bucket inspection failed")
			r = resource.ErrorRecord(resource.TypeS3Bucket, name, resource.UnknownRegion, err)
		}
		records = append(records, r)
	}

	return records, nil
}

func (c *BucketCollector) inspectBucket(ctx context.Context, name string) (resource.Record, error) {
	loc, err := c.client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{Bucket: aws.String(name)})
	if err != nil {
		return resource.Record{}, fmt.Errorf("get bucket location: %w", err)
	}
	region := bucketRegion(loc.LocationConstraint)

	// First page only.
	objects, err := c.regional(region).ListObjectsV2(ctx, &s3.ListObjectsV2Input{Bucket: aws.String(name)})
	if err != nil {
		return resource.Record{}, fmt.Errorf("list objects: %w", err)
	}

	r := resource.Record{
		ResourceType: resource.TypeS3Bucket,
		ResourceID:   name,
		Region:       region,
	}

	if len(objects.Contents) == 0 {
		r.Status = resource.StatusEmpty
		r.Details = "No objects in bucket"
		return r, nil
	}

	latest, err := lastModified(objects.Contents)
	if err != nil {
		return resource.Record{}, err
	}

	r.Status = resource.StatusActive
	r.Details = fmt.Sprintf("Last Modified: %s, Unused for %d days",
		latest.UTC().Format(dateLayout), idleDays(c.now().UTC(), latest))
	return r, nil
}

// bucketRegion maps a location constraint to a region name.
func bucketRegion(constraint s3types.BucketLocationConstraint) string {
	switch constraint {
	case "":
		return defaultBucketRegion
	case s3types.BucketLocationConstraintEu:
		return "eu-west-1"
	default:
		return string(constraint)
	}
}

// lastModified returns the newest modification time across objects.
func lastModified(objects []s3types.Object) (time.Time, error) {
	var latest time.Time
	for _, obj := range objects {
		if obj.LastModified == nil {
			return time.Time{}, fmt.Errorf("object %q has no last-modified time", aws.ToString(obj.Key))
		}
		if obj.LastModified.After(latest) {
			latest = *obj.LastModified
		}
	}
	return latest, nil
}

// idleDays returns the whole days elapsed between then and now.
func idleDays(now, then time.Time) int {
	return int(now.Sub(then) / (24 * time.Hour))
}
