package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/yairfalse/driftguard/internal/rules"
	"github.com/yairfalse/driftguard/pkg/types"
)

// collectS3Buckets snapshots every bucket with its versioning state.
func (c *Collector) collectS3Buckets(ctx context.Context) ([]types.ResourceSnapshot, error) {
	result, err := c.clients.S3.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list S3 buckets: %w", err)
	}

	var resources []types.ResourceSnapshot
	for _, bucket := range result.Buckets {
		name := aws.ToString(bucket.Name)
		if name == "" {
			continue
		}

		config := map[string]interface{}{}
		if versioning, err := c.clients.S3.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{
			Bucket: aws.String(name),
		}); err == nil {
			config["BucketVersioningConfiguration"] = map[string]interface{}{
				"Status": string(versioning.Status),
			}
		} else {
			// Buckets we cannot read versioning for are still snapshotted.
			c.log.WithField("bucket", name).Warn("could not read bucket versioning")
		}

		snap, err := newSnapshot(name, rules.TypeS3Bucket, "arn:aws:s3:::"+name, config)
		if err != nil {
			return nil, err
		}
		resources = append(resources, snap)
	}

	return resources, nil
}
