package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/smithy-go"

	awsclients "github.com/yairfalse/driftguard/internal/collectors/aws"
	"github.com/yairfalse/driftguard/internal/rules"
)

// Inspector answers the targeted configuration lookups that checks need
// beyond the collected snapshots: S3 lifecycle configurations and SNS
// topic subscriptions.
type Inspector struct {
	s3Client  awsclients.S3API
	snsClient awsclients.SNSAPI
}

// NewInspector creates an inspector over the given service clients.
func NewInspector(s3Client awsclients.S3API, snsClient awsclients.SNSAPI) *Inspector {
	return &Inspector{
		s3Client:  s3Client,
		snsClient: snsClient,
	}
}

var _ rules.ResourceInspector = (*Inspector)(nil)

// BucketLifecycle returns the lifecycle rules of a bucket. A bucket with
// no lifecycle configuration at all yields an empty result, not an error.
func (i *Inspector) BucketLifecycle(ctx context.Context, bucketName string) ([]rules.LifecycleRule, error) {
	result, err := i.s3Client.GetBucketLifecycleConfiguration(ctx, &s3.GetBucketLifecycleConfigurationInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchLifecycleConfiguration" {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get lifecycle configuration for bucket %s: %w", bucketName, err)
	}

	lifecycleRules := make([]rules.LifecycleRule, 0, len(result.Rules))
	for _, rule := range result.Rules {
		lifecycleRules = append(lifecycleRules, rules.LifecycleRule{
			ID:     aws.ToString(rule.ID),
			Status: string(rule.Status),
		})
	}
	return lifecycleRules, nil
}

// TopicSubscriptions returns all subscriptions of a topic, following
// pagination.
func (i *Inspector) TopicSubscriptions(ctx context.Context, topicARN string) ([]rules.TopicSubscription, error) {
	var subscriptions []rules.TopicSubscription
	var nextToken *string

	for {
		result, err := i.snsClient.ListSubscriptionsByTopic(ctx, &sns.ListSubscriptionsByTopicInput{
			TopicArn:  aws.String(topicARN),
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list subscriptions for topic %s: %w", topicARN, err)
		}

		for _, sub := range result.Subscriptions {
			subscriptions = append(subscriptions, rules.TopicSubscription{
				Protocol: aws.ToString(sub.Protocol),
				Endpoint: aws.ToString(sub.Endpoint),
			})
		}

		nextToken = result.NextToken
		if nextToken == nil {
			break
		}
	}

	return subscriptions, nil
}
