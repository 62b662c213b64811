package aws

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/yairfalse/driftguard/internal/rules"
	"github.com/yairfalse/driftguard/pkg/types"
)

// collectSNSTopics snapshots every topic. Subscription details are not
// inlined here; the subscription check reads them through the inspector.
func (c *Collector) collectSNSTopics(ctx context.Context) ([]types.ResourceSnapshot, error) {
	var resources []types.ResourceSnapshot
	var nextToken *string

	for {
		result, err := c.clients.SNS.ListTopics(ctx, &sns.ListTopicsInput{
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list SNS topics: %w", err)
		}

		for _, topic := range result.Topics {
			arn := aws.ToString(topic.TopicArn)
			if arn == "" {
				continue
			}
			name := topicNameFromARN(arn)

			config := map[string]interface{}{
				"TopicArn": arn,
			}
			if attrs, err := c.clients.SNS.GetTopicAttributes(ctx, &sns.GetTopicAttributesInput{
				TopicArn: aws.String(arn),
			}); err == nil {
				if display := attrs.Attributes["DisplayName"]; display != "" {
					config["DisplayName"] = display
				}
			}

			snap, err := newSnapshot(name, rules.TypeSNSTopic, arn, config)
			if err != nil {
				return nil, err
			}
			resources = append(resources, snap)
		}

		nextToken = result.NextToken
		if nextToken == nil {
			break
		}
	}

	return resources, nil
}

// topicNameFromARN extracts the topic name from an SNS topic ARN,
// e.g. arn:aws:sns:us-east-1:123456789012:alerts -> alerts.
func topicNameFromARN(arn string) string {
	parts := strings.Split(arn, ":")
	return parts[len(parts)-1]
}
