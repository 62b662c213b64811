package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"

	"github.com/yairfalse/driftguard/internal/rules"
	"github.com/yairfalse/driftguard/pkg/types"
)

// collectEventRules snapshots every EventBridge rule with its state and
// schedule expression.
func (c *Collector) collectEventRules(ctx context.Context) ([]types.ResourceSnapshot, error) {
	var resources []types.ResourceSnapshot
	var nextToken *string

	for {
		result, err := c.clients.Events.ListRules(ctx, &eventbridge.ListRulesInput{
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list EventBridge rules: %w", err)
		}

		for _, rule := range result.Rules {
			name := aws.ToString(rule.Name)
			if name == "" {
				continue
			}

			config := map[string]interface{}{
				"State": string(rule.State),
			}
			if rule.ScheduleExpression != nil {
				config["ScheduleExpression"] = *rule.ScheduleExpression
			}

			snap, err := newSnapshot(name, rules.TypeEventsRule, aws.ToString(rule.Arn), config)
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
