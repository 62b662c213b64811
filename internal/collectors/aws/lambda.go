package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"github.com/yairfalse/driftguard/internal/rules"
	"github.com/yairfalse/driftguard/pkg/types"
)

// collectLambdaFunctions snapshots every function with its sizing settings.
func (c *Collector) collectLambdaFunctions(ctx context.Context) ([]types.ResourceSnapshot, error) {
	var resources []types.ResourceSnapshot
	var marker *string

	for {
		result, err := c.clients.Lambda.ListFunctions(ctx, &lambda.ListFunctionsInput{
			Marker: marker,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list Lambda functions: %w", err)
		}

		for _, fn := range result.Functions {
			name := aws.ToString(fn.FunctionName)
			if name == "" {
				continue
			}

			config := map[string]interface{}{
				"Runtime": string(fn.Runtime),
			}
			if fn.MemorySize != nil {
				config["MemorySize"] = float64(*fn.MemorySize)
			}
			if fn.Timeout != nil {
				config["Timeout"] = float64(*fn.Timeout)
			}

			snap, err := newSnapshot(name, rules.TypeLambdaFunction, aws.ToString(fn.FunctionArn), config)
			if err != nil {
				return nil, err
			}
			resources = append(resources, snap)
		}

		marker = result.NextMarker
		if marker == nil {
			break
		}
	}

	return resources, nil
}
