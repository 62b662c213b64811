package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/yairfalse/driftguard/internal/rules"
	"github.com/yairfalse/driftguard/pkg/types"
)

// collectDynamoDBTables snapshots every table with its billing mode.
func (c *Collector) collectDynamoDBTables(ctx context.Context) ([]types.ResourceSnapshot, error) {
	var resources []types.ResourceSnapshot
	var exclusiveStartTableName *string

	for {
		result, err := c.clients.DynamoDB.ListTables(ctx, &dynamodb.ListTablesInput{
			ExclusiveStartTableName: exclusiveStartTableName,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list DynamoDB tables: %w", err)
		}

		for _, tableName := range result.TableNames {
			desc, err := c.clients.DynamoDB.DescribeTable(ctx, &dynamodb.DescribeTableInput{
				TableName: aws.String(tableName),
			})
			if err != nil {
				c.log.WithField("table", tableName).Warn("could not describe table")
				continue
			}
			table := desc.Table
			if table == nil {
				continue
			}

			config := map[string]interface{}{
				"TableStatus": string(table.TableStatus),
			}
			if table.BillingModeSummary != nil {
				config["BillingModeSummary"] = map[string]interface{}{
					"BillingMode": string(table.BillingModeSummary.BillingMode),
				}
			}
			if table.ItemCount != nil {
				config["ItemCount"] = float64(*table.ItemCount)
			}

			snap, err := newSnapshot(tableName, rules.TypeDynamoDBTable, aws.ToString(table.TableArn), config)
			if err != nil {
				return nil, err
			}
			resources = append(resources, snap)
		}

		exclusiveStartTableName = result.LastEvaluatedTableName
		if exclusiveStartTableName == nil {
			break
		}
	}

	return resources, nil
}
