package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/driftguard/internal/logger"
	"github.com/yairfalse/driftguard/internal/rules"
)

func emptyMocks() *Clients {
	s3Mock := &MockS3Client{}
	s3Mock.On("ListBuckets", mock.Anything, mock.Anything).Return(&s3.ListBucketsOutput{}, nil).Maybe()
	ddbMock := &MockDynamoDBClient{}
	ddbMock.On("ListTables", mock.Anything, mock.Anything).Return(&dynamodb.ListTablesOutput{}, nil).Maybe()
	lambdaMock := &MockLambdaClient{}
	lambdaMock.On("ListFunctions", mock.Anything, mock.Anything).Return(&lambda.ListFunctionsOutput{}, nil).Maybe()
	eventsMock := &MockEventBridgeClient{}
	eventsMock.On("ListRules", mock.Anything, mock.Anything).Return(&eventbridge.ListRulesOutput{}, nil).Maybe()
	snsMock := &MockSNSClient{}
	snsMock.On("ListTopics", mock.Anything, mock.Anything).Return(&sns.ListTopicsOutput{}, nil).Maybe()

	return &Clients{
		S3:       s3Mock,
		DynamoDB: ddbMock,
		Lambda:   lambdaMock,
		Events:   eventsMock,
		SNS:      snsMock,
	}
}

func TestCollectS3Buckets(t *testing.T) {
	ctx := context.Background()
	clients := emptyMocks()

	s3Mock := &MockS3Client{}
	s3Mock.On("ListBuckets", mock.Anything, mock.Anything).Return(&s3.ListBucketsOutput{
		Buckets: []s3types.Bucket{
			{Name: aws.String("prod-data")},
			{Name: aws.String("logs")},
		},
	}, nil)
	s3Mock.On("GetBucketVersioning", mock.Anything, mock.MatchedBy(func(input *s3.GetBucketVersioningInput) bool {
		return aws.ToString(input.Bucket) == "prod-data"
	})).Return(&s3.GetBucketVersioningOutput{Status: s3types.BucketVersioningStatusEnabled}, nil)
	s3Mock.On("GetBucketVersioning", mock.Anything, mock.MatchedBy(func(input *s3.GetBucketVersioningInput) bool {
		return aws.ToString(input.Bucket) == "logs"
	})).Return(nil, errors.New("access denied"))
	clients.S3 = s3Mock

	collector := NewCollector(clients, logger.NewSimple())
	snapshots, err := collector.Collect(ctx)

	require.NoError(t, err)

	prod, ok := snapshots["prod-data"]
	require.True(t, ok)
	assert.Equal(t, rules.TypeS3Bucket, prod.ResourceType)
	assert.Equal(t, "arn:aws:s3:::prod-data", prod.ARN)
	assert.Equal(t, "Enabled", prod.Configuration.StringAt("BucketVersioningConfiguration.Status"))
	assert.False(t, prod.CapturedAt.IsZero())

	// Versioning read failure keeps the bucket, without the versioning block.
	logsBucket, ok := snapshots["logs"]
	require.True(t, ok)
	_, found := logsBucket.Configuration.Lookup("BucketVersioningConfiguration")
	assert.False(t, found)
}

func TestCollectDynamoDBTables(t *testing.T) {
	ctx := context.Background()
	clients := emptyMocks()

	ddbMock := &MockDynamoDBClient{}
	ddbMock.On("ListTables", mock.Anything, mock.MatchedBy(func(input *dynamodb.ListTablesInput) bool {
		return input.ExclusiveStartTableName == nil
	})).Return(&dynamodb.ListTablesOutput{
		TableNames:             []string{"orders"},
		LastEvaluatedTableName: aws.String("orders"),
	}, nil).Once()
	ddbMock.On("ListTables", mock.Anything, mock.MatchedBy(func(input *dynamodb.ListTablesInput) bool {
		return aws.ToString(input.ExclusiveStartTableName) == "orders"
	})).Return(&dynamodb.ListTablesOutput{
		TableNames: []string{"sessions"},
	}, nil).Once()
	ddbMock.On("DescribeTable", mock.Anything, mock.MatchedBy(func(input *dynamodb.DescribeTableInput) bool {
		return aws.ToString(input.TableName) == "orders"
	})).Return(&dynamodb.DescribeTableOutput{
		Table: &ddbtypes.TableDescription{
			TableArn:    aws.String("arn:aws:dynamodb:us-east-1:123456789012:table/orders"),
			TableStatus: ddbtypes.TableStatusActive,
			BillingModeSummary: &ddbtypes.BillingModeSummary{
				BillingMode: ddbtypes.BillingModePayPerRequest,
			},
		},
	}, nil)
	ddbMock.On("DescribeTable", mock.Anything, mock.MatchedBy(func(input *dynamodb.DescribeTableInput) bool {
		return aws.ToString(input.TableName) == "sessions"
	})).Return(nil, errors.New("throttled"))
	clients.DynamoDB = ddbMock

	collector := NewCollector(clients, logger.NewSimple())
	snapshots, err := collector.Collect(ctx)

	require.NoError(t, err)

	orders, ok := snapshots["orders"]
	require.True(t, ok)
	assert.Equal(t, rules.TypeDynamoDBTable, orders.ResourceType)
	assert.Equal(t, "PAY_PER_REQUEST", orders.Configuration.StringAt("BillingModeSummary.BillingMode"))

	// Describe failures skip the table rather than aborting the service.
	_, ok = snapshots["sessions"]
	assert.False(t, ok)
	ddbMock.AssertExpectations(t)
}

func TestCollectLambdaAndEvents(t *testing.T) {
	ctx := context.Background()
	clients := emptyMocks()

	lambdaMock := &MockLambdaClient{}
	lambdaMock.On("ListFunctions", mock.Anything, mock.Anything).Return(&lambda.ListFunctionsOutput{
		Functions: []lambdatypes.FunctionConfiguration{
			{
				FunctionName: aws.String("ingest"),
				FunctionArn:  aws.String("arn:aws:lambda:us-east-1:123456789012:function:ingest"),
				Runtime:      lambdatypes.RuntimeGo1x,
				MemorySize:   aws.Int32(512),
				Timeout:      aws.Int32(60),
			},
		},
	}, nil)
	clients.Lambda = lambdaMock

	eventsMock := &MockEventBridgeClient{}
	eventsMock.On("ListRules", mock.Anything, mock.Anything).Return(&eventbridge.ListRulesOutput{
		Rules: []ebtypes.Rule{
			{
				Name:               aws.String("nightly-report"),
				Arn:                aws.String("arn:aws:events:us-east-1:123456789012:rule/nightly-report"),
				State:              ebtypes.RuleStateEnabled,
				ScheduleExpression: aws.String("rate(1 day)"),
			},
		},
	}, nil)
	clients.Events = eventsMock

	collector := NewCollector(clients, logger.NewSimple())
	snapshots, err := collector.Collect(ctx)

	require.NoError(t, err)

	fn, ok := snapshots["ingest"]
	require.True(t, ok)
	assert.Equal(t, rules.TypeLambdaFunction, fn.ResourceType)
	memory, ok := fn.Configuration.NumberAt("MemorySize")
	require.True(t, ok)
	assert.Equal(t, 512.0, memory)

	rule, ok := snapshots["nightly-report"]
	require.True(t, ok)
	assert.Equal(t, rules.TypeEventsRule, rule.ResourceType)
	assert.Equal(t, "ENABLED", rule.Configuration.StringAt("State"))
	assert.Equal(t, "rate(1 day)", rule.Configuration.StringAt("ScheduleExpression"))
}

func TestCollectSNSTopics(t *testing.T) {
	ctx := context.Background()
	clients := emptyMocks()

	snsMock := &MockSNSClient{}
	snsMock.On("ListTopics", mock.Anything, mock.Anything).Return(&sns.ListTopicsOutput{
		Topics: []snstypes.Topic{
			{TopicArn: aws.String("arn:aws:sns:us-east-1:123456789012:alerts")},
		},
	}, nil)
	snsMock.On("GetTopicAttributes", mock.Anything, mock.Anything).Return(&sns.GetTopicAttributesOutput{
		Attributes: map[string]string{"DisplayName": "Alerts"},
	}, nil)
	clients.SNS = snsMock

	collector := NewCollector(clients, logger.NewSimple())
	snapshots, err := collector.Collect(ctx)

	require.NoError(t, err)

	topic, ok := snapshots["alerts"]
	require.True(t, ok)
	assert.Equal(t, rules.TypeSNSTopic, topic.ResourceType)
	assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:alerts", topic.ARN)
	assert.Equal(t, "Alerts", topic.Configuration.StringAt("DisplayName"))
}

func TestCollectPartialFailure(t *testing.T) {
	ctx := context.Background()
	clients := emptyMocks()

	s3Mock := &MockS3Client{}
	s3Mock.On("ListBuckets", mock.Anything, mock.Anything).Return(nil, errors.New("endpoint unreachable"))
	clients.S3 = s3Mock

	snsMock := &MockSNSClient{}
	snsMock.On("ListTopics", mock.Anything, mock.Anything).Return(&sns.ListTopicsOutput{
		Topics: []snstypes.Topic{
			{TopicArn: aws.String("arn:aws:sns:us-east-1:123456789012:alerts")},
		},
	}, nil)
	snsMock.On("GetTopicAttributes", mock.Anything, mock.Anything).Return(&sns.GetTopicAttributesOutput{}, nil)
	clients.SNS = snsMock

	collector := NewCollector(clients, logger.NewSimple())
	snapshots, err := collector.Collect(ctx)

	// The failing service surfaces in the error, the rest still collect.
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3 buckets")
	_, ok := snapshots["alerts"]
	assert.True(t, ok)
}
