package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	dgerrors "github.com/yairfalse/driftguard/internal/errors"
)

// S3API is the subset of the S3 client the scanner uses.
type S3API interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	GetBucketVersioning(ctx context.Context, params *s3.GetBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error)
	GetBucketLifecycleConfiguration(ctx context.Context, params *s3.GetBucketLifecycleConfigurationInput, optFns ...func(*s3.Options)) (*s3.GetBucketLifecycleConfigurationOutput, error)
}

// DynamoDBAPI is the subset of the DynamoDB client the scanner uses.
type DynamoDBAPI interface {
	ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// LambdaAPI is the subset of the Lambda client the scanner uses.
type LambdaAPI interface {
	ListFunctions(ctx context.Context, params *lambda.ListFunctionsInput, optFns ...func(*lambda.Options)) (*lambda.ListFunctionsOutput, error)
}

// EventBridgeAPI is the subset of the EventBridge client the scanner uses.
type EventBridgeAPI interface {
	ListRules(ctx context.Context, params *eventbridge.ListRulesInput, optFns ...func(*eventbridge.Options)) (*eventbridge.ListRulesOutput, error)
}

// SNSAPI is the subset of the SNS client the scanner uses.
type SNSAPI interface {
	ListTopics(ctx context.Context, params *sns.ListTopicsInput, optFns ...func(*sns.Options)) (*sns.ListTopicsOutput, error)
	GetTopicAttributes(ctx context.Context, params *sns.GetTopicAttributesInput, optFns ...func(*sns.Options)) (*sns.GetTopicAttributesOutput, error)
	ListSubscriptionsByTopic(ctx context.Context, params *sns.ListSubscriptionsByTopicInput, optFns ...func(*sns.Options)) (*sns.ListSubscriptionsByTopicOutput, error)
}

// Clients holds the AWS service clients used by the collector and the
// inspector.
type Clients struct {
	S3       S3API
	DynamoDB DynamoDBAPI
	Lambda   LambdaAPI
	Events   EventBridgeAPI
	SNS      SNSAPI
	STS      *sts.Client
	Config   aws.Config
}

// ClientConfig holds configuration for AWS client creation
type ClientConfig struct {
	Region     string
	Profile    string
	MaxRetries int
	Timeout    time.Duration
}

// NewClients creates and configures AWS service clients.
func NewClients(ctx context.Context, clientConfig ClientConfig) (*Clients, error) {
	if clientConfig.MaxRetries == 0 {
		clientConfig.MaxRetries = 3
	}
	if clientConfig.Timeout == 0 {
		clientConfig.Timeout = 30 * time.Second
	}

	var opts []func(*config.LoadOptions) error
	if clientConfig.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(clientConfig.Profile))
	}
	if clientConfig.Region != "" {
		opts = append(opts, config.WithRegion(clientConfig.Region))
	}
	opts = append(opts, config.WithRetryer(func() aws.Retryer {
		return retry.AddWithMaxAttempts(retry.NewStandard(), clientConfig.MaxRetries)
	}))

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	clients := &Clients{
		S3:       s3.NewFromConfig(cfg),
		DynamoDB: dynamodb.NewFromConfig(cfg),
		Lambda:   lambda.NewFromConfig(cfg),
		Events:   eventbridge.NewFromConfig(cfg),
		SNS:      sns.NewFromConfig(cfg),
		STS:      sts.NewFromConfig(cfg),
		Config:   cfg,
	}

	return clients, nil
}

// ValidateCredentials tests AWS credentials with an STS identity call,
// translating failures into the standard credentials guidance.
func (c *Clients) ValidateCredentials(ctx context.Context) error {
	result, err := c.STS.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return dgerrors.NewAWSAuthError(err.Error())
	}
	if result.Account == nil || result.Arn == nil {
		return dgerrors.NewAWSAuthError("received incomplete identity information from AWS")
	}
	return nil
}

// Region returns the configured region.
func (c *Clients) Region() string {
	return c.Config.Region
}
