package rules

import (
	"context"
	"fmt"

	"github.com/yairfalse/driftguard/pkg/types"
)

// Resource type identifiers matched against ResourceSnapshot.ResourceType.
const (
	TypeS3Bucket       = "AWS::S3::Bucket"
	TypeDynamoDBTable  = "AWS::DynamoDB::Table"
	TypeLambdaFunction = "AWS::Lambda::Function"
	TypeEventsRule     = "AWS::Events::Rule"
	TypeSNSTopic       = "AWS::SNS::Topic"
)

// Severity levels attached to findings.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// CheckFunc evaluates one rule against one resource. Returning an error
// (or panicking) yields an error-status finding for this pair only; the
// engine guarantees other pairs are unaffected.
type CheckFunc func(ctx context.Context, res types.ResourceSnapshot, inspector ResourceInspector) (types.Status, string, error)

// Rule is one independent compliance check, keyed by resource type.
type Rule struct {
	Name         string
	ResourceType string
	Severity     string
	Frameworks   []string
	Check        CheckFunc
}

// Thresholds carries the tunable limits used by the sizing checks.
type Thresholds struct {
	LambdaMinMemoryMB   float64
	LambdaMaxTimeoutSec float64
}

// DefaultThresholds returns the limits applied when no configuration
// overrides them.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LambdaMinMemoryMB:   256,
		LambdaMaxTimeoutSec: 300,
	}
}

// BuiltinRules returns the standard rule set evaluated on every scan.
func BuiltinRules(t Thresholds) []Rule {
	return []Rule{
		{
			Name:         "S3_VERSIONING_ENABLED",
			ResourceType: TypeS3Bucket,
			Severity:     SeverityHigh,
			Frameworks:   []string{"SOC2", "CIS-AWS"},
			Check:        checkS3Versioning,
		},
		{
			Name:         "S3_LIFECYCLE_POLICY",
			ResourceType: TypeS3Bucket,
			Severity:     SeverityLow,
			Frameworks:   []string{"FinOps"},
			Check:        checkS3Lifecycle,
		},
		{
			Name:         "DYNAMODB_ON_DEMAND_BILLING",
			ResourceType: TypeDynamoDBTable,
			Severity:     SeverityMedium,
			Frameworks:   []string{"FinOps"},
			Check:        checkDynamoDBBilling,
		},
		{
			Name:         "LAMBDA_RESOURCE_SIZING",
			ResourceType: TypeLambdaFunction,
			Severity:     SeverityMedium,
			Frameworks:   []string{"FinOps"},
			Check:        checkLambdaSizing(t),
		},
		{
			Name:         "EVENTBRIDGE_SCHEDULE_ENABLED",
			ResourceType: TypeEventsRule,
			Severity:     SeverityMedium,
			Frameworks:   []string{"SOC2"},
			Check:        checkEventBridgeSchedule,
		},
		{
			Name:         "SNS_EMAIL_SUBSCRIPTIONS",
			ResourceType: TypeSNSTopic,
			Severity:     SeverityLow,
			Frameworks:   []string{"SOC2"},
			Check:        checkSNSSubscriptions,
		},
	}
}

func checkS3Versioning(_ context.Context, res types.ResourceSnapshot, _ ResourceInspector) (types.Status, string, error) {
	status := res.Configuration.StringAt("BucketVersioningConfiguration.Status")
	if status == "Enabled" {
		return types.StatusPass, "bucket versioning is enabled", nil
	}
	if status == "" {
		return types.StatusFail, "bucket has no versioning configuration", nil
	}
	return types.StatusFail, fmt.Sprintf("bucket versioning is %s", status), nil
}

func checkS3Lifecycle(ctx context.Context, res types.ResourceSnapshot, inspector ResourceInspector) (types.Status, string, error) {
	lifecycleRules, err := inspector.BucketLifecycle(ctx, res.ResourceID)
	if err != nil {
		return "", "", fmt.Errorf("lifecycle lookup for bucket %s: %w", res.ResourceID, err)
	}

	for _, rule := range lifecycleRules {
		if rule.Enabled() {
			return types.StatusPass, fmt.Sprintf("lifecycle rule %q is enabled", rule.ID), nil
		}
	}
	if len(lifecycleRules) > 0 {
		return types.StatusFail, fmt.Sprintf("%d lifecycle rules exist but none is enabled", len(lifecycleRules)), nil
	}
	return types.StatusFail, "bucket has no lifecycle policy", nil
}

func checkDynamoDBBilling(_ context.Context, res types.ResourceSnapshot, _ ResourceInspector) (types.Status, string, error) {
	mode := res.Configuration.StringAt("BillingModeSummary.BillingMode")
	if mode == "PAY_PER_REQUEST" {
		return types.StatusPass, "table uses on-demand billing", nil
	}
	if mode == "" {
		mode = "PROVISIONED"
	}
	return types.StatusFail, fmt.Sprintf("table billing mode is %s", mode), nil
}

func checkLambdaSizing(t Thresholds) CheckFunc {
	return func(_ context.Context, res types.ResourceSnapshot, _ ResourceInspector) (types.Status, string, error) {
		memory, hasMemory := res.Configuration.NumberAt("MemorySize")
		timeout, hasTimeout := res.Configuration.NumberAt("Timeout")
		if !hasMemory || !hasTimeout {
			return types.StatusFail, "function is missing MemorySize or Timeout configuration", nil
		}
		if memory < t.LambdaMinMemoryMB {
			return types.StatusFail, fmt.Sprintf("memory %dMB is below the %dMB minimum", int(memory), int(t.LambdaMinMemoryMB)), nil
		}
		if timeout > t.LambdaMaxTimeoutSec {
			return types.StatusFail, fmt.Sprintf("timeout %ds exceeds the %ds maximum", int(timeout), int(t.LambdaMaxTimeoutSec)), nil
		}
		return types.StatusPass, fmt.Sprintf("memory %dMB and timeout %ds are within limits", int(memory), int(timeout)), nil
	}
}

func checkEventBridgeSchedule(_ context.Context, res types.ResourceSnapshot, _ ResourceInspector) (types.Status, string, error) {
	state := res.Configuration.StringAt("State")
	schedule := res.Configuration.StringAt("ScheduleExpression")

	if state != "ENABLED" {
		return types.StatusFail, fmt.Sprintf("rule state is %s", orUnset(state)), nil
	}
	if schedule == "" {
		return types.StatusFail, "rule has no schedule expression", nil
	}
	return types.StatusPass, fmt.Sprintf("rule is enabled with schedule %q", schedule), nil
}

func checkSNSSubscriptions(ctx context.Context, res types.ResourceSnapshot, inspector ResourceInspector) (types.Status, string, error) {
	topicARN := res.ARN
	if topicARN == "" {
		topicARN = res.ResourceID
	}

	subscriptions, err := inspector.TopicSubscriptions(ctx, topicARN)
	if err != nil {
		return "", "", fmt.Errorf("subscription lookup for topic %s: %w", topicARN, err)
	}

	if len(subscriptions) == 0 {
		return types.StatusFail, "topic has no subscriptions", nil
	}
	for _, sub := range subscriptions {
		if sub.Protocol == "email" {
			return types.StatusPass, fmt.Sprintf("topic has an email subscription (%s)", sub.Endpoint), nil
		}
	}
	return types.StatusWarning, fmt.Sprintf("topic has %d subscriptions but none uses the email protocol", len(subscriptions)), nil
}

func orUnset(s string) string {
	if s == "" {
		return "unset"
	}
	return s
}
