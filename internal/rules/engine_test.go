package rules

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/driftguard/pkg/types"
)

// fakeInspector returns canned answers or errors per resource.
type fakeInspector struct {
	lifecycles    map[string][]LifecycleRule
	subscriptions map[string][]TopicSubscription
	lifecycleErr  error
	subscribeErr  error
	delay         time.Duration
}

func (f *fakeInspector) BucketLifecycle(ctx context.Context, bucketName string) ([]LifecycleRule, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.lifecycleErr != nil {
		return nil, f.lifecycleErr
	}
	return f.lifecycles[bucketName], nil
}

func (f *fakeInspector) TopicSubscriptions(ctx context.Context, topicARN string) ([]TopicSubscription, error) {
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	return f.subscriptions[topicARN], nil
}

func snapshot(id, resourceType string, config interface{}) types.ResourceSnapshot {
	return types.ResourceSnapshot{
		ResourceID:    id,
		ResourceType:  resourceType,
		Configuration: types.MustFromAny(config),
	}
}

func TestEngine_DynamoDBOnDemandBilling(t *testing.T) {
	current := map[string]types.ResourceSnapshot{
		"t1": snapshot("t1", TypeDynamoDBTable, map[string]interface{}{
			"BillingModeSummary": map[string]interface{}{"BillingMode": "PAY_PER_REQUEST"},
		}),
	}

	engine := NewEngine()
	findings := engine.Evaluate(context.Background(), current, &fakeInspector{})

	require.Len(t, findings, 1)
	assert.Equal(t, "DYNAMODB_ON_DEMAND_BILLING", findings[0].CheckName)
	assert.Equal(t, types.StatusPass, findings[0].Status)
	assert.Equal(t, "t1", findings[0].ResourceID)
}

func TestEngine_InspectorErrorIsIsolated(t *testing.T) {
	// b1 has two S3 rules: versioning (config only) and lifecycle (inspector).
	// The lifecycle lookup fails; versioning must still be evaluated.
	current := map[string]types.ResourceSnapshot{
		"b1": snapshot("b1", TypeS3Bucket, map[string]interface{}{}),
	}
	inspector := &fakeInspector{lifecycleErr: errors.New("access denied for lifecycle API")}

	engine := NewEngine()
	findings := engine.Evaluate(context.Background(), current, inspector)

	require.Len(t, findings, 2)

	byCheck := map[string]types.Finding{}
	for _, f := range findings {
		byCheck[f.CheckName] = f
	}

	lifecycle := byCheck["S3_LIFECYCLE_POLICY"]
	assert.Equal(t, types.StatusError, lifecycle.Status)
	assert.Contains(t, lifecycle.Message, "access denied for lifecycle API")

	versioning := byCheck["S3_VERSIONING_ENABLED"]
	assert.Equal(t, types.StatusFail, versioning.Status, "versioning check must run despite the lifecycle error")
}

func TestEngine_ErrorDoesNotBlockOtherResources(t *testing.T) {
	current := map[string]types.ResourceSnapshot{
		"broken-topic": snapshot("broken-topic", TypeSNSTopic, map[string]interface{}{}),
		"t1": snapshot("t1", TypeDynamoDBTable, map[string]interface{}{
			"BillingModeSummary": map[string]interface{}{"BillingMode": "PAY_PER_REQUEST"},
		}),
	}
	inspector := &fakeInspector{subscribeErr: errors.New("throttled")}

	engine := NewEngine()
	findings := engine.Evaluate(context.Background(), current, inspector)

	require.Len(t, findings, 2)
	assert.Equal(t, types.StatusError, findings[0].Status) // broken-topic sorts first
	assert.Equal(t, types.StatusPass, findings[1].Status)
}

func TestEngine_OneFindingPerPair(t *testing.T) {
	current := map[string]types.ResourceSnapshot{
		"b1": snapshot("b1", TypeS3Bucket, map[string]interface{}{}),
		"b2": snapshot("b2", TypeS3Bucket, map[string]interface{}{}),
		"t1": snapshot("t1", TypeDynamoDBTable, map[string]interface{}{}),
		"x1": snapshot("x1", "AWS::Unknown::Thing", map[string]interface{}{}),
	}

	engine := NewEngine()
	findings := engine.Evaluate(context.Background(), current, &fakeInspector{})

	// 2 buckets x 2 S3 rules + 1 table x 1 rule; unknown type matches nothing.
	assert.Len(t, findings, 5)
}

func TestEngine_DeterministicOrderUnderConcurrency(t *testing.T) {
	current := map[string]types.ResourceSnapshot{}
	for _, id := range []string{"e", "a", "c", "b", "d"} {
		current[id] = snapshot(id, TypeS3Bucket, map[string]interface{}{
			"BucketVersioningConfiguration": map[string]interface{}{"Status": "Enabled"},
		})
	}

	engine := NewEngine(WithConcurrency(8))
	reference := engine.Evaluate(context.Background(), current, &fakeInspector{})

	for i := 0; i < 5; i++ {
		findings := engine.Evaluate(context.Background(), current, &fakeInspector{})
		require.Equal(t, reference, findings, "ordering must not depend on scheduling")
	}

	for i := 1; i < len(reference); i++ {
		prev, cur := reference[i-1], reference[i]
		less := prev.ResourceID < cur.ResourceID ||
			(prev.ResourceID == cur.ResourceID && prev.CheckName < cur.CheckName)
		assert.True(t, less, "findings must be sorted by (resource_id, check_name)")
	}
}

func TestEngine_LookupTimeoutBecomesErrorFinding(t *testing.T) {
	current := map[string]types.ResourceSnapshot{
		"slow-bucket": snapshot("slow-bucket", TypeS3Bucket, map[string]interface{}{}),
	}
	inspector := &fakeInspector{delay: 200 * time.Millisecond}

	engine := NewEngine(WithLookupTimeout(10 * time.Millisecond))
	findings := engine.Evaluate(context.Background(), current, inspector)

	var lifecycle types.Finding
	for _, f := range findings {
		if f.CheckName == "S3_LIFECYCLE_POLICY" {
			lifecycle = f
		}
	}
	assert.Equal(t, types.StatusError, lifecycle.Status)
	assert.Contains(t, lifecycle.Message, "context deadline exceeded")
}

func TestEngine_PanicBecomesErrorFinding(t *testing.T) {
	panicking := Rule{
		Name:         "PANICKING_CHECK",
		ResourceType: TypeS3Bucket,
		Check: func(context.Context, types.ResourceSnapshot, ResourceInspector) (types.Status, string, error) {
			panic("boom")
		},
	}
	current := map[string]types.ResourceSnapshot{
		"b1": snapshot("b1", TypeS3Bucket, map[string]interface{}{}),
	}

	engine := NewEngine(WithRules([]Rule{panicking}))
	findings := engine.Evaluate(context.Background(), current, &fakeInspector{})

	require.Len(t, findings, 1)
	assert.Equal(t, types.StatusError, findings[0].Status)
	assert.Contains(t, findings[0].Message, "boom")
}

func TestEngine_EmptyInput(t *testing.T) {
	engine := NewEngine()
	findings := engine.Evaluate(context.Background(), map[string]types.ResourceSnapshot{}, &fakeInspector{})
	assert.Empty(t, findings)
}
