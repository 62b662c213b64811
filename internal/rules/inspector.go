package rules

import "context"

// LifecycleRule is the subset of an S3 lifecycle rule a check cares about.
type LifecycleRule struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Enabled reports whether the lifecycle rule is active.
func (r LifecycleRule) Enabled() bool {
	return r.Status == "Enabled"
}

// TopicSubscription is the subset of an SNS subscription a check cares about.
type TopicSubscription struct {
	Protocol string `json:"protocol"`
	Endpoint string `json:"endpoint"`
}

// ResourceInspector is the capability through which rules perform
// supplementary lookups that the collected configuration alone cannot
// answer. Implementations wrap live cloud clients; tests inject fakes. Any
// error returned here is downgraded to an error-status finding by the
// engine, never propagated.
type ResourceInspector interface {
	// BucketLifecycle returns the lifecycle rules configured on a bucket.
	// A bucket with no lifecycle configuration returns an empty slice, not
	// an error.
	BucketLifecycle(ctx context.Context, bucketName string) ([]LifecycleRule, error)

	// TopicSubscriptions returns the subscriptions attached to a topic.
	TopicSubscriptions(ctx context.Context, topicARN string) ([]TopicSubscription, error)
}
