package types

import (
	"errors"
	"strings"
	"time"
)

// ResourceSnapshot is a point-in-time capture of one resource's
// configuration. Snapshots are owned by the collector that produced them and
// are never mutated after construction.
type ResourceSnapshot struct {
	ResourceID    string      `json:"resource_id"`
	ResourceType  string      `json:"resource_type"`
	Configuration ConfigValue `json:"configuration"`
	ARN           string      `json:"arn,omitempty"`
	CapturedAt    time.Time   `json:"captured_at,omitempty"`
}

// Validate checks the fields required for structural comparison. A snapshot
// failing validation is skipped from comparison, not fatal to a scan.
func (r *ResourceSnapshot) Validate() error {
	if strings.TrimSpace(r.ResourceID) == "" {
		return errors.New("resource id is required")
	}
	if strings.TrimSpace(r.ResourceType) == "" {
		return errors.New("resource type is required")
	}
	if !r.Configuration.IsValid() {
		return errors.New("resource configuration is required")
	}
	return nil
}

// Baseline is the accepted reference snapshot set used for drift comparison.
type Baseline struct {
	Source    string                      `json:"source"`
	Timestamp string                      `json:"timestamp"`
	Resources map[string]ResourceSnapshot `json:"resources"`
}

// ResourceCount returns the number of resources in the baseline.
func (b *Baseline) ResourceCount() int {
	return len(b.Resources)
}

// NewBaseline builds a baseline from a set of current snapshots.
func NewBaseline(source string, resources map[string]ResourceSnapshot) *Baseline {
	copied := make(map[string]ResourceSnapshot, len(resources))
	for id, r := range resources {
		copied[id] = r
	}
	return &Baseline{
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Resources: copied,
	}
}
