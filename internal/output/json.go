package output

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/yairfalse/driftguard/pkg/types"
)

// JSONFormatter handles JSON output formatting
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// FormatDriftSummary formats a drift summary as indented JSON.
func (j *JSONFormatter) FormatDriftSummary(summary *types.DriftSummary) ([]byte, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode drift summary: %w", err)
	}
	return append(data, '\n'), nil
}

// FormatComplianceSummary formats a compliance summary as indented JSON.
func (j *JSONFormatter) FormatComplianceSummary(summary *types.ComplianceSummary) ([]byte, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode compliance summary: %w", err)
	}
	return append(data, '\n'), nil
}

// FormatSnapshotList formats collected resources as a sorted JSON array.
func (j *JSONFormatter) FormatSnapshotList(resources map[string]types.ResourceSnapshot) ([]byte, error) {
	sorted := make([]types.ResourceSnapshot, 0, len(resources))
	for _, r := range resources {
		sorted = append(sorted, r)
	}
	sort.Slice(sorted, func(i, k int) bool {
		return sorted[i].ResourceID < sorted[k].ResourceID
	})

	data, err := json.MarshalIndent(sorted, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode resources: %w", err)
	}
	return append(data, '\n'), nil
}
