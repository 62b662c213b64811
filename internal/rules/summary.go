package rules

import (
	"math"
	"sort"
	"time"

	"github.com/yairfalse/driftguard/pkg/types"
)

// Summarize rolls findings into overall, per-framework, and per-severity
// statistics. Error findings count as failures; warnings count toward
// neither side. Zero checks reports 100% compliant by convention.
func Summarize(findings []types.Finding) *types.ComplianceSummary {
	sorted := make([]types.Finding, len(findings))
	copy(sorted, findings)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ResourceID != sorted[j].ResourceID {
			return sorted[i].ResourceID < sorted[j].ResourceID
		}
		return sorted[i].CheckName < sorted[j].CheckName
	})

	summary := &types.ComplianceSummary{
		TotalChecks:   len(sorted),
		Findings:      sorted,
		Frameworks:    map[string]types.FrameworkSummary{},
		BySeverity:    map[string]int{},
		ScanTimestamp: time.Now().UTC().Format(time.RFC3339),
	}

	for _, f := range sorted {
		passed := f.Status == types.StatusPass
		failed := f.Status == types.StatusFail || f.Status == types.StatusError

		if passed {
			summary.Passed++
		}
		if failed {
			summary.Failed++
		}
		if f.Severity != "" && failed {
			summary.BySeverity[f.Severity]++
		}

		for _, fw := range f.Frameworks {
			fs := summary.Frameworks[fw]
			if passed {
				fs.Passed++
			}
			if failed {
				fs.Failed++
			}
			summary.Frameworks[fw] = fs
		}
	}

	if summary.TotalChecks == 0 {
		// Convention: an empty scan is fully compliant.
		summary.CompliancePercentage = 100
	} else {
		summary.CompliancePercentage = math.Round(float64(summary.Passed)/float64(summary.TotalChecks)*1000) / 10
	}

	return summary
}
