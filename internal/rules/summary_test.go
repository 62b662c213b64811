package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/driftguard/pkg/types"
)

func TestSummarize_CompliancePercentage(t *testing.T) {
	var findings []types.Finding
	for i := 0; i < 18; i++ {
		findings = append(findings, types.Finding{
			ResourceID: "r", CheckName: "c", Status: types.StatusPass,
		})
	}
	findings = append(findings,
		types.Finding{ResourceID: "r", CheckName: "c", Status: types.StatusFail},
		types.Finding{ResourceID: "r", CheckName: "c", Status: types.StatusError},
	)

	summary := Summarize(findings)

	assert.Equal(t, 20, summary.TotalChecks)
	assert.Equal(t, 18, summary.Passed)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 90.0, summary.CompliancePercentage)
}

func TestSummarize_ZeroChecksConvention(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.TotalChecks)
	assert.Equal(t, 100.0, summary.CompliancePercentage)
	assert.Empty(t, summary.Findings)
}

func TestSummarize_WarningCountsNeitherWay(t *testing.T) {
	summary := Summarize([]types.Finding{
		{ResourceID: "a", CheckName: "c1", Status: types.StatusPass},
		{ResourceID: "a", CheckName: "c2", Status: types.StatusWarning},
	})

	assert.Equal(t, 2, summary.TotalChecks)
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 50.0, summary.CompliancePercentage)
}

func TestSummarize_FrameworkRollup(t *testing.T) {
	summary := Summarize([]types.Finding{
		{ResourceID: "a", CheckName: "c1", Status: types.StatusPass, Frameworks: []string{"SOC2", "CIS-AWS"}},
		{ResourceID: "b", CheckName: "c1", Status: types.StatusFail, Frameworks: []string{"SOC2"}, Severity: SeverityHigh},
		{ResourceID: "c", CheckName: "c2", Status: types.StatusError, Frameworks: []string{"FinOps"}, Severity: SeverityLow},
	})

	assert.Equal(t, types.FrameworkSummary{Passed: 1, Failed: 1}, summary.Frameworks["SOC2"])
	assert.Equal(t, types.FrameworkSummary{Passed: 1, Failed: 0}, summary.Frameworks["CIS-AWS"])
	assert.Equal(t, types.FrameworkSummary{Passed: 0, Failed: 1}, summary.Frameworks["FinOps"])
	assert.Equal(t, 1, summary.BySeverity[SeverityHigh])
	assert.Equal(t, 1, summary.BySeverity[SeverityLow])
}

func TestSummarize_SortsFindings(t *testing.T) {
	summary := Summarize([]types.Finding{
		{ResourceID: "z", CheckName: "a", Status: types.StatusPass},
		{ResourceID: "a", CheckName: "z", Status: types.StatusPass},
		{ResourceID: "a", CheckName: "a", Status: types.StatusPass},
	})

	require.Len(t, summary.Findings, 3)
	assert.Equal(t, "a", summary.Findings[0].ResourceID)
	assert.Equal(t, "a", summary.Findings[0].CheckName)
	assert.Equal(t, "z", summary.Findings[1].CheckName)
	assert.Equal(t, "z", summary.Findings[2].ResourceID)
}

func TestSummarize_Timestamp(t *testing.T) {
	summary := Summarize(nil)
	parsed, err := time.Parse(time.RFC3339, summary.ScanTimestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), parsed, time.Minute)
}
