package output

import (
	"bytes"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/yairfalse/driftguard/pkg/types"
)

// TableFormatter handles human-readable table output
type TableFormatter struct {
	config Config
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	red    func(a ...interface{}) string
	bold   func(a ...interface{}) string
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(config Config) *TableFormatter {
	passthrough := fmt.Sprint
	t := &TableFormatter{
		config: config,
		green:  passthrough,
		yellow: passthrough,
		red:    passthrough,
		bold:   passthrough,
	}
	if !config.NoColor {
		t.green = color.New(color.FgGreen).SprintFunc()
		t.yellow = color.New(color.FgYellow).SprintFunc()
		t.red = color.New(color.FgRed).SprintFunc()
		t.bold = color.New(color.Bold).SprintFunc()
	}
	return t
}

// FormatDriftSummary formats a drift summary as a table.
func (t *TableFormatter) FormatDriftSummary(summary *types.DriftSummary) ([]byte, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s\n", t.bold("Drift Summary"))
	fmt.Fprintf(w, "=============\n")
	fmt.Fprintf(w, "Total Resources:\t%d\n", summary.TotalResources)
	fmt.Fprintf(w, "Baseline Resources:\t%d\n", summary.BaselineResources)
	fmt.Fprintf(w, "Drift:\t%s\n", t.driftPercent(summary.DriftPercentage))
	if summary.BaselineMissing {
		fmt.Fprintf(w, "Baseline:\t%s\n", t.yellow("missing"))
	}
	fmt.Fprintf(w, "\n")

	if !summary.HasDrift() && len(summary.Errors) == 0 {
		fmt.Fprintf(w, "%s\n", t.green("No drift detected - infrastructure matches baseline."))
		w.Flush()
		return buf.Bytes(), nil
	}

	for _, id := range summary.AddedResources {
		fmt.Fprintf(w, "%s\t%s\n", t.green("A"), id)
	}
	for _, id := range summary.RemovedResources {
		fmt.Fprintf(w, "%s\t%s\n", t.red("D"), id)
	}
	for _, id := range summary.ChangedResources {
		fmt.Fprintf(w, "%s\t%s\n", t.yellow("M"), id)
	}

	if len(summary.DriftDetails) > 0 {
		fmt.Fprintf(w, "\nChanges:\n")
		fmt.Fprintf(w, "Resource\tPath\tChange\tOld\tNew\n")
		fmt.Fprintf(w, "--------\t----\t------\t---\t---\n")

		resourceIDs := make([]string, 0, len(summary.DriftDetails))
		for id := range summary.DriftDetails {
			resourceIDs = append(resourceIDs, id)
		}
		sort.Strings(resourceIDs)

		valueWidth := valueColumnWidth()
		for _, id := range resourceIDs {
			for _, record := range summary.DriftDetails[id] {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					id,
					record.Path,
					record.Kind,
					truncateString(valueString(record.OldValue), valueWidth),
					truncateString(valueString(record.NewValue), valueWidth),
				)
			}
		}
	}

	if len(summary.Errors) > 0 {
		fmt.Fprintf(w, "\nErrors:\n")
		for _, resErr := range summary.Errors {
			fmt.Fprintf(w, "%s\t%s\t%s\n", t.red("E"), resErr.ResourceID, resErr.Message)
		}
	}

	w.Flush()
	return buf.Bytes(), nil
}

// FormatComplianceSummary formats a compliance summary as a table.
func (t *TableFormatter) FormatComplianceSummary(summary *types.ComplianceSummary) ([]byte, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s\n", t.bold("Compliance Summary"))
	fmt.Fprintf(w, "==================\n")
	fmt.Fprintf(w, "Scan Time:\t%s\n", summary.ScanTimestamp)
	fmt.Fprintf(w, "Total Checks:\t%d\n", summary.TotalChecks)
	fmt.Fprintf(w, "Passed:\t%s\n", t.green(summary.Passed))
	fmt.Fprintf(w, "Failed:\t%s\n", t.red(summary.Failed))
	fmt.Fprintf(w, "Compliance:\t%s\n", t.compliancePercent(summary.CompliancePercentage))
	fmt.Fprintf(w, "\n")

	if len(summary.Frameworks) > 0 {
		fmt.Fprintf(w, "Frameworks:\n")
		fmt.Fprintf(w, "Framework\tPassed\tFailed\n")
		fmt.Fprintf(w, "---------\t------\t------\n")

		names := make([]string, 0, len(summary.Frameworks))
		for name := range summary.Frameworks {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fw := summary.Frameworks[name]
			fmt.Fprintf(w, "%s\t%d\t%d\n", name, fw.Passed, fw.Failed)
		}
		fmt.Fprintf(w, "\n")
	}

	if len(summary.Findings) > 0 {
		fmt.Fprintf(w, "Findings:\n")
		fmt.Fprintf(w, "Status\tResource\tCheck\tSeverity\tMessage\n")
		fmt.Fprintf(w, "------\t--------\t-----\t--------\t-------\n")

		messageWidth := valueColumnWidth()
		for _, finding := range summary.Findings {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				t.status(finding.Status),
				finding.ResourceID,
				finding.CheckName,
				finding.Severity,
				truncateString(finding.Message, messageWidth),
			)
		}
	}

	w.Flush()
	return buf.Bytes(), nil
}

// FormatSnapshotList formats collected resources grouped by type.
func (t *TableFormatter) FormatSnapshotList(resources map[string]types.ResourceSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s\n", t.bold("Collected Resources"))
	fmt.Fprintf(w, "===================\n")
	fmt.Fprintf(w, "Total:\t%d\n\n", len(resources))

	if len(resources) == 0 {
		w.Flush()
		return buf.Bytes(), nil
	}

	fmt.Fprintf(w, "Resource\tType\n")
	fmt.Fprintf(w, "--------\t----\n")

	ids := make([]string, 0, len(resources))
	for id := range resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "%s\t%s\n", id, resources[id].ResourceType)
	}

	w.Flush()
	return buf.Bytes(), nil
}

func (t *TableFormatter) status(status types.Status) string {
	switch status {
	case types.StatusPass:
		return t.green("PASS")
	case types.StatusFail:
		return t.red("FAIL")
	case types.StatusWarning:
		return t.yellow("WARN")
	case types.StatusError:
		return t.red("ERROR")
	default:
		return string(status)
	}
}

func (t *TableFormatter) driftPercent(pct float64) string {
	formatted := fmt.Sprintf("%.1f%%", pct)
	if pct == 0 {
		return t.green(formatted)
	}
	return t.yellow(formatted)
}

func (t *TableFormatter) compliancePercent(pct float64) string {
	formatted := fmt.Sprintf("%.1f%%", pct)
	if pct >= 100 {
		return t.green(formatted)
	}
	if pct >= 80 {
		return t.yellow(formatted)
	}
	return t.red(formatted)
}

func valueString(v *types.ConfigValue) string {
	if v == nil {
		return "-"
	}
	return v.String()
}

// valueColumnWidth sizes value columns so wide terminals get more detail.
func valueColumnWidth() int {
	width := terminalWidth() / 4
	if width < 20 {
		width = 20
	}
	return width
}

// truncateString truncates a string to the specified length
func truncateString(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
