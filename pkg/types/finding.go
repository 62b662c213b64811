package types

// Status is the outcome of evaluating one compliance check against one
// resource.
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusWarning Status = "warning"
	// StatusError means the check itself could not run, e.g. a supplementary
	// lookup failed. Errors count against compliance like failures.
	StatusError Status = "error"
)

// IsValid checks if the Status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPass, StatusFail, StatusWarning, StatusError:
		return true
	default:
		return false
	}
}

// Finding is the result of one (resource, check) evaluation. The engine
// emits exactly one Finding per pair, including on internal error.
type Finding struct {
	ResourceID   string   `json:"resource_id"`
	ResourceType string   `json:"resource_type"`
	CheckName    string   `json:"check_name"`
	Status       Status   `json:"status"`
	Message      string   `json:"message"`
	Severity     string   `json:"severity,omitempty"`
	Frameworks   []string `json:"frameworks,omitempty"`
}

// FrameworkSummary holds pass/fail counts for one compliance framework.
type FrameworkSummary struct {
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// ComplianceSummary rolls all findings of a scan into overall and
// per-framework statistics. Findings are sorted by (resource id, check name)
// so output is deterministic regardless of evaluation order.
type ComplianceSummary struct {
	TotalChecks          int                         `json:"total_checks"`
	Passed               int                         `json:"passed"`
	Failed               int                         `json:"failed"`
	CompliancePercentage float64                     `json:"compliance_percentage"`
	Findings             []Finding                   `json:"findings"`
	Frameworks           map[string]FrameworkSummary `json:"frameworks,omitempty"`
	BySeverity           map[string]int              `json:"by_severity,omitempty"`
	ScanTimestamp        string                      `json:"scan_timestamp"`
}
