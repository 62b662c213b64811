package types

// DiffKind classifies a single structural difference between a baseline and
// a current configuration value.
type DiffKind string

const (
	// DiffTypeChange means the value changed kind, e.g. string -> number.
	DiffTypeChange DiffKind = "type_change"
	// DiffValueChange means a scalar changed value within the same kind.
	DiffValueChange DiffKind = "value_change"
	// DiffListSizeChange means an array changed length.
	DiffListSizeChange DiffKind = "list_size_change"
	// DiffAdded means an object key exists only in the current configuration.
	DiffAdded DiffKind = "added"
	// DiffRemoved means an object key exists only in the baseline.
	DiffRemoved DiffKind = "removed"
)

// IsValid checks if the DiffKind is one of the known values.
func (k DiffKind) IsValid() bool {
	switch k {
	case DiffTypeChange, DiffValueChange, DiffListSizeChange, DiffAdded, DiffRemoved:
		return true
	default:
		return false
	}
}

// DiffRecord is one path-addressed difference. Paths use dots for object
// keys and [i] for array indices, e.g. "Rules[0].Status". For
// DiffListSizeChange the old and new values carry the two lengths.
type DiffRecord struct {
	Path     string       `json:"path"`
	Kind     DiffKind     `json:"kind"`
	OldValue *ConfigValue `json:"old_value,omitempty"`
	NewValue *ConfigValue `json:"new_value,omitempty"`
}

// ResourceError records a resource that was skipped from structural
// comparison because its snapshot was malformed.
type ResourceError struct {
	ResourceID string `json:"resource_id"`
	Message    string `json:"message"`
}

// DriftSummary is the full result of comparing a current snapshot set
// against a baseline. A resource id appears in at most one of the added,
// removed, and changed lists.
type DriftSummary struct {
	TotalResources    int                     `json:"total_resources"`
	BaselineResources int                     `json:"baseline_resources"`
	AddedResources    []string                `json:"added_resources"`
	RemovedResources  []string                `json:"removed_resources"`
	ChangedResources  []string                `json:"changed_resources"`
	DriftDetails      map[string][]DiffRecord `json:"drift_details"`
	DriftPercentage   float64                 `json:"drift_percentage"`
	BaselineMissing   bool                    `json:"baseline_missing,omitempty"`
	Errors            []ResourceError         `json:"errors,omitempty"`
}

// HasDrift reports whether any resource was added, removed, or changed.
func (s *DriftSummary) HasDrift() bool {
	return len(s.AddedResources)+len(s.RemovedResources)+len(s.ChangedResources) > 0
}
