package output

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/yairfalse/driftguard/pkg/types"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
)

// Config holds output rendering configuration
type Config struct {
	NoColor    bool
	TimeFormat string
}

// Renderer formats drift and compliance summaries for display.
type Renderer struct {
	jsonOut  *JSONFormatter
	tableOut *TableFormatter
}

// NewRenderer creates a new output renderer
func NewRenderer(config Config) *Renderer {
	if config.TimeFormat == "" {
		config.TimeFormat = "2006-01-02 15:04:05"
	}
	return &Renderer{
		jsonOut:  NewJSONFormatter(),
		tableOut: NewTableFormatter(config),
	}
}

// FormatDriftSummary formats a drift summary in the specified format.
func (r *Renderer) FormatDriftSummary(summary *types.DriftSummary, format OutputFormat) ([]byte, error) {
	switch format {
	case FormatJSON:
		return r.jsonOut.FormatDriftSummary(summary)
	case FormatTable:
		return r.tableOut.FormatDriftSummary(summary)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// FormatComplianceSummary formats a compliance summary in the specified
// format.
func (r *Renderer) FormatComplianceSummary(summary *types.ComplianceSummary, format OutputFormat) ([]byte, error) {
	switch format {
	case FormatJSON:
		return r.jsonOut.FormatComplianceSummary(summary)
	case FormatTable:
		return r.tableOut.FormatComplianceSummary(summary)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// FormatSnapshotList formats collected resources in the specified format.
func (r *Renderer) FormatSnapshotList(resources map[string]types.ResourceSnapshot, format OutputFormat) ([]byte, error) {
	switch format {
	case FormatJSON:
		return r.jsonOut.FormatSnapshotList(resources)
	case FormatTable:
		return r.tableOut.FormatSnapshotList(resources)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// terminalWidth reports the current terminal width, or a sane default when
// stdout is not a terminal.
func terminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 120
}
