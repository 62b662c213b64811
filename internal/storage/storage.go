package storage

import "github.com/yairfalse/driftguard/pkg/types"

// Config holds storage configuration
type Config struct {
	BaseDir string
}

// BaselineInfo is the listing metadata of one stored baseline.
type BaselineInfo struct {
	Name          string `yaml:"name" json:"name"`
	Source        string `yaml:"source" json:"source"`
	Timestamp     string `yaml:"timestamp" json:"timestamp"`
	ResourceCount int    `yaml:"resource_count" json:"resource_count"`
	FilePath      string `yaml:"-" json:"file_path"`
	FileSize      int64  `yaml:"-" json:"file_size"`
}

// Store persists baselines and evaluation reports.
type Store interface {
	SaveBaseline(name string, baseline *types.Baseline) error
	LoadBaseline(name string) (*types.Baseline, error)
	ListBaselines() ([]BaselineInfo, error)
	DeleteBaseline(name string) error

	SaveDriftReport(summary *types.DriftSummary) (string, error)
	SaveComplianceReport(summary *types.ComplianceSummary) (string, error)
}
