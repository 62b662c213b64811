package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yairfalse/driftguard/pkg/types"
)

// LocalStore implements Store on the local filesystem. Each baseline is a
// JSON payload plus a small YAML metadata sidecar, so listings do not have
// to parse full baselines.
type LocalStore struct {
	baseDir   string
	baselines string
	reports   string
}

// NewLocalStore creates a local store rooted at baseDir, defaulting to
// ~/.driftguard when baseDir is empty.
func NewLocalStore(config Config) (*LocalStore, error) {
	if config.BaseDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		config.BaseDir = filepath.Join(homeDir, ".driftguard")
	}

	store := &LocalStore{
		baseDir:   config.BaseDir,
		baselines: filepath.Join(config.BaseDir, "baselines"),
		reports:   filepath.Join(config.BaseDir, "reports"),
	}

	for _, dir := range []string{store.baseDir, store.baselines, store.reports} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return store, nil
}

// SaveBaseline writes the baseline payload and its metadata sidecar.
func (s *LocalStore) SaveBaseline(name string, baseline *types.Baseline) error {
	if name == "" {
		return fmt.Errorf("baseline name is required")
	}
	if baseline == nil || baseline.Resources == nil {
		return fmt.Errorf("baseline has no resources")
	}

	data, err := json.MarshalIndent(baseline, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode baseline: %w", err)
	}
	if err := writeFileAtomic(s.baselinePath(name), data); err != nil {
		return err
	}

	meta := BaselineInfo{
		Name:          name,
		Source:        baseline.Source,
		Timestamp:     baseline.Timestamp,
		ResourceCount: len(baseline.Resources),
	}
	metaData, err := yaml.Marshal(&meta)
	if err != nil {
		return fmt.Errorf("failed to encode baseline metadata: %w", err)
	}
	return writeFileAtomic(s.metaPath(name), metaData)
}

// LoadBaseline reads a baseline by name.
func (s *LocalStore) LoadBaseline(name string) (*types.Baseline, error) {
	data, err := os.ReadFile(s.baselinePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("baseline not found: %s", name)
		}
		return nil, fmt.Errorf("failed to read baseline %s: %w", name, err)
	}

	var baseline types.Baseline
	if err := json.Unmarshal(data, &baseline); err != nil {
		return nil, fmt.Errorf("failed to decode baseline %s: %w", name, err)
	}
	return &baseline, nil
}

// ListBaselines returns metadata for all stored baselines, newest first.
func (s *LocalStore) ListBaselines() ([]BaselineInfo, error) {
	entries, err := os.ReadDir(s.baselines)
	if err != nil {
		return nil, fmt.Errorf("failed to read baselines directory: %w", err)
	}

	var infos []BaselineInfo
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".meta.yaml") {
			continue
		}

		metaData, err := os.ReadFile(filepath.Join(s.baselines, entry.Name()))
		if err != nil {
			continue
		}
		var info BaselineInfo
		if err := yaml.Unmarshal(metaData, &info); err != nil {
			continue
		}

		info.FilePath = s.baselinePath(info.Name)
		if stat, err := os.Stat(info.FilePath); err == nil {
			info.FileSize = stat.Size()
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Timestamp != infos[j].Timestamp {
			return infos[i].Timestamp > infos[j].Timestamp
		}
		return infos[i].Name < infos[j].Name
	})

	return infos, nil
}

// DeleteBaseline removes a baseline and its metadata sidecar.
func (s *LocalStore) DeleteBaseline(name string) error {
	if _, err := os.Stat(s.baselinePath(name)); os.IsNotExist(err) {
		return fmt.Errorf("baseline not found: %s", name)
	}
	if err := os.Remove(s.baselinePath(name)); err != nil {
		return fmt.Errorf("failed to delete baseline %s: %w", name, err)
	}
	// The sidecar may already be gone; that is not an error.
	_ = os.Remove(s.metaPath(name))
	return nil
}

// SaveDriftReport stores a drift summary and returns its path.
func (s *LocalStore) SaveDriftReport(summary *types.DriftSummary) (string, error) {
	return s.saveReport("drift", summary)
}

// SaveComplianceReport stores a compliance summary and returns its path.
func (s *LocalStore) SaveComplianceReport(summary *types.ComplianceSummary) (string, error) {
	return s.saveReport("compliance", summary)
}

func (s *LocalStore) saveReport(kind string, report interface{}) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s report: %w", kind, err)
	}

	filename := fmt.Sprintf("%s-%s.json", kind, time.Now().UTC().Format("2006-01-02T15-04-05"))
	path := filepath.Join(s.reports, filename)
	if err := writeFileAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

func (s *LocalStore) baselinePath(name string) string {
	return filepath.Join(s.baselines, sanitizeFilename(name)+".json")
}

func (s *LocalStore) metaPath(name string) string {
	return filepath.Join(s.baselines, sanitizeFilename(name)+".meta.yaml")
}

// writeFileAtomic writes data through a temp file in the target directory
// and renames it into place, so readers never see partial writes.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	return nil
}

// sanitizeFilename replaces characters that are unsafe in filenames.
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", " "}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "-")
	}
	return result
}
