package differ

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/yairfalse/driftguard/pkg/types"
)

// ErrFatalInput marks the one aborting condition of a drift computation:
// the top-level baseline or current collection is missing entirely. Every
// other problem degrades to a per-resource error entry in the summary.
var ErrFatalInput = errors.New("fatal input")

// EmptyBaselinePolicy controls how a drift run behaves when the baseline
// holds no resources at all (e.g. first scan of a fresh account).
type EmptyBaselinePolicy string

const (
	// EmptyBaselineNoBaseline flags the summary as baseline-missing and
	// reports zero drift, so a first scan does not alarm.
	EmptyBaselineNoBaseline EmptyBaselinePolicy = "no-baseline"
	// EmptyBaselineAllDrift reports every current resource as added and the
	// run as fully drifted.
	EmptyBaselineAllDrift EmptyBaselinePolicy = "all-drift"
)

// DriftOptions configures drift aggregation.
type DriftOptions struct {
	EmptyBaseline EmptyBaselinePolicy
}

// ComputeDrift classifies every resource as added, removed, or changed by
// comparing the current snapshot set against the baseline. Malformed
// snapshots are skipped from structural comparison and recorded on the
// summary; only a missing top-level collection aborts the run.
func ComputeDrift(baseline *types.Baseline, current map[string]types.ResourceSnapshot, opts DriftOptions) (*types.DriftSummary, error) {
	if baseline == nil || baseline.Resources == nil {
		return nil, fmt.Errorf("%w: baseline resource collection is missing", ErrFatalInput)
	}
	if current == nil {
		return nil, fmt.Errorf("%w: current resource collection is missing", ErrFatalInput)
	}

	summary := &types.DriftSummary{
		AddedResources:   []string{},
		RemovedResources: []string{},
		ChangedResources: []string{},
		DriftDetails:     map[string][]types.DiffRecord{},
	}
	summary.BaselineResources = len(baseline.Resources)

	if len(baseline.Resources) == 0 {
		return emptyBaselineSummary(summary, current, opts), nil
	}

	malformed := map[string]bool{}
	recordMalformed := func(id string, err error) {
		if malformed[id] {
			return
		}
		malformed[id] = true
		summary.Errors = append(summary.Errors, types.ResourceError{
			ResourceID: id,
			Message:    err.Error(),
		})
	}

	ids := map[string]bool{}
	for id, snap := range baseline.Resources {
		ids[id] = true
		if err := validateSnapshot(id, snap); err != nil {
			recordMalformed(id, err)
		}
	}
	for id, snap := range current {
		ids[id] = true
		if err := validateSnapshot(id, snap); err != nil {
			recordMalformed(id, err)
		}
	}

	for id := range ids {
		if malformed[id] {
			continue
		}
		base, inBase := baseline.Resources[id]
		cur, inCur := current[id]

		switch {
		case inBase && !inCur:
			summary.RemovedResources = append(summary.RemovedResources, id)
		case !inBase && inCur:
			summary.AddedResources = append(summary.AddedResources, id)
		default:
			if records := Diff(base.Configuration, cur.Configuration); len(records) > 0 {
				summary.ChangedResources = append(summary.ChangedResources, id)
				summary.DriftDetails[id] = records
			}
		}
	}

	sort.Strings(summary.AddedResources)
	sort.Strings(summary.RemovedResources)
	sort.Strings(summary.ChangedResources)
	sort.Slice(summary.Errors, func(i, j int) bool {
		return summary.Errors[i].ResourceID < summary.Errors[j].ResourceID
	})

	summary.TotalResources = len(ids)
	denominator := summary.TotalResources
	if denominator < 1 {
		denominator = 1
	}
	summary.DriftPercentage = round1(float64(len(summary.ChangedResources)) / float64(denominator) * 100)

	return summary, nil
}

// emptyBaselineSummary applies the configured empty-baseline policy.
func emptyBaselineSummary(summary *types.DriftSummary, current map[string]types.ResourceSnapshot, opts DriftOptions) *types.DriftSummary {
	summary.TotalResources = len(current)

	if opts.EmptyBaseline == EmptyBaselineAllDrift {
		for id := range current {
			summary.AddedResources = append(summary.AddedResources, id)
		}
		sort.Strings(summary.AddedResources)
		if len(current) > 0 {
			summary.DriftPercentage = 100
		}
		return summary
	}

	summary.BaselineMissing = true
	return summary
}

func validateSnapshot(id string, snap types.ResourceSnapshot) error {
	if snap.ResourceID == "" {
		snap.ResourceID = id
	}
	return snap.Validate()
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
