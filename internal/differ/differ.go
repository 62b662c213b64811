package differ

import (
	"fmt"
	"sort"

	"github.com/yairfalse/driftguard/pkg/types"
)

// Diff performs a recursive structural comparison of two configuration
// trees and returns every difference as a path-addressed record.
//
// Case ordering is total and deterministic:
//  1. different kinds -> one type_change, no recursion into children
//  2. both arrays -> list_size_change when lengths differ, plus pairwise
//     comparison of the overlapping index prefix
//  3. both objects -> added/removed per key union, recursion on shared keys
//  4. both scalars -> value_change on inequality
//
// Array comparison is strictly positional; elements are never re-aligned by
// identity, so reordering an unordered list reports as drift.
func Diff(baseline, current types.ConfigValue) []types.DiffRecord {
	return diffValue("", baseline, current)
}

func diffValue(path string, baseline, current types.ConfigValue) []types.DiffRecord {
	if baseline.Kind() != current.Kind() {
		return []types.DiffRecord{{
			Path:     path,
			Kind:     types.DiffTypeChange,
			OldValue: ref(baseline),
			NewValue: ref(current),
		}}
	}

	switch baseline.Kind() {
	case types.KindArray:
		return diffArray(path, baseline, current)
	case types.KindObject:
		return diffObject(path, baseline, current)
	default:
		if !baseline.Equal(current) {
			return []types.DiffRecord{{
				Path:     path,
				Kind:     types.DiffValueChange,
				OldValue: ref(baseline),
				NewValue: ref(current),
			}}
		}
		return nil
	}
}

func diffArray(path string, baseline, current types.ConfigValue) []types.DiffRecord {
	var records []types.DiffRecord

	oldItems := baseline.Items()
	newItems := current.Items()

	if len(oldItems) != len(newItems) {
		records = append(records, types.DiffRecord{
			Path:     path,
			Kind:     types.DiffListSizeChange,
			OldValue: ref(types.Number(float64(len(oldItems)))),
			NewValue: ref(types.Number(float64(len(newItems)))),
		})
	}

	// A size mismatch does not suppress comparison of the overlapping prefix.
	overlap := len(oldItems)
	if len(newItems) < overlap {
		overlap = len(newItems)
	}
	for i := 0; i < overlap; i++ {
		records = append(records, diffValue(indexPath(path, i), oldItems[i], newItems[i])...)
	}

	return records
}

func diffObject(path string, baseline, current types.ConfigValue) []types.DiffRecord {
	var records []types.DiffRecord

	oldFields := baseline.Fields()
	newFields := current.Fields()

	for _, key := range unionKeys(oldFields, newFields) {
		keyPath := keyPath(path, key)
		oldVal, inOld := oldFields[key]
		newVal, inNew := newFields[key]

		switch {
		case inOld && !inNew:
			records = append(records, types.DiffRecord{
				Path:     keyPath,
				Kind:     types.DiffRemoved,
				OldValue: ref(oldVal),
			})
		case !inOld && inNew:
			records = append(records, types.DiffRecord{
				Path:     keyPath,
				Kind:     types.DiffAdded,
				NewValue: ref(newVal),
			})
		default:
			records = append(records, diffValue(keyPath, oldVal, newVal)...)
		}
	}

	return records
}

// unionKeys returns the sorted union of both field sets. Sorting here keeps
// record order independent of map iteration order.
func unionKeys(a, b map[string]types.ConfigValue) []string {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, seen := a[k]; !seen {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func keyPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func ref(v types.ConfigValue) *types.ConfigValue {
	return &v
}
