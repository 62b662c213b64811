package storage

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/driftguard/pkg/types"
)

func testBaseline(resourceIDs ...string) *types.Baseline {
	resources := make(map[string]types.ResourceSnapshot)
	for _, id := range resourceIDs {
		resources[id] = types.ResourceSnapshot{
			ResourceID:   id,
			ResourceType: "AWS::S3::Bucket",
			Configuration: types.MustFromAny(map[string]interface{}{
				"BucketVersioningConfiguration": map[string]interface{}{"Status": "Enabled"},
			}),
			CapturedAt: time.Now().UTC(),
		}
	}
	return types.NewBaseline("aws", resources)
}

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	return store
}

func TestSaveAndLoadBaseline(t *testing.T) {
	store := newTestStore(t)
	baseline := testBaseline("prod-data", "logs")

	require.NoError(t, store.SaveBaseline("prod", baseline))

	loaded, err := store.LoadBaseline("prod")
	require.NoError(t, err)
	assert.Equal(t, "aws", loaded.Source)
	assert.Equal(t, baseline.Timestamp, loaded.Timestamp)
	require.Len(t, loaded.Resources, 2)
	assert.Equal(t, "Enabled",
		loaded.Resources["prod-data"].Configuration.StringAt("BucketVersioningConfiguration.Status"))
}

func TestSaveBaselineValidation(t *testing.T) {
	store := newTestStore(t)

	assert.Error(t, store.SaveBaseline("", testBaseline("a")))
	assert.Error(t, store.SaveBaseline("prod", nil))
}

func TestLoadBaselineNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LoadBaseline("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "baseline not found")
}

func TestListBaselines(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveBaseline("prod", testBaseline("a", "b", "c")))
	require.NoError(t, store.SaveBaseline("staging", testBaseline("a")))

	infos, err := store.ListBaselines()
	require.NoError(t, err)
	require.Len(t, infos, 2)

	byName := make(map[string]BaselineInfo)
	for _, info := range infos {
		byName[info.Name] = info
	}
	assert.Equal(t, 3, byName["prod"].ResourceCount)
	assert.Equal(t, 1, byName["staging"].ResourceCount)
	assert.Equal(t, "aws", byName["prod"].Source)
	assert.Greater(t, byName["prod"].FileSize, int64(0))
}

func TestDeleteBaseline(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveBaseline("prod", testBaseline("a")))

	require.NoError(t, store.DeleteBaseline("prod"))

	_, err := store.LoadBaseline("prod")
	assert.Error(t, err)

	infos, err := store.ListBaselines()
	require.NoError(t, err)
	assert.Empty(t, infos)

	assert.Error(t, store.DeleteBaseline("prod"))
}

func TestSaveBaselineOverwrite(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveBaseline("prod", testBaseline("a")))
	require.NoError(t, store.SaveBaseline("prod", testBaseline("a", "b")))

	loaded, err := store.LoadBaseline("prod")
	require.NoError(t, err)
	assert.Len(t, loaded.Resources, 2)

	infos, err := store.ListBaselines()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, 2, infos[0].ResourceCount)
}

func TestSaveReports(t *testing.T) {
	store := newTestStore(t)

	driftPath, err := store.SaveDriftReport(&types.DriftSummary{
		TotalResources:  2,
		DriftPercentage: 50.0,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(driftPath, ".json"))

	compliancePath, err := store.SaveComplianceReport(&types.ComplianceSummary{
		TotalChecks:          4,
		Passed:               4,
		CompliancePercentage: 100.0,
	})
	require.NoError(t, err)

	for _, path := range []string{driftPath, compliancePath} {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}
}

func TestSanitizedBaselineName(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveBaseline("team/prod env", testBaseline("a")))

	loaded, err := store.LoadBaseline("team/prod env")
	require.NoError(t, err)
	assert.Len(t, loaded.Resources, 1)
}
