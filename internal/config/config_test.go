package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "us-east-1", cfg.AWS.Region)
	assert.Equal(t, 3, cfg.AWS.MaxRetries)
	assert.Equal(t, "no-baseline", cfg.Drift.EmptyBaseline)
	assert.Equal(t, 4, cfg.Rules.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Rules.LookupTimeout)
	assert.Equal(t, float64(256), cfg.Rules.LambdaMinMemory)
	assert.Equal(t, float64(300), cfg.Rules.LambdaMaxTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "table", cfg.Output.Format)
}

func TestDefaultBaseDir(t *testing.T) {
	dir := DefaultBaseDir()
	assert.NotEmpty(t, dir)
	assert.Contains(t, dir, ".driftguard")
}
