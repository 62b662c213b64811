package app

import (
	"context"
	"fmt"

	awsclients "github.com/yairfalse/driftguard/internal/collectors/aws"
	"github.com/yairfalse/driftguard/internal/differ"
	awsinspector "github.com/yairfalse/driftguard/internal/inspector/aws"
	"github.com/yairfalse/driftguard/internal/rules"
)

// Scanner holds the per-scan AWS plumbing: the collector that snapshots
// resources and the inspector that answers check lookups.
type Scanner struct {
	Clients   *awsclients.Clients
	Collector *awsclients.Collector
	Inspector *awsinspector.Inspector
}

// NewScanner builds AWS clients from configuration, validates credentials,
// and wires the collector and inspector over them.
func (a *App) NewScanner(ctx context.Context) (*Scanner, error) {
	clients, err := awsclients.NewClients(ctx, awsclients.ClientConfig{
		Region:     a.cfg.AWS.Region,
		Profile:    a.cfg.AWS.Profile,
		MaxRetries: a.cfg.AWS.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS clients: %w", err)
	}
	if err := clients.ValidateCredentials(ctx); err != nil {
		return nil, err
	}

	return &Scanner{
		Clients:   clients,
		Collector: awsclients.NewCollector(clients, a.log),
		Inspector: awsinspector.NewInspector(clients.S3, clients.SNS),
	}, nil
}

// NewEngine builds a rule engine from configuration.
func (a *App) NewEngine() *rules.Engine {
	thresholds := rules.DefaultThresholds()
	if a.cfg.Rules.LambdaMinMemory > 0 {
		thresholds.LambdaMinMemoryMB = a.cfg.Rules.LambdaMinMemory
	}
	if a.cfg.Rules.LambdaMaxTimeout > 0 {
		thresholds.LambdaMaxTimeoutSec = a.cfg.Rules.LambdaMaxTimeout
	}

	return rules.NewEngine(
		rules.WithRules(rules.BuiltinRules(thresholds)),
		rules.WithConcurrency(a.cfg.Rules.Concurrency),
		rules.WithLookupTimeout(a.cfg.Rules.LookupTimeout),
		rules.WithLogger(a.log),
	)
}

// DriftOptions builds drift aggregation options from configuration.
func (a *App) DriftOptions() differ.DriftOptions {
	return differ.DriftOptions{
		EmptyBaseline: differ.EmptyBaselinePolicy(a.cfg.Drift.EmptyBaseline),
	}
}
