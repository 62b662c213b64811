package rules

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/yairfalse/driftguard/internal/logger"
	"github.com/yairfalse/driftguard/pkg/types"
)

// Engine applies independent compliance rules to a set of current resource
// snapshots. Each (resource, rule) pair is evaluated in isolation: an
// inspector error, a timeout, or a panicking check produces a single
// error-status finding and never affects any other pair.
type Engine struct {
	rules         []Rule
	byType        map[string][]Rule
	log           logger.Logger
	concurrency   int
	lookupTimeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the built-in rule set.
func WithRules(rules []Rule) Option {
	return func(e *Engine) { e.rules = rules }
}

// WithConcurrency bounds how many pairs are evaluated at once. Values
// below 1 mean sequential evaluation.
func WithConcurrency(n int) Option {
	return func(e *Engine) { e.concurrency = n }
}

// WithLookupTimeout bounds each supplementary lookup. On expiry the pair's
// finding becomes error-status instead of blocking the evaluation.
func WithLookupTimeout(d time.Duration) Option {
	return func(e *Engine) { e.lookupTimeout = d }
}

// WithLogger sets the engine logger.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine builds an engine with the built-in rules and default thresholds
// unless options override them.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rules:         BuiltinRules(DefaultThresholds()),
		log:           logger.NewSimple(),
		concurrency:   4,
		lookupTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.byType = make(map[string][]Rule)
	for _, rule := range e.rules {
		e.byType[rule.ResourceType] = append(e.byType[rule.ResourceType], rule)
	}
	return e
}

// RuleCount returns the number of registered rules.
func (e *Engine) RuleCount() int {
	return len(e.rules)
}

type pair struct {
	resource types.ResourceSnapshot
	rule     Rule
}

// Evaluate runs every matching rule against every resource and returns one
// finding per pair, sorted by (resource id, check name) so that output is
// identical whether evaluation ran sequentially or concurrently.
func (e *Engine) Evaluate(ctx context.Context, current map[string]types.ResourceSnapshot, inspector ResourceInspector) []types.Finding {
	var pairs []pair
	for id, res := range current {
		if res.ResourceID == "" {
			res.ResourceID = id
		}
		for _, rule := range e.byType[res.ResourceType] {
			pairs = append(pairs, pair{resource: res, rule: rule})
		}
	}

	findings := make([]types.Finding, len(pairs))

	workers := e.concurrency
	if workers < 1 {
		workers = 1
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := range pairs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			findings[i] = e.evaluatePair(ctx, pairs[i], inspector)
		}(i)
	}
	wg.Wait()

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].ResourceID != findings[j].ResourceID {
			return findings[i].ResourceID < findings[j].ResourceID
		}
		return findings[i].CheckName < findings[j].CheckName
	})

	return findings
}

// evaluatePair runs a single check, converting every failure mode into a
// finding. This is the isolation boundary of the engine.
func (e *Engine) evaluatePair(ctx context.Context, p pair, inspector ResourceInspector) (finding types.Finding) {
	finding = types.Finding{
		ResourceID:   p.resource.ResourceID,
		ResourceType: p.resource.ResourceType,
		CheckName:    p.rule.Name,
		Severity:     p.rule.Severity,
		Frameworks:   p.rule.Frameworks,
	}

	defer func() {
		if r := recover(); r != nil {
			e.log.WithFields(map[string]interface{}{
				"resource": p.resource.ResourceID,
				"check":    p.rule.Name,
			}).Error("check panicked", fmt.Errorf("%v", r))
			finding.Status = types.StatusError
			finding.Message = fmt.Sprintf("check panicked: %v", r)
		}
	}()

	checkCtx := ctx
	if e.lookupTimeout > 0 {
		var cancel context.CancelFunc
		checkCtx, cancel = context.WithTimeout(ctx, e.lookupTimeout)
		defer cancel()
	}

	status, message, err := p.rule.Check(checkCtx, p.resource, inspector)
	if err != nil {
		finding.Status = types.StatusError
		finding.Message = err.Error()
		return finding
	}

	finding.Status = status
	finding.Message = message
	return finding
}
