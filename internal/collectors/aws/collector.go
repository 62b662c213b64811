package aws

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yairfalse/driftguard/internal/logger"
	"github.com/yairfalse/driftguard/pkg/types"
)

// serviceCollector fetches all snapshots for one AWS service.
type serviceCollector struct {
	name    string
	collect func(ctx context.Context) ([]types.ResourceSnapshot, error)
}

// Collector builds the current-configuration snapshot set from live AWS
// APIs. Services are collected concurrently; a failing service is reported
// but does not discard the snapshots of the others.
type Collector struct {
	clients    *Clients
	log        logger.Logger
	maxWorkers int
}

// NewCollector creates a collector over the given clients.
func NewCollector(clients *Clients, log logger.Logger) *Collector {
	return &Collector{
		clients:    clients,
		log:        log,
		maxWorkers: 5,
	}
}

// Collect gathers snapshots across all supported services, keyed by
// resource id. The returned error joins per-service failures; partial
// results are still returned alongside it.
func (c *Collector) Collect(ctx context.Context) (map[string]types.ResourceSnapshot, error) {
	services := []serviceCollector{
		{name: "s3", collect: c.collectS3Buckets},
		{name: "dynamodb", collect: c.collectDynamoDBTables},
		{name: "lambda", collect: c.collectLambdaFunctions},
		{name: "events", collect: c.collectEventRules},
		{name: "sns", collect: c.collectSNSTopics},
	}

	snapshots := make(map[string]types.ResourceSnapshot)
	var serviceErrs []error

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, c.maxWorkers)

	for _, svc := range services {
		wg.Add(1)
		sem <- struct{}{}
		go func(svc serviceCollector) {
			defer wg.Done()
			defer func() { <-sem }()

			start := time.Now()
			resources, err := svc.collect(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.log.WithField("service", svc.name).Error("collection failed", err)
				serviceErrs = append(serviceErrs, err)
				return
			}
			for _, r := range resources {
				snapshots[r.ResourceID] = r
			}
			c.log.WithFields(map[string]interface{}{
				"service":   svc.name,
				"resources": len(resources),
				"duration":  time.Since(start).String(),
			}).Debug("service collected")
		}(svc)
	}
	wg.Wait()

	return snapshots, errors.Join(serviceErrs...)
}

// newSnapshot assembles one resource snapshot from a raw configuration map.
func newSnapshot(id, resourceType, arn string, config map[string]interface{}) (types.ResourceSnapshot, error) {
	cv, err := types.FromAny(config)
	if err != nil {
		return types.ResourceSnapshot{}, err
	}
	return types.ResourceSnapshot{
		ResourceID:    id,
		ResourceType:  resourceType,
		Configuration: cv,
		ARN:           arn,
		CapturedAt:    time.Now().UTC(),
	}, nil
}
