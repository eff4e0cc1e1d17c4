package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/floorsight/floorsight/internal/domain"
)

const (
	analysisCachePrefix = "analysis:"
	analysisCacheTTL    = 1 * time.Hour
)

// AnalysisCache stores critiques keyed by image digest so re-uploads of the
// same plan skip the vision provider. Entries expire; this is a cache, not
// a record of the analysis.
type AnalysisCache struct {
	client *Client
}

// NewAnalysisCache creates a new analysis cache
func NewAnalysisCache(client *Client) *AnalysisCache {
	return &AnalysisCache{client: client}
}

// Get retrieves the cached critique for an image digest; a miss returns nil
func (c *AnalysisCache) Get(ctx context.Context, digest string) (*domain.FloorPlanAnalysis, error) {
	data, err := c.client.rdb.Get(ctx, analysisCachePrefix+digest).Bytes()
	if err != nil {
		return nil, nil // cache miss
	}

	var analysis domain.FloorPlanAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached analysis: %w", err)
	}

	return &analysis, nil
}

// Set caches the critique for an image digest
func (c *AnalysisCache) Set(ctx context.Context, digest string, analysis *domain.FloorPlanAnalysis) error {
	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	return c.client.rdb.Set(ctx, analysisCachePrefix+digest, data, analysisCacheTTL).Err()
}
