package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"valuation-service/internal/models"

	"github.com/redis/go-redis/v9"
)

// SnapshotCache keeps the latest merged record set per actor scope in Redis
// so a restarted instance can serve a recent view before its first refresh.
// Submitter scopes cache separately from the tenant-wide scope; the two must
// never serve each other's records.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

func snapshotKey(scope string) string {
	return "valuation:snapshot:" + scope
}

func (c *SnapshotCache) Store(ctx context.Context, scope string, records []models.ValuationRecord) error {
	body, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey(scope), body, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// Load returns the cached snapshot, or nil when none is cached.
func (c *SnapshotCache) Load(ctx context.Context, scope string) ([]models.ValuationRecord, error) {
	body, err := c.client.Get(ctx, snapshotKey(scope)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var records []models.ValuationRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return records, nil
}
