// FilePath: internal/repository/rediscache/rediscache.latest.go
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/washlane/equipmenthub/internal/config"
	"github.com/washlane/equipmenthub/internal/errors"
	"github.com/washlane/equipmenthub/internal/models"
)

const latestReadingTTL = 24 * time.Hour

// LatestReadingCache keeps the most recent reading per equipment in Redis so
// status endpoints do not hit the hypertable.
type LatestReadingCache struct {
	client *redis.Client
}

func NewLatestReadingCache(cfg config.RedisConfig) *LatestReadingCache {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &LatestReadingCache{client: client}
}

func key(equipmentID string) string {
	return "telemetry:latest:" + equipmentID
}

func (c *LatestReadingCache) Set(ctx context.Context, reading *models.TelemetryReading) error {
	data, err := json.Marshal(reading)
	if err != nil {
		return errors.NewInternalError("failed to marshal reading for cache", err)
	}
	if err := c.client.Set(ctx, key(reading.EquipmentID), data, latestReadingTTL).Err(); err != nil {
		return errors.NewInternalError("failed to cache latest reading", err)
	}
	return nil
}

func (c *LatestReadingCache) Get(ctx context.Context, equipmentID string) (*models.TelemetryReading, error) {
	data, err := c.client.Get(ctx, key(equipmentID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NewNotFoundError("no cached reading for equipment", err)
		}
		return nil, errors.NewInternalError("failed to read latest reading cache", err)
	}

	reading := &models.TelemetryReading{}
	if err := json.Unmarshal(data, reading); err != nil {
		return nil, errors.NewInternalError("failed to unmarshal cached reading", err)
	}
	return reading, nil
}

func (c *LatestReadingCache) Invalidate(ctx context.Context, equipmentID string) error {
	if err := c.client.Del(ctx, key(equipmentID)).Err(); err != nil {
		return errors.NewInternalError("failed to invalidate latest reading cache", err)
	}
	return nil
}

func (c *LatestReadingCache) Close() error {
	return c.client.Close()
}
