package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"vitrina/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// WeatherCacheTTL is how long a cached lookup is served.
const WeatherCacheTTL = 10 * time.Minute

// CachedWeatherClient keeps successful lookups in redis. Failed lookups are never
// cached and a broken cache only costs a call upstream.
type CachedWeatherClient struct {
	next   WeatherLookup
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedWeatherClient wraps next with a redis cache whose entries live for ttl.
func NewCachedWeatherClient(next WeatherLookup, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedWeatherClient {
	return &CachedWeatherClient{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func weatherKey(city string) string {
	return fmt.Sprintf("weather:%s", strings.ToLower(city))
}

// Current returns the cached weather of city, looking it up on a miss. Cache errors
// are logged and fall through to the upstream lookup.
func (c *CachedWeatherClient) Current(ctx context.Context, city string) (*models.Weather, error) {
	val, err := c.rdb.Get(ctx, weatherKey(city)).Bytes()
	if err == nil {
		var w models.Weather
		if err := json.Unmarshal(val, &w); err == nil {
			return &w, nil
		}
		c.logger.Warn("dropping unreadable cache entry", zap.String("city", city))
	} else if err != redis.Nil {
		c.logger.Warn("weather cache read failed", zap.String("city", city), zap.Error(err))
	}
	return c.Refresh(ctx, city)
}

// Refresh looks the city up upstream and stores the answer.
func (c *CachedWeatherClient) Refresh(ctx context.Context, city string) (*models.Weather, error) {
	w, err := c.next.Current(ctx, city)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(w); err == nil {
		if err := c.rdb.Set(ctx, weatherKey(city), data, c.ttl).Err(); err != nil {
			c.logger.Warn("weather cache write failed", zap.String("city", city), zap.Error(err))
		}
	}
	return w, nil
}
