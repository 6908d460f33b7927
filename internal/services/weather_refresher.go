package services

import (
	"context"
	"fmt"
	"time"

	"vitrina/internal/repositories"

	"github.com/robfig/cron"
	"go.uber.org/zap"
)

// WeatherRefresher re-fetches the weather of every stored city on a schedule so the
// dashboard is served from the cache.
type WeatherRefresher struct {
	cities  repositories.CityRepository
	cache   *CachedWeatherClient
	timeout time.Duration
	logger  *zap.Logger
	cron    *cron.Cron
}

// NewWeatherRefresher creates a refresher. Each run is bounded by timeout.
func NewWeatherRefresher(cities repositories.CityRepository, cache *CachedWeatherClient, timeout time.Duration, logger *zap.Logger) *WeatherRefresher {
	return &WeatherRefresher{
		cities:  cities,
		cache:   cache,
		timeout: timeout,
		logger:  logger,
		cron:    cron.NewWithLocation(time.Local),
	}
}

// Start schedules RefreshAll with a cron spec such as "@every 5m".
func (r *WeatherRefresher) Start(spec string) error {
	if err := r.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		r.RefreshAll(ctx)
	}); err != nil {
		return fmt.Errorf("invalid weather refresh schedule %q: %w", spec, err)
	}
	r.cron.Start()
	r.logger.Info("weather refresher started", zap.String("schedule", spec))
	return nil
}

// Stop halts the schedule. A running refresh is not interrupted.
func (r *WeatherRefresher) Stop() {
	r.cron.Stop()
}

// RefreshAll refreshes every city and returns how many succeeded.
func (r *WeatherRefresher) RefreshAll(ctx context.Context) int {
	cities, err := r.cities.GetAll(ctx)
	if err != nil {
		r.logger.Error("weather refresh: listing cities failed", zap.Error(err))
		return 0
	}
	ok := 0
	for _, city := range cities {
		if _, err := r.cache.Refresh(ctx, city.Name); err != nil {
			r.logger.Warn("weather refresh failed", zap.String("city", city.Name), zap.Error(err))
			continue
		}
		ok++
	}
	r.logger.Debug("weather refreshed", zap.Int("cities", len(cities)), zap.Int("ok", ok))
	return ok
}
