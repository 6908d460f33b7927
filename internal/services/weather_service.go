package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"vitrina/internal/models"
	"vitrina/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// WeatherService manages the dashboard cities and collects their weather.
type WeatherService struct {
	cities   repositories.CityRepository
	lookup   WeatherLookup
	validate *validator.Validate
	logger   *zap.Logger
}

// NewWeatherService creates a new WeatherService.
func NewWeatherService(cities repositories.CityRepository, lookup WeatherLookup, logger *zap.Logger) *WeatherService {
	return &WeatherService{
		cities:   cities,
		lookup:   lookup,
		validate: newValidator(),
		logger:   logger,
	}
}

// Cities returns the stored cities in insertion order.
func (s *WeatherService) Cities(ctx context.Context) ([]models.City, error) {
	return s.cities.GetAll(ctx)
}

// AddCity stores a new city. The name must be a unique slug.
func (s *WeatherService) AddCity(ctx context.Context, name string) (*models.City, error) {
	city := &models.City{Name: strings.TrimSpace(name)}
	if fields := structErrors(s.validate, city); len(fields) > 0 {
		return nil, &models.ValidationError{Fields: fields}
	}

	_, err := s.cities.GetByName(ctx, city.Name)
	switch {
	case err == nil:
		return nil, models.NewValidationError("name", "city with this name already exists")
	case !errors.Is(err, models.ErrNotFound):
		return nil, err
	}

	if err := s.cities.Create(ctx, city); err != nil {
		if errors.Is(err, models.ErrConstraintViolation) {
			return nil, models.NewValidationError("name", "city with this name already exists")
		}
		return nil, err
	}
	s.logger.Info("city added", zap.Uint("city_id", city.ID), zap.String("name", city.Name))
	return city, nil
}

// DeleteCity removes a city.
func (s *WeatherService) DeleteCity(ctx context.Context, id uint) error {
	return s.cities.Delete(ctx, id)
}

// Lookup fetches the weather of every city. Each result carries its own error.
func (s *WeatherService) Lookup(ctx context.Context, cities []models.City) []models.WeatherResult {
	results := make([]models.WeatherResult, len(cities))
	var wg sync.WaitGroup
	for i, city := range cities {
		wg.Add(1)
		go func(i int, city models.City) {
			defer wg.Done()
			results[i].City = city
			w, err := s.lookup.Current(ctx, city.Name)
			if err != nil {
				results[i].Err = err
				return
			}
			results[i].Weather = *w
		}(i, city)
	}
	wg.Wait()
	return results
}

// Dashboard returns the weather of every city that could be looked up. Cities whose
// lookup failed are left out.
func (s *WeatherService) Dashboard(ctx context.Context) ([]models.CityWeather, error) {
	cities, err := s.cities.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.CityWeather, 0, len(cities))
	for _, r := range s.Lookup(ctx, cities) {
		if r.Err != nil {
			s.logger.Debug("weather lookup skipped", zap.String("city", r.City.Name), zap.Error(r.Err))
			continue
		}
		out = append(out, models.CityWeather{City: r.City, Weather: r.Weather})
	}
	return out, nil
}
