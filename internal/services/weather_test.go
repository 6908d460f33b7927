package services_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"vitrina/internal/models"
	"vitrina/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const minskWeather = `{
	"weather": [{"id": 800, "main": "Clear", "icon": "01d"}],
	"main": {"temp": 21.5, "feels_like": 20.9, "pressure": 1012, "humidity": 40},
	"wind": {"speed": 3.2},
	"clouds": {"all": 0},
	"name": "Minsk"
}`

func TestOpenWeatherClient_Current(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "minsk", r.URL.Query().Get("q"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "key", r.URL.Query().Get("appid"))
		w.Write([]byte(minskWeather))
	}))
	defer server.Close()

	client := services.NewOpenWeatherClient(server.URL, "key", 2*time.Second, zap.NewNop())
	w, err := client.Current(context.Background(), "minsk")

	require.NoError(t, err)
	assert.Equal(t, models.Weather{Temp: 21.5, FeelsLike: 20.9, Speed: 3.2, Clouds: 0, Humidity: 40, Icon: "01d"}, *w)
}

func TestOpenWeatherClient_BadAnswers(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unknown city", http.StatusNotFound, `{"cod":"404","message":"city not found"}`},
		{"missing wind", http.StatusOK, `{"weather":[{"icon":"01d"}],"main":{"temp":1,"feels_like":1,"humidity":1},"clouds":{"all":1}}`},
		{"no weather entries", http.StatusOK, `{"weather":[],"main":{"temp":1,"feels_like":1,"humidity":1},"wind":{"speed":1},"clouds":{"all":1}}`},
		{"not json", http.StatusOK, `oops`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := services.NewOpenWeatherClient(server.URL, "key", 2*time.Second, zap.NewNop())
			_, err := client.Current(context.Background(), "atlantis")
			assert.ErrorIs(t, err, models.ErrUpstream)
		})
	}
}

func TestOpenWeatherClient_BreakerOpensOnServerErrors(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := services.NewOpenWeatherClient(server.URL, "key", 2*time.Second, zap.NewNop())
	for i := 0; i < 8; i++ {
		_, err := client.Current(context.Background(), "minsk")
		assert.ErrorIs(t, err, models.ErrUpstream)
	}
	assert.Equal(t, int32(5), atomic.LoadInt32(&hits))
}

func TestOpenWeatherClient_NotFoundDoesNotTripBreaker(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := services.NewOpenWeatherClient(server.URL, "key", 2*time.Second, zap.NewNop())
	for i := 0; i < 8; i++ {
		_, _ = client.Current(context.Background(), "atlantis")
	}
	assert.Equal(t, int32(8), atomic.LoadInt32(&hits))
}

func TestWeatherService_AddCity(t *testing.T) {
	cities := new(MockCityRepository)
	service := services.NewWeatherService(cities, new(MockWeatherLookup), zap.NewNop())
	ctx := context.Background()

	_, err := service.AddCity(ctx, "new york")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.ByField(), "name")

	cities.On("GetByName", mock.Anything, "minsk").Return(&models.City{ID: 1, Name: "minsk"}, nil).Once()
	_, err = service.AddCity(ctx, "minsk")
	require.ErrorAs(t, err, &verr)

	cities.On("GetByName", mock.Anything, "new-york").Return(nil, models.ErrNotFound).Once()
	cities.On("Create", mock.Anything, mock.MatchedBy(func(c *models.City) bool { return c.Name == "new-york" })).Return(nil).Once()
	city, err := service.AddCity(ctx, " new-york ")
	require.NoError(t, err)
	assert.Equal(t, "new-york", city.Name)
	cities.AssertExpectations(t)
}

func TestWeatherService_DashboardOmitsFailedCities(t *testing.T) {
	cities := new(MockCityRepository)
	lookup := new(MockWeatherLookup)
	service := services.NewWeatherService(cities, lookup, zap.NewNop())

	cities.On("GetAll", mock.Anything).Return([]models.City{{ID: 1, Name: "minsk"}, {ID: 2, Name: "atlantis"}, {ID: 3, Name: "london"}}, nil).Once()
	lookup.On("Current", mock.Anything, "minsk").Return(&models.Weather{Temp: 20, Icon: "01d"}, nil)
	lookup.On("Current", mock.Anything, "atlantis").Return(nil, models.ErrUpstream)
	lookup.On("Current", mock.Anything, "london").Return(&models.Weather{Temp: 12, Icon: "10d"}, nil)

	info, err := service.Dashboard(context.Background())

	require.NoError(t, err)
	require.Len(t, info, 2)
	assert.Equal(t, "minsk", info[0].City.Name)
	assert.Equal(t, "london", info[1].City.Name)
	assert.Equal(t, 12.0, info[1].Weather.Temp)
}

func TestWeatherService_LookupKeepsErrors(t *testing.T) {
	lookup := new(MockWeatherLookup)
	service := services.NewWeatherService(new(MockCityRepository), lookup, zap.NewNop())
	lookup.On("Current", mock.Anything, "atlantis").Return(nil, models.ErrUpstream)

	results := service.Lookup(context.Background(), []models.City{{ID: 2, Name: "atlantis"}})

	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, models.ErrUpstream)
	assert.Equal(t, "atlantis", results[0].City.Name)
}

func newCache(t *testing.T, next services.WeatherLookup) (*services.CachedWeatherClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return services.NewCachedWeatherClient(next, rdb, services.WeatherCacheTTL, zap.NewNop()), mr
}

func TestCachedWeatherClient_ServesFromCache(t *testing.T) {
	lookup := new(MockWeatherLookup)
	cache, mr := newCache(t, lookup)
	lookup.On("Current", mock.Anything, "minsk").Return(&models.Weather{Temp: 20, Icon: "01d"}, nil).Once()

	first, err := cache.Current(context.Background(), "minsk")
	require.NoError(t, err)
	second, err := cache.Current(context.Background(), "Minsk")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("weather:minsk"))
	assert.Equal(t, services.WeatherCacheTTL, mr.TTL("weather:minsk"))
	lookup.AssertNumberOfCalls(t, "Current", 1)
}

func TestCachedWeatherClient_FailuresAreNotCached(t *testing.T) {
	lookup := new(MockWeatherLookup)
	cache, mr := newCache(t, lookup)
	lookup.On("Current", mock.Anything, "atlantis").Return(nil, models.ErrUpstream).Twice()

	_, err := cache.Current(context.Background(), "atlantis")
	assert.ErrorIs(t, err, models.ErrUpstream)
	_, err = cache.Current(context.Background(), "atlantis")
	assert.ErrorIs(t, err, models.ErrUpstream)

	assert.False(t, mr.Exists("weather:atlantis"))
	lookup.AssertExpectations(t)
}

func TestCachedWeatherClient_RedisDownFallsThrough(t *testing.T) {
	lookup := new(MockWeatherLookup)
	cache, mr := newCache(t, lookup)
	mr.Close()
	lookup.On("Current", mock.Anything, "minsk").Return(&models.Weather{Temp: 20}, nil).Once()

	w, err := cache.Current(context.Background(), "minsk")
	require.NoError(t, err)
	assert.Equal(t, 20.0, w.Temp)
}

func TestWeatherRefresher_RefreshAll(t *testing.T) {
	lookup := new(MockWeatherLookup)
	cache, mr := newCache(t, lookup)
	cities := new(MockCityRepository)
	refresher := services.NewWeatherRefresher(cities, cache, time.Second, zap.NewNop())

	cities.On("GetAll", mock.Anything).Return([]models.City{{ID: 1, Name: "minsk"}, {ID: 2, Name: "atlantis"}}, nil).Once()
	lookup.On("Current", mock.Anything, "minsk").Return(&models.Weather{Temp: 20}, nil).Once()
	lookup.On("Current", mock.Anything, "atlantis").Return(nil, errors.New("boom")).Once()

	ok := refresher.RefreshAll(context.Background())

	assert.Equal(t, 1, ok)
	assert.True(t, mr.Exists("weather:minsk"))
}

func TestWeatherRefresher_RejectsBadSchedule(t *testing.T) {
	lookup := new(MockWeatherLookup)
	cache, _ := newCache(t, lookup)
	refresher := services.NewWeatherRefresher(new(MockCityRepository), cache, time.Second, zap.NewNop())

	assert.Error(t, refresher.Start("every now and then"))
}
