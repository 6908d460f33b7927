package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"vitrina/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// WeatherLookup returns the current weather of a city.
type WeatherLookup interface {
	Current(ctx context.Context, city string) (*models.Weather, error)
}

// OpenWeatherClient queries the OpenWeatherMap current weather endpoint. Calls go
// through a circuit breaker that only counts transport failures and 5xx answers.
type OpenWeatherClient struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker
}

// NewOpenWeatherClient creates a client for the OpenWeatherMap API at baseURL, guarded
// by a circuit breaker.
func NewOpenWeatherClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *OpenWeatherClient {
	settings := gobreaker.Settings{
		Name:        "OpenWeather",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     20 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn(
				"circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &OpenWeatherClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		cb:      gobreaker.NewCircuitBreaker(settings),
	}
}

type upstreamReply struct {
	code int
	body []byte
}

// owmResponse mirrors the fields we read; pointers tell a missing key from a zero.
type owmResponse struct {
	Main *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *int     `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Clouds *struct {
		All *int `json:"all"`
	} `json:"clouds"`
	Weather []struct {
		Icon string `json:"icon"`
	} `json:"weather"`
}

func (c *OpenWeatherClient) endpoint(city string) string {
	q := url.Values{}
	q.Set("q", city)
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)
	return c.baseURL + "/data/2.5/weather?" + q.Encode()
}

// Current fetches the weather of city. Every failure wraps models.ErrUpstream.
func (c *OpenWeatherClient) Current(ctx context.Context, city string) (*models.Weather, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := c.cb.Execute(func() (interface{}, error) {
		a := fiber.Get(c.endpoint(city)).Timeout(c.timeout)
		if err := a.Parse(); err != nil {
			return nil, err
		}
		code, body, errs := a.Bytes()
		if len(errs) > 0 {
			return nil, errs[0]
		}
		if code >= fiber.StatusInternalServerError {
			return nil, fmt.Errorf("status %d", code)
		}
		return upstreamReply{code: code, body: body}, nil
	})
	if err != nil {
		// Includes gobreaker.ErrOpenState while the breaker is open.
		return nil, fmt.Errorf("%w: weather for %s: %v", models.ErrUpstream, city, err)
	}

	reply := res.(upstreamReply)
	if reply.code != fiber.StatusOK {
		return nil, fmt.Errorf("%w: weather for %s answered %d", models.ErrUpstream, city, reply.code)
	}
	return decodeWeather(city, reply.body)
}

func decodeWeather(city string, body []byte) (*models.Weather, error) {
	var r owmResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("%w: weather for %s: %v", models.ErrUpstream, city, err)
	}
	if r.Main == nil || r.Main.Temp == nil || r.Main.FeelsLike == nil || r.Main.Humidity == nil ||
		r.Wind == nil || r.Wind.Speed == nil || r.Clouds == nil || r.Clouds.All == nil || len(r.Weather) == 0 {
		return nil, fmt.Errorf("%w: weather for %s: incomplete response", models.ErrUpstream, city)
	}
	return &models.Weather{
		Temp:      *r.Main.Temp,
		FeelsLike: *r.Main.FeelsLike,
		Speed:     *r.Wind.Speed,
		Clouds:    *r.Clouds.All,
		Humidity:  *r.Main.Humidity,
		Icon:      r.Weather[0].Icon,
	}, nil
}
