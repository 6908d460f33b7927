package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every setting the service reads at startup.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	DBDriver    string
	DatabaseDSN string
	UploadDir   string

	JWTSecret  string
	DemoUserID uint

	CardPageSize int
	RowPageSize  int

	RabbitMQURL string
	EventsQueue string

	RedisAddr              string
	WeatherAPIURL          string
	WeatherAPIKey          string
	WeatherTimeout         time.Duration
	WeatherRefreshSchedule string

	PaymentAPIURL     string
	PaymentMerchantID string
	PaymentSecretKey  string
	PaymentCurrency   string
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "vitrina.db")
	v.SetDefault("UPLOAD_DIR", "uploads")

	v.SetDefault("JWT_SECRET", "hard to guess")
	v.SetDefault("DEMO_USER_ID", 1)

	v.SetDefault("CARD_PAGE_SIZE", 5)
	v.SetDefault("ROW_PAGE_SIZE", 13)

	// Empty URLs/addresses disable the optional integrations.
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("EVENTS_QUEUE", "vitrina_events")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("WEATHER_API_URL", "https://api.openweathermap.org")
	v.SetDefault("WEATHER_API_KEY", "")
	v.SetDefault("WEATHER_TIMEOUT", "5s")
	v.SetDefault("WEATHER_REFRESH_SCHEDULE", "")

	v.SetDefault("PAYMENT_API_URL", "https://pay.fondy.eu")
	v.SetDefault("PAYMENT_MERCHANT_ID", "1396424")
	v.SetDefault("PAYMENT_SECRET_KEY", "test")
	v.SetDefault("PAYMENT_CURRENCY", "BYN")
}

// Load reads the configuration from the environment and, when CONFIG_FILE is set,
// from that file. Environment variables win.
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:  v.GetString("APP_PORT"),
		AppEnv:   v.GetString("APP_ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),

		DBDriver:    v.GetString("DB_DRIVER"),
		DatabaseDSN: v.GetString("DATABASE_DSN"),
		UploadDir:   v.GetString("UPLOAD_DIR"),

		JWTSecret:  v.GetString("JWT_SECRET"),
		DemoUserID: v.GetUint("DEMO_USER_ID"),

		CardPageSize: v.GetInt("CARD_PAGE_SIZE"),
		RowPageSize:  v.GetInt("ROW_PAGE_SIZE"),

		RabbitMQURL: v.GetString("RABBITMQ_URL"),
		EventsQueue: v.GetString("EVENTS_QUEUE"),

		RedisAddr:              v.GetString("REDIS_ADDR"),
		WeatherAPIURL:          v.GetString("WEATHER_API_URL"),
		WeatherAPIKey:          v.GetString("WEATHER_API_KEY"),
		WeatherTimeout:         v.GetDuration("WEATHER_TIMEOUT"),
		WeatherRefreshSchedule: v.GetString("WEATHER_REFRESH_SCHEDULE"),

		PaymentAPIURL:     v.GetString("PAYMENT_API_URL"),
		PaymentMerchantID: v.GetString("PAYMENT_MERCHANT_ID"),
		PaymentSecretKey:  v.GetString("PAYMENT_SECRET_KEY"),
		PaymentCurrency:   v.GetString("PAYMENT_CURRENCY"),
	}

	if cfg.DBDriver != "sqlite" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.CardPageSize <= 0 || cfg.RowPageSize <= 0 {
		return nil, fmt.Errorf("page sizes must be positive (card=%d, row=%d)", cfg.CardPageSize, cfg.RowPageSize)
	}
	if cfg.DemoUserID == 0 {
		return nil, fmt.Errorf("DEMO_USER_ID must be non-zero")
	}
	return cfg, nil
}
