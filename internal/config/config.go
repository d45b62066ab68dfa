package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv  string
	LogFile string

	APIBaseURL     string
	APIToken       string
	RequestTimeout time.Duration
	APIRateLimit   float64
	APIRateBurst   int

	BreakerMaxFailures int
	BreakerInterval    time.Duration
	BreakerTimeout     time.Duration

	ReconnectMaxInterval time.Duration
	DesktopNotifications bool
	BookingsInitialPage  int

	MetricsAddr     string
	OTELServiceName string
	OTLPEndpoint    string
	OTLPInsecure    bool

	StubHTTPAddr  string
	StubJWTSecret string
	SSEHeartbeat  time.Duration
	StubPageSize  int
}

var defaults = map[string]any{
	"app_env":                     "development",
	"log_file":                    "logs/bookingdesk.log",
	"api_base_url":                "http://localhost:8080",
	"request_timeout":             "10s",
	"api_rate_limit":              20.0,
	"api_rate_burst":              10,
	"breaker_max_failures":        5,
	"breaker_interval":            "60s",
	"breaker_timeout":             "30s",
	"reconnect_max_interval":      "30s",
	"desktop_notifications":       true,
	"bookings_initial_page":       1,
	"otel_service_name":           "bookingdesk",
	"otel_exporter_otlp_insecure": true,
	"stub_http_addr":              ":8080",
	"stub_jwt_secret":             "dev-secret-key",
	"sse_heartbeat":               "15s",
	"stub_page_size":              10,
}

// New reads .env, an optional bookingdesk.yaml in the working directory and
// the process environment, in increasing order of precedence.
func New() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName("bookingdesk")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		AppEnv:               v.GetString("app_env"),
		LogFile:              v.GetString("log_file"),
		APIBaseURL:           v.GetString("api_base_url"),
		APIToken:             v.GetString("api_token"),
		RequestTimeout:       v.GetDuration("request_timeout"),
		APIRateLimit:         v.GetFloat64("api_rate_limit"),
		APIRateBurst:         v.GetInt("api_rate_burst"),
		BreakerMaxFailures:   v.GetInt("breaker_max_failures"),
		BreakerInterval:      v.GetDuration("breaker_interval"),
		BreakerTimeout:       v.GetDuration("breaker_timeout"),
		ReconnectMaxInterval: v.GetDuration("reconnect_max_interval"),
		DesktopNotifications: v.GetBool("desktop_notifications"),
		BookingsInitialPage:  v.GetInt("bookings_initial_page"),
		MetricsAddr:          v.GetString("metrics_addr"),
		OTELServiceName:      v.GetString("otel_service_name"),
		OTLPEndpoint:         v.GetString("otel_exporter_otlp_endpoint"),
		OTLPInsecure:         v.GetBool("otel_exporter_otlp_insecure"),
		StubHTTPAddr:         v.GetString("stub_http_addr"),
		StubJWTSecret:        v.GetString("stub_jwt_secret"),
		SSEHeartbeat:         v.GetDuration("sse_heartbeat"),
		StubPageSize:         v.GetInt("stub_page_size"),
	}

	if port := v.GetString("port"); port != "" && os.Getenv("STUB_HTTP_ADDR") == "" {
		cfg.StubHTTPAddr = ":" + port
	}
	if cfg.BookingsInitialPage < 1 {
		cfg.BookingsInitialPage = 1
	}
	if cfg.SSEHeartbeat <= 0 {
		cfg.SSEHeartbeat = 15 * time.Second
	}
	if cfg.StubPageSize <= 0 {
		cfg.StubPageSize = 10
	}

	return cfg, nil
}

func (c *Config) IsRelease() bool {
	return c.AppEnv == "release" || c.AppEnv == "production"
}
