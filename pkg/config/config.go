package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"StockForecast/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string         `yaml:"environment" default:"development" validate:"required"`
	Log         LogConfig      `yaml:"log"`
	Server      ServerConfig   `yaml:"server"`
	Metrics     MetricsConfig  `yaml:"metrics"`
	Source      SourceConfig   `yaml:"source"`
	Forecast    ForecastConfig `yaml:"forecast"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"console" validate:"oneof=json console"`
	Output string `yaml:"output" default:"stdout"`
}

type ServerConfig struct {
	Host            string          `yaml:"host" default:"0.0.0.0"`
	Port            int             `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" default:"2m"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" default:"10s"`
	CORS            bool            `yaml:"cors" default:"true"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig is a per-client token bucket for forecast endpoints.
type RateLimitConfig struct {
	Enabled      bool    `yaml:"enabled" default:"true"`
	Capacity     float64 `yaml:"capacity" default:"5" validate:"gte=1"`
	RefillPerSec float64 `yaml:"refill_per_sec" default:"0.5" validate:"gt=0"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

type SourceConfig struct {
	Type       string           `yaml:"type" default:"yahoo" validate:"oneof=yahoo clickhouse"`
	Yahoo      YahooConfig      `yaml:"yahoo"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
	Breaker    BreakerConfig    `yaml:"breaker"`
	Cache      CacheConfig      `yaml:"cache"`
}

type YahooConfig struct {
	BaseURL   string        `yaml:"base_url" default:"https://query1.finance.yahoo.com" validate:"url"`
	Timeout   time.Duration `yaml:"timeout" default:"15s"`
	UserAgent string        `yaml:"user_agent" default:"Mozilla/5.0 (compatible; StockForecast/1.0)"`
}

type ClickHouseConfig struct {
	Host             string        `yaml:"host" default:"localhost"`
	Port             int           `yaml:"port" default:"9000"`
	Database         string        `yaml:"database" default:"stockforecast"`
	Table            string        `yaml:"table" default:"daily_prices"`
	User             string        `yaml:"user" default:"default"`
	Password         string        `yaml:"password"`
	UseHTTP          bool          `yaml:"use_http"`
	DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
	MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	InitSchema       bool          `yaml:"init_schema" default:"true"`
}

type BreakerConfig struct {
	Enabled             bool          `yaml:"enabled" default:"true"`
	MaxRequests         uint32        `yaml:"max_requests" default:"1"`
	Interval            time.Duration `yaml:"interval" default:"1m"`
	Timeout             time.Duration `yaml:"timeout" default:"30s"`
	ConsecutiveFailures uint32        `yaml:"consecutive_failures" default:"5" validate:"gte=1"`
}

type CacheConfig struct {
	Enabled    bool          `yaml:"enabled" default:"true"`
	TTL        time.Duration `yaml:"ttl" default:"15m"`
	MemorySize int           `yaml:"memory_size" default:"256" validate:"gte=1"`
	Redis      RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr" default:"localhost:6379" validate:"hostname_port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix" default:"stockforecast"`
}

type ForecastConfig struct {
	Horizon           int           `yaml:"horizon" default:"30" validate:"gte=1,ltefield=MaxHorizon"`
	MaxHorizon        int           `yaml:"max_horizon" default:"365" validate:"gte=1"`
	DefaultStrategies []string      `yaml:"default_strategies"`
	Parallel          bool          `yaml:"parallel" default:"true"`
	RunTimeout        time.Duration `yaml:"run_timeout" default:"2m"`
	StrategyTimeout   time.Duration `yaml:"strategy_timeout" default:"1m"`
	Remote            RemoteConfig  `yaml:"remote"`
}

// RemoteConfig routes the listed strategies to an HTTP forecasting service.
type RemoteConfig struct {
	URL        string        `yaml:"url" validate:"omitempty,url"`
	Timeout    time.Duration `yaml:"timeout" default:"30s"`
	Strategies []string      `yaml:"strategies"`
}

var validate = validator.New()

// Default returns a configuration made of defaults only.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Load reads a YAML file over the defaults and validates the result. An empty
// path yields the defaults.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("APP_ENV"); v != "" {
		c.Environment = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = p
	}
	if v := getenv("PRICE_SOURCE"); v != "" {
		c.Source.Type = v
	}
	if v := getenv("CLICKHOUSE_HOST"); v != "" {
		c.Source.ClickHouse.Host = v
	}
	if v := getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.Source.ClickHouse.Password = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Source.Cache.Redis.Addr = v
		c.Source.Cache.Redis.Enabled = true
	}
	if v := getenv("REDIS_PASSWORD"); v != "" {
		c.Source.Cache.Redis.Password = v
	}
	if v := getenv("FORECAST_REMOTE_URL"); v != "" {
		c.Forecast.Remote.URL = v
	}
	if v := getenv("FORECAST_REMOTE_STRATEGIES"); v != "" {
		c.Forecast.Remote.Strategies = util.SplitList(v)
	}
	if v := getenv("FORECAST_STRATEGIES"); v != "" {
		c.Forecast.DefaultStrategies = util.SplitList(v)
	}
	return nil
}

// Validate checks struct tags and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s failed on %q", fe.Namespace(), fe.Tag())
		}
		return err
	}
	if len(c.Forecast.Remote.Strategies) > 0 && c.Forecast.Remote.URL == "" {
		return fmt.Errorf("forecast.remote.url is required when forecast.remote.strategies is set")
	}
	return nil
}
