package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	pkgconfig "github.com/lalofigo/web-store-mvp/pkg/config"
	"github.com/lalofigo/web-store-mvp/pkg/logger"
	"github.com/lalofigo/web-store-mvp/pkg/messaging"
)

// ServiceName names the config file (configs/{env}/checkout.yaml) and the
// CHECKOUT_ environment prefix.
const ServiceName = "checkout"

type Config struct {
	Service  ServiceConfig  `mapstructure:"service" yaml:"service"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Gateway  GatewayConfig  `mapstructure:"gateway" yaml:"gateway"`
	Redirect RedirectConfig `mapstructure:"redirect" yaml:"redirect"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Redis    RedisConfig    `mapstructure:"redis" yaml:"redis"`
	Log      logger.Config  `mapstructure:"log" yaml:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
}

type ServiceConfig struct {
	Name        string `mapstructure:"name" yaml:"name"`
	Environment string `mapstructure:"environment" yaml:"environment"`
	Version     string `mapstructure:"version" yaml:"version"`
}

type RedirectConfig struct {
	SuccessPath string `mapstructure:"success_path" yaml:"success_path" validate:"required,startswith=/"`
	FailurePath string `mapstructure:"failure_path" yaml:"failure_path" validate:"required,startswith=/"`
}

type RedisConfig struct {
	Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
	Channel           string `mapstructure:"channel" yaml:"channel" validate:"required_if=Enabled true"`
	messaging.Options `mapstructure:",squash" yaml:",inline"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"service.name":        ServiceName,
		"service.environment": "development",
		"service.version":     "dev",

		"server.http.host":          "0.0.0.0",
		"server.http.port":          8080,
		"server.http.allow_origins": []string{"http://localhost:3000"},
		"server.grpc.host":          "0.0.0.0",
		"server.grpc.port":          0,

		"gateway.provider":              "gateway",
		"gateway.base_url":              "http://localhost:3001",
		"gateway.api_key":               "",
		"gateway.timeout":               "30s",
		"gateway.stripe_secret_key":     "",
		"gateway.stripe_payment_method": "pm_card_visa",
		"gateway.stripe_api_url":        "",

		"redirect.success_path": "/success",
		"redirect.failure_path": "/failed",

		"database.enabled":            false,
		"database.host":               "localhost",
		"database.port":               5432,
		"database.name":               "checkout",
		"database.user":               "postgres",
		"database.password":           "",
		"database.ssl_mode":           "disable",
		"database.max_open_conns":     10,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "30m",
		"database.conn_max_idle_time": "5m",

		"redis.enabled":      false,
		"redis.addr":         "localhost:6379",
		"redis.password":     "",
		"redis.db":           0,
		"redis.dial_timeout": "5s",
		"redis.channel":      "checkout.outcomes",

		"log.level":       "info",
		"log.format":      "json",
		"log.output":      "stdout",
		"log.file_path":   "",
		"log.development": false,

		"metrics.enabled":   true,
		"metrics.namespace": "webstore",
	}
}

// LoadConfig reads defaults, configs/{APP_ENV}/checkout.yaml (or CONFIG_PATH)
// and CHECKOUT_* environment variables, then validates the result.
// PAYMENT_GATEWAY_URL is honoured as an alias of gateway.base_url.
func LoadConfig() (*Config, error) {
	src, err := pkgconfig.Load(pkgconfig.Options{
		ServiceName: ServiceName,
		Defaults:    defaults(),
		EnvAliases: map[string]string{
			"gateway.base_url":          "PAYMENT_GATEWAY_URL",
			"gateway.stripe_secret_key": "STRIPE_SECRET_KEY",
		},
	})
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := src.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the cross-field rules declared in the struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Gateway.Provider == "gateway" && c.Gateway.BaseURL == "" {
		return fmt.Errorf("invalid config: gateway.base_url is required for the gateway provider")
	}
	return nil
}
