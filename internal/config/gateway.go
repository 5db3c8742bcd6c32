package config

import "time"

// GatewayConfig selects and configures the payment gateway adapter.
type GatewayConfig struct {
	Provider string        `mapstructure:"provider" yaml:"provider" validate:"oneof=gateway stripe"`
	BaseURL  string        `mapstructure:"base_url" yaml:"base_url" validate:"omitempty,url"`
	APIKey   string        `mapstructure:"api_key" yaml:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`

	StripeSecretKey     string `mapstructure:"stripe_secret_key" yaml:"stripe_secret_key" validate:"required_if=Provider stripe"`
	StripePaymentMethod string `mapstructure:"stripe_payment_method" yaml:"stripe_payment_method"`
	// StripeAPIURL overrides the Stripe API endpoint (stripe-mock, tests).
	StripeAPIURL string `mapstructure:"stripe_api_url" yaml:"stripe_api_url" validate:"omitempty,url"`
}
