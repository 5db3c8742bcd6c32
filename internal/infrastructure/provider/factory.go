package provider

import (
	"fmt"

	"github.com/lalofigo/web-store-mvp/internal/config"
	"github.com/lalofigo/web-store-mvp/internal/domain/provider"
	gatewayProvider "github.com/lalofigo/web-store-mvp/internal/infrastructure/provider/gateway"
	stripeProvider "github.com/lalofigo/web-store-mvp/internal/infrastructure/provider/stripe"
	"go.uber.org/zap"
)

// Factory creates payment gateways based on the provider type
type Factory struct {
	config *config.GatewayConfig
	logger *zap.Logger
}

// NewFactory creates a new provider factory
func NewFactory(config *config.GatewayConfig, logger *zap.Logger) *Factory {
	return &Factory{
		config: config,
		logger: logger,
	}
}

// GetProvider returns a payment gateway based on the provider type
func (f *Factory) GetProvider(providerType provider.ProviderType) (provider.PaymentGateway, error) {
	switch providerType {
	case provider.ProviderTypeGateway:
		return f.createGatewayProvider()
	case provider.ProviderTypeStripe:
		return f.createStripeProvider()
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

// GetProviderFromString returns a payment gateway from a string type
func (f *Factory) GetProviderFromString(providerStr string) (provider.PaymentGateway, error) {
	// Default to the storefront gateway if not specified
	if providerStr == "" {
		providerStr = string(provider.ProviderTypeGateway)
	}

	return f.GetProvider(provider.ProviderType(providerStr))
}

func (f *Factory) createGatewayProvider() (provider.PaymentGateway, error) {
	if f.config.BaseURL == "" {
		return nil, fmt.Errorf("payment gateway base URL not configured")
	}

	return gatewayProvider.NewProvider(
		f.config.BaseURL,
		f.config.APIKey,
		f.config.Timeout,
		f.logger.Named("gateway"),
	), nil
}

func (f *Factory) createStripeProvider() (provider.PaymentGateway, error) {
	if f.config.StripeSecretKey == "" {
		return nil, fmt.Errorf("Stripe secret key not configured")
	}

	return stripeProvider.NewStripeProvider(stripeProvider.Config{
		SecretKey:     f.config.StripeSecretKey,
		PaymentMethod: f.config.StripePaymentMethod,
		APIURL:        f.config.StripeAPIURL,
		Timeout:       f.config.Timeout,
	}, f.logger.Named("stripe")), nil
}
