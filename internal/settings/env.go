package settings

import (
	"context"
	"os"

	"ceylon-tours-be/internal/payment"
)

// DefaultEnvKeys maps setting keys to environment variable names.
var DefaultEnvKeys = map[string]string{
	payment.KeyMerchantID:     "PAYHERE_MERCHANT_ID",
	payment.KeyMerchantSecret: "PAYHERE_MERCHANT_SECRET",
	payment.KeyBaseURL:        "APP_BASE_URL",
	payment.KeySandbox:        "PAYHERE_SANDBOX",
}

type EnvProvider struct {
	keys map[string]string
}

func NewEnvProvider(keys map[string]string) *EnvProvider {
	if keys == nil {
		keys = DefaultEnvKeys
	}
	return &EnvProvider{keys: keys}
}

func (p *EnvProvider) Name() string { return "env" }

func (p *EnvProvider) Lookup(_ context.Context, key string) (string, bool) {
	name, ok := p.keys[key]
	if !ok {
		return "", false
	}
	return os.LookupEnv(name)
}
