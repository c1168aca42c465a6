package payment

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"ceylon-tours-be/internal/logger"

	"go.uber.org/zap"
)

// Setting keys understood by the settings cascade.
const (
	KeyMerchantID     = "merchantId"
	KeyMerchantSecret = "merchantSecret"
	KeyBaseURL        = "baseUrl"
	KeySandbox        = "sandboxFlag"
)

// SettingsSource is satisfied by settings.Cascade.
type SettingsSource interface {
	Lookup(ctx context.Context, key string) (string, bool)
}

// LoadMerchantConfig resolves the merchant account. A missing id or secret is
// a configuration error and is never retried.
func LoadMerchantConfig(ctx context.Context, src SettingsSource) (MerchantConfig, error) {
	var cfg MerchantConfig

	id, ok := src.Lookup(ctx, KeyMerchantID)
	if !ok || strings.TrimSpace(id) == "" {
		return cfg, &ConfigurationError{Key: KeyMerchantID}
	}
	secret, ok := src.Lookup(ctx, KeyMerchantSecret)
	if !ok || secret == "" {
		return cfg, &ConfigurationError{Key: KeyMerchantSecret}
	}

	cfg.MerchantID = strings.TrimSpace(id)
	cfg.Secret = secret
	cfg.BaseURL, _ = src.Lookup(ctx, KeyBaseURL)
	if reason := badBaseURL(cfg.BaseURL); reason != "" {
		logger.FromCtx(ctx).Warn("payment base url misconfigured, gateway callbacks will not reach this site",
			zap.String("baseUrl", cfg.BaseURL), zap.String("reason", reason))
	}
	cfg.Sandbox = true
	if raw, ok := src.Lookup(ctx, KeySandbox); ok {
		if v, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			cfg.Sandbox = v
		}
	}
	return cfg, nil
}

// badBaseURL reports why base cannot serve as the site origin for the
// return, cancel and notify URLs, or "" when it is usable.
func badBaseURL(base string) string {
	if strings.TrimSpace(base) == "" {
		return "empty"
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "not an absolute http url"
	}
	if h := strings.ToLower(u.Hostname()); h == "payhere.lk" || strings.HasSuffix(h, ".payhere.lk") {
		return "points at the payment gateway"
	}
	return ""
}
