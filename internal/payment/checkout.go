package payment

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	SandboxCheckoutURL = "https://sandbox.payhere.lk/pay/checkout"
	LiveCheckoutURL    = "https://www.payhere.lk/pay/checkout"

	DefaultCurrency = "LKR"
	DefaultCountry  = "Sri Lanka"

	returnPath = "/payment/success"
	cancelPath = "/payment/cancel"
	notifyPath = "/api/payments/notify"
)

// FormatAmount renders an amount with exactly two decimals. This string, not
// the float, is what the gateway hashes on its side.
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// SplitName puts the first token in first and the rest, single-spaced, in last.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// BuildCheckout assembles the form fields and checksum for a gateway redirect.
func BuildCheckout(h Hasher, m MerchantConfig, in CheckoutInput) (*CheckoutRequest, error) {
	if strings.TrimSpace(m.MerchantID) == "" {
		return nil, &ConfigurationError{Key: KeyMerchantID}
	}
	if m.Secret == "" {
		return nil, &ConfigurationError{Key: KeyMerchantSecret}
	}
	if strings.TrimSpace(in.OrderID) == "" {
		return nil, fmt.Errorf("%w: order id is required", ErrInvalidCheckout)
	}
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) || in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be a positive number", ErrInvalidCheckout)
	}

	currency := strings.TrimSpace(in.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}
	country := strings.TrimSpace(in.Country)
	if country == "" {
		country = DefaultCountry
	}

	amount := FormatAmount(in.Amount)
	first, last := SplitName(in.FullName)
	base := strings.TrimRight(m.BaseURL, "/")
	orderQuery := "?order_id=" + url.QueryEscape(in.OrderID)

	action := LiveCheckoutURL
	if m.Sandbox {
		action = SandboxCheckoutURL
	}

	return &CheckoutRequest{
		ActionURL: action,
		Fields: map[string]string{
			"merchant_id": m.MerchantID,
			"return_url":  base + returnPath + orderQuery,
			"cancel_url":  base + cancelPath + orderQuery,
			"notify_url":  base + notifyPath + orderQuery,
			"order_id":    in.OrderID,
			"items":       in.TourName,
			"currency":    currency,
			"amount":      amount,
			"first_name":  first,
			"last_name":   last,
			"email":       in.Email,
			"phone":       in.Phone,
			"address":     in.Address,
			"city":        in.City,
			"country":     country,
			"hash":        h.Sum(m.Secret, m.MerchantID, in.OrderID, amount, currency),
		},
	}, nil
}
