package payment

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMerchant = MerchantConfig{
	MerchantID: "1221149",
	Secret:     "mySecret",
	BaseURL:    "https://tours.example.lk/",
	Sandbox:    true,
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2500, "2500.00"},
		{2500.5, "2500.50"},
		{0.1 + 0.2, "0.30"},
		{1.005, "1.01"},
		{2.675, "2.68"},
		{99.994, "99.99"},
		{1234567.891, "1234567.89"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.in), "amount %v", tt.in)
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in, first, last string
	}{
		{"Nimal Perera", "Nimal", "Perera"},
		{"  Anne   Marie   de Silva ", "Anne", "Marie de Silva"},
		{"Madonna", "Madonna", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		first, last := SplitName(tt.in)
		assert.Equal(t, tt.first, first)
		assert.Equal(t, tt.last, last)
	}
}

func TestBuildCheckout(t *testing.T) {
	in := CheckoutInput{
		OrderID:  "BOOK-1001",
		Amount:   2500,
		FullName: "Nimal Kumar Perera",
		Email:    "nimal@example.com",
		Phone:    "0771234567",
		Address:  "12 Galle Road",
		City:     "Colombo",
		TourName: "Cultural Triangle 5 Days",
	}

	t.Run("Success", func(t *testing.T) {
		req, err := BuildCheckout(LegacyHasher, testMerchant, in)
		require.NoError(t, err)

		assert.Equal(t, SandboxCheckoutURL, req.ActionURL)

		f := req.Fields
		assert.Equal(t, "1221149", f["merchant_id"])
		assert.Equal(t, "BOOK-1001", f["order_id"])
		assert.Equal(t, "2500.00", f["amount"])
		assert.Equal(t, "LKR", f["currency"])
		assert.Equal(t, "Sri Lanka", f["country"])
		assert.Equal(t, "Nimal", f["first_name"])
		assert.Equal(t, "Kumar Perera", f["last_name"])
		assert.Equal(t, "Cultural Triangle 5 Days", f["items"])
		assert.Equal(t, "https://tours.example.lk/payment/success?order_id=BOOK-1001", f["return_url"])
		assert.Equal(t, "https://tours.example.lk/payment/cancel?order_id=BOOK-1001", f["cancel_url"])
		assert.Equal(t, "https://tours.example.lk/api/payments/notify?order_id=BOOK-1001", f["notify_url"])

		want := md5Upper("1221149" + "BOOK-1001" + "2500.00" + "LKR" + md5Upper("mySecret"))
		assert.Equal(t, want, f["hash"])
	})

	t.Run("WireFieldSet", func(t *testing.T) {
		req, err := BuildCheckout(LegacyHasher, testMerchant, in)
		require.NoError(t, err)

		expected := []string{
			"merchant_id", "return_url", "cancel_url", "notify_url", "order_id",
			"items", "currency", "amount", "first_name", "last_name", "email",
			"phone", "address", "city", "country", "hash",
		}
		assert.Len(t, req.Fields, len(expected))
		for _, k := range expected {
			assert.Contains(t, req.Fields, k)
		}
	})

	t.Run("LiveEndpoint", func(t *testing.T) {
		m := testMerchant
		m.Sandbox = false
		req, err := BuildCheckout(LegacyHasher, m, in)
		require.NoError(t, err)
		assert.Equal(t, LiveCheckoutURL, req.ActionURL)
	})

	t.Run("HashUsesFormattedAmount", func(t *testing.T) {
		odd := in
		odd.Amount = 1999.999
		odd.Currency = "USD"
		req, err := BuildCheckout(LegacyHasher, testMerchant, odd)
		require.NoError(t, err)

		assert.Equal(t, "2000.00", req.Fields["amount"])
		assert.Equal(t, LegacyHasher.Sum("mySecret", "1221149", "BOOK-1001", "2000.00", "USD"), req.Fields["hash"])
	})

	t.Run("MissingMerchantID", func(t *testing.T) {
		m := testMerchant
		m.MerchantID = ""
		_, err := BuildCheckout(LegacyHasher, m, in)

		var cfgErr *ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, KeyMerchantID, cfgErr.Key)
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("MissingSecret", func(t *testing.T) {
		m := testMerchant
		m.Secret = ""
		_, err := BuildCheckout(LegacyHasher, m, in)
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		for _, amt := range []float64{0, -10, math.NaN(), math.Inf(1)} {
			bad := in
			bad.Amount = amt
			_, err := BuildCheckout(LegacyHasher, testMerchant, bad)
			assert.ErrorIs(t, err, ErrInvalidCheckout)
		}
	})

	t.Run("MissingOrderID", func(t *testing.T) {
		bad := in
		bad.OrderID = " "
		_, err := BuildCheckout(LegacyHasher, testMerchant, bad)
		assert.ErrorIs(t, err, ErrInvalidCheckout)
	})
}
