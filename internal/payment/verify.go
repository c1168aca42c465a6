package payment

import (
	"crypto/subtle"
	"strings"
)

// VerifyNotification recomputes the checksum over the notification exactly as
// received and compares it to the gateway signature, ignoring case.
func VerifyNotification(h Hasher, secret string, n Notification) bool {
	if secret == "" || strings.TrimSpace(n.Signature) == "" {
		return false
	}
	expected := h.Sum(secret, n.MerchantID, n.OrderID, n.Amount, n.Currency, n.StatusCode)
	received := strings.ToUpper(strings.TrimSpace(n.Signature))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(received)) == 1
}
