// internal/payment/payment.go
package payment

// Gateway builds outbound checkout requests and authenticates inbound
// notifications for a hosted-checkout payment provider.
type Gateway interface {
	Name() string
	Checkout(m MerchantConfig, in CheckoutInput) (*CheckoutRequest, error)
	Verify(m MerchantConfig, n Notification) bool
}

type payhereGateway struct {
	hasher Hasher
}

// NewPayHereGateway returns the PayHere hosted checkout gateway using h for
// every checksum it produces or checks.
func NewPayHereGateway(h Hasher) Gateway {
	return &payhereGateway{hasher: h}
}

func (g *payhereGateway) Name() string {
	return "PAYHERE"
}

func (g *payhereGateway) Checkout(m MerchantConfig, in CheckoutInput) (*CheckoutRequest, error) {
	return BuildCheckout(g.hasher, m, in)
}

func (g *payhereGateway) Verify(m MerchantConfig, n Notification) bool {
	if n.MerchantID != m.MerchantID {
		return false
	}
	return VerifyNotification(g.hasher, m.Secret, n)
}
