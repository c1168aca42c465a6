package payment

import (
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusFailed   Status = "failed"
	StatusRefunded Status = "refunded"
)

// MerchantConfig is the merchant account resolved from the settings cascade.
// Secret is only ever used as digest input.
type MerchantConfig struct {
	MerchantID string
	Secret     string
	BaseURL    string
	Sandbox    bool
}

type CheckoutInput struct {
	OrderID  string
	Amount   float64
	Currency string
	FullName string
	Email    string
	Phone    string
	Address  string
	City     string
	Country  string
	TourName string
}

// CheckoutRequest is what the browser posts to the gateway. It is built once per
// checkout attempt and never persisted as-is.
type CheckoutRequest struct {
	ActionURL string            `json:"actionUrl"`
	Fields    map[string]string `json:"fields"`
}

// Notification is the asynchronous server-to-server call from the gateway.
// It is untrusted until VerifyNotification succeeds.
type Notification struct {
	MerchantID string
	OrderID    string
	PaymentID  string
	Amount     string
	Currency   string
	StatusCode string
	Signature  string
	Method     string
	Message    string
}

type Payment struct {
	ID        uint      `json:"id"`
	OrderID   string    `json:"orderId"`
	Amount    string    `json:"amount"`
	Currency  string    `json:"currency"`
	Hash      string    `json:"-"`
	Status    Status    `json:"status"`
	Sandbox   bool      `json:"sandbox"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type NotificationResult struct {
	OrderID   string
	Status    Status
	Previous  Status
	Changed   bool
	Duplicate bool
}
