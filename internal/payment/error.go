package payment

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration     = errors.New("payment gateway is not configured")
	ErrInvalidCheckout   = errors.New("invalid checkout request")
	ErrSignatureMismatch = errors.New("payment notification signature mismatch")
	ErrInvalidTransition = errors.New("invalid payment status transition")
	ErrNotPayable        = errors.New("booking is not awaiting payment")
	ErrOrderNotFound     = errors.New("order not found")
	ErrPaymentNotFound   = errors.New("payment not found")
)

// ConfigurationError names the setting no source could provide.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s is missing from every settings source", ErrConfiguration, e.Key)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}
