package booking

import (
	"errors"

	"ceylon-tours-be/internal/payment"
)

var (
	ErrBookingNotFound  error = notFoundError{}
	ErrInvalidBooking         = errors.New("invalid booking")
	ErrConcurrentUpdate       = errors.New("booking payment status changed concurrently")
)

// notFoundError also matches payment.ErrOrderNotFound.
type notFoundError struct{}

func (notFoundError) Error() string { return "booking not found" }

func (notFoundError) Is(target error) bool { return target == payment.ErrOrderNotFound }
