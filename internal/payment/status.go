package payment

import (
	"fmt"
	"strings"
)

var statusCodes = map[string]Status{
	"2":  StatusPaid,
	"0":  StatusPending,
	"-1": StatusFailed,
	"-2": StatusFailed,
	"-3": StatusRefunded,
}

// MapStatusCode translates a gateway status code. Unknown codes stay pending.
func MapStatusCode(code string) Status {
	if s, ok := statusCodes[strings.TrimSpace(code)]; ok {
		return s
	}
	return StatusPending
}

var transitions = map[Status][]Status{
	StatusPending: {StatusPaid, StatusFailed},
	StatusPaid:    {StatusRefunded},
}

// Transition validates moving a booking from one payment status to another.
// Re-applying the current status is a no-op.
func Transition(from, to Status) (Status, bool, error) {
	if from == to {
		return from, false, nil
	}
	for _, next := range transitions[from] {
		if next == to {
			return to, true, nil
		}
	}
	return from, false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusFailed, StatusRefunded:
		return true
	}
	return false
}
