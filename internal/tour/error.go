package tour

import "errors"

var (
	ErrTourNotFound        = errors.New("tour not found")
	ErrDestinationNotFound = errors.New("destination not found")
	ErrInvalidTour         = errors.New("invalid tour")
	ErrInvalidDestination  = errors.New("invalid destination")
)
