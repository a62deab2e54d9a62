package domain

import "errors"

var (
	ErrStoreConnectivity  = errors.New("catalog store unreachable")
	ErrStoreWrite         = errors.New("catalog store write failed")
	ErrValidation         = errors.New("validation failed")
	ErrUnavailableProduct = errors.New("product unavailable")
	ErrNotificationSend   = errors.New("notification send failed")
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidTransition  = errors.New("invalid order step transition")
)
