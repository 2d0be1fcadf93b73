package services

import (
	"errors"
	"fmt"
)

// Errors surfaced to callers. Handlers translate them into responses.
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrSizeNotFound       = errors.New("size not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrVariantNotFound    = errors.New("size is not attached to this product")
	ErrDuplicateVariant   = errors.New("size already assigned to this product")
	ErrSizeInUse          = errors.New("size is still assigned to products")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrInvalidPrice       = errors.New("prices must not be negative")
	ErrInvalidSize        = errors.New("invalid size definition")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrStoreUnavailable   = errors.New("store unavailable, try again later")
)

// translate maps a repository error kind onto a service error.
func translate(err error, kind, target error) error {
	if err != nil && errors.Is(err, kind) {
		return fmt.Errorf("%w: %w", target, err)
	}
	return err
}
