package repository

import (
	"context"
	"errors"

	"github.com/ovenshare/storefront/internal/domain"
)

// ErrCorruptCart signals that the persisted cart payload could not be
// decoded. Callers treat this as an empty cart rather than a failure.
var ErrCorruptCart = errors.New("corrupt cart payload")

// CartRepository defines the interface for cart persistence operations.
// Carts are keyed by device ID; the owner marker records which identity
// the persisted cart belongs to.
type CartRepository interface {
	// Get retrieves the cart for a device.
	Get(ctx context.Context, deviceID string) (*domain.Cart, error)

	// Save persists the cart for a device, overwriting any existing one.
	Save(ctx context.Context, deviceID string, cart *domain.Cart) error

	// Delete removes the cart for a device.
	Delete(ctx context.Context, deviceID string) error

	// GetOwner returns the identity the device's cart was written under.
	GetOwner(ctx context.Context, deviceID string) (string, error)

	// SetOwner records the identity the device's cart belongs to.
	SetOwner(ctx context.Context, deviceID, owner string) error

	// DeleteOwner removes the device's owner marker.
	DeleteOwner(ctx context.Context, deviceID string) error
}
