package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ovenshare/storefront/internal/domain"
	"github.com/ovenshare/storefront/internal/event"
	"github.com/ovenshare/storefront/internal/repository"
	"github.com/ovenshare/storefront/internal/session"
	apperrors "github.com/ovenshare/storefront/pkg/errors"
)

// Cart operation upper-bound limits to prevent abuse.
const (
	// MaxItemsPerCart is the maximum number of distinct lines in a cart.
	MaxItemsPerCart = 50
	// MaxQuantityPerItem is the maximum quantity for a single line.
	MaxQuantityPerItem = 100
)

// AddItemInput holds the parameters for adding an item to the cart.
// Quantity is not part of the input: each add increments by one, matching
// the storefront's add-to-cart button.
type AddItemInput struct {
	ItemID     int64
	Type       domain.ItemType
	VendorID   int64
	VendorName string
	Name       string
	UnitPrice  decimal.Decimal
	ImageURL   string
}

// ItemKey identifies one cart line.
type ItemKey struct {
	ItemID   int64
	Type     domain.ItemType
	VendorID int64
}

// CartService implements the business logic for cart operations. Carts
// are scoped to a device and bound to the identity that last touched
// them; a device whose signed-in identity changes starts over with an
// empty cart rather than inheriting the previous account's contents.
type CartService struct {
	repo     repository.CartRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// load retrieves the device's cart, applying the identity check and
// corruption filtering. A persisted cart bound to a different identity
// is discarded. A payload that no longer decodes resets to empty rather
// than erroring. Lines missing vendor attribution are dropped and the
// cleaned cart re-persisted.
func (s *CartService) load(ctx context.Context, deviceID string) (*domain.Cart, error) {
	identity := session.IdentityFromContext(ctx)

	owner, err := s.repo.GetOwner(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("get cart owner: %w", err)
	}

	if owner != identity {
		if owner != "" {
			s.logger.InfoContext(ctx, "cart identity changed, discarding cart",
				slog.String("device_id", deviceID),
			)
			if err := s.repo.Delete(ctx, deviceID); err != nil {
				return nil, fmt.Errorf("discard cart on identity change: %w", err)
			}
		}
		if identity == "" {
			if err := s.repo.DeleteOwner(ctx, deviceID); err != nil {
				return nil, fmt.Errorf("clear cart owner: %w", err)
			}
		} else if err := s.repo.SetOwner(ctx, deviceID, identity); err != nil {
			return nil, fmt.Errorf("set cart owner: %w", err)
		}
		if owner != "" {
			return &domain.Cart{}, nil
		}
	}

	cart, err := s.repo.Get(ctx, deviceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.Cart{}, nil
		}
		if errors.Is(err, repository.ErrCorruptCart) {
			// Malformed stored data is treated as absent, not an error.
			s.logger.WarnContext(ctx, "persisted cart unreadable, resetting",
				slog.String("device_id", deviceID),
			)
			if err := s.repo.Delete(ctx, deviceID); err != nil {
				return nil, fmt.Errorf("reset corrupt cart: %w", err)
			}
			return &domain.Cart{}, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	if dropped := cart.Prune(); len(dropped) > 0 {
		s.logger.WarnContext(ctx, "dropped corrupt cart lines",
			slog.String("device_id", deviceID),
			slog.Int("dropped", len(dropped)),
		)
		if err := s.save(ctx, deviceID, cart); err != nil {
			return nil, err
		}
	}

	return cart, nil
}

func (s *CartService) save(ctx context.Context, deviceID string, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, deviceID, cart); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// GetCart retrieves the cart for a device. A device with no cart gets an
// empty one.
func (s *CartService) GetCart(ctx context.Context, deviceID string) (*domain.Cart, error) {
	if deviceID == "" {
		return nil, apperrors.InvalidInput("device id is required")
	}
	return s.load(ctx, deviceID)
}

// AddItem adds one unit of an item to the cart. If a line with the same
// (item, type, vendor) already exists its quantity increments and its
// stored name and price are kept, so a catalog reprice mid-session does
// not split or alter the line.
func (s *CartService) AddItem(ctx context.Context, deviceID string, input AddItemInput) (*domain.Cart, error) {
	if deviceID == "" {
		return nil, apperrors.InvalidInput("device id is required")
	}

	candidate := domain.LineItem{
		ItemID:     input.ItemID,
		Type:       input.Type,
		VendorID:   input.VendorID,
		VendorName: input.VendorName,
		Name:       input.Name,
		UnitPrice:  input.UnitPrice,
		Quantity:   1,
		ImageURL:   input.ImageURL,
	}
	if !candidate.Valid() {
		return nil, apperrors.InvalidInput("item is missing vendor attribution")
	}

	cart, err := s.load(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	if i := cart.FindIndex(candidate); i >= 0 {
		if cart.Items[i].Quantity >= MaxQuantityPerItem {
			return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
		}
		cart.Items[i].Quantity++
	} else {
		if len(cart.Items) >= MaxItemsPerCart {
			return nil, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", MaxItemsPerCart))
		}
		cart.Items = append(cart.Items, candidate)
	}

	if err := s.save(ctx, deviceID, cart); err != nil {
		return nil, err
	}

	s.publishUpdated(ctx, deviceID, cart)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("device_id", deviceID),
		slog.Int64("item_id", input.ItemID),
		slog.String("item_type", string(input.Type)),
		slog.Int64("vendor_id", input.VendorID),
	)

	return cart, nil
}

// UpdateQuantity sets the quantity of a cart line. A quantity of zero or
// less removes the line. Updating a line that is not in the cart is a
// no-op, not an error.
func (s *CartService) UpdateQuantity(ctx context.Context, deviceID string, key ItemKey, quantity int) (*domain.Cart, error) {
	if deviceID == "" {
		return nil, apperrors.InvalidInput("device id is required")
	}
	if quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	if quantity <= 0 {
		return s.RemoveItem(ctx, deviceID, key)
	}

	cart, err := s.load(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	i := cart.FindIndex(domain.LineItem{ItemID: key.ItemID, Type: key.Type, VendorID: key.VendorID})
	if i < 0 {
		return cart, nil
	}
	cart.Items[i].Quantity = quantity

	if err := s.save(ctx, deviceID, cart); err != nil {
		return nil, err
	}

	s.publishUpdated(ctx, deviceID, cart)

	s.logger.InfoContext(ctx, "cart line quantity updated",
		slog.String("device_id", deviceID),
		slog.Int64("item_id", key.ItemID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// RemoveItem removes a cart line. Removing a line that is not in the
// cart is a no-op, not an error.
func (s *CartService) RemoveItem(ctx context.Context, deviceID string, key ItemKey) (*domain.Cart, error) {
	if deviceID == "" {
		return nil, apperrors.InvalidInput("device id is required")
	}

	cart, err := s.load(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	i := cart.FindIndex(domain.LineItem{ItemID: key.ItemID, Type: key.Type, VendorID: key.VendorID})
	if i < 0 {
		return cart, nil
	}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)

	if err := s.save(ctx, deviceID, cart); err != nil {
		return nil, err
	}

	s.publishUpdated(ctx, deviceID, cart)

	s.logger.InfoContext(ctx, "cart line removed",
		slog.String("device_id", deviceID),
		slog.Int64("item_id", key.ItemID),
	)

	return cart, nil
}

// ClearCart removes all items and the persisted snapshot.
func (s *CartService) ClearCart(ctx context.Context, deviceID string) error {
	return s.clear(ctx, deviceID, "cleared")
}

// ClearOnLogout clears the cart and removes the identity marker, so the
// next signed-in user on this device starts fresh.
func (s *CartService) ClearOnLogout(ctx context.Context, deviceID string) error {
	if err := s.clear(ctx, deviceID, "logout"); err != nil {
		return err
	}
	if err := s.repo.DeleteOwner(ctx, deviceID); err != nil {
		return fmt.Errorf("delete cart owner: %w", err)
	}
	return nil
}

func (s *CartService) clear(ctx context.Context, deviceID, reason string) error {
	if deviceID == "" {
		return apperrors.InvalidInput("device id is required")
	}

	if err := s.repo.Delete(ctx, deviceID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, deviceID, reason); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("device_id", deviceID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("device_id", deviceID),
		slog.String("reason", reason),
	)

	return nil
}

// publishUpdated emits a cart.updated event; failures are logged, never
// surfaced, since the cart mutation itself already succeeded.
func (s *CartService) publishUpdated(ctx context.Context, deviceID string, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, deviceID, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("device_id", deviceID),
			slog.String("error", err.Error()),
		)
	}
}
