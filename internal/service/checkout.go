package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ovenshare/storefront/internal/domain"
	"github.com/ovenshare/storefront/internal/event"
	apperrors "github.com/ovenshare/storefront/pkg/errors"
)

// OrderSubmitter is the slice of the order client checkout needs.
type OrderSubmitter interface {
	Create(ctx context.Context, order domain.OrderRequest) (*domain.Order, error)
}

// CartClearer is the slice of the cart service checkout needs after a
// successful submission.
type CartClearer interface {
	ClearCart(ctx context.Context, deviceID string) error
}

// SubmissionError reports a checkout where at least one vendor's order
// failed. Orders already placed are not rolled back; the error names
// both sides so the caller can act on the gap.
type SubmissionError struct {
	Succeeded []string
	Failed    []string
	Causes    []error
}

func (e *SubmissionError) Error() string {
	msg := fmt.Sprintf("order submission failed for %s", strings.Join(e.Failed, ", "))
	if len(e.Causes) > 0 {
		msg += ": " + e.Causes[0].Error()
	}
	return msg
}

func (e *SubmissionError) Unwrap() error {
	if len(e.Causes) > 0 {
		return e.Causes[0]
	}
	return nil
}

// CheckoutService partitions a cart into one order per vendor and
// submits them.
type CheckoutService struct {
	cart         *CartService
	orders       OrderSubmitter
	clearer      CartClearer
	producer     *event.Producer
	logger       *slog.Logger
	pickupOffset time.Duration
}

// NewCheckoutService creates a new checkout service. The pickup offset
// is how far from now the pickup slot is scheduled.
func NewCheckoutService(
	cart *CartService,
	orders OrderSubmitter,
	producer *event.Producer,
	logger *slog.Logger,
	pickupOffset time.Duration,
) *CheckoutService {
	return &CheckoutService{
		cart:         cart,
		orders:       orders,
		clearer:      cart,
		producer:     producer,
		logger:       logger,
		pickupOffset: pickupOffset,
	}
}

// Validate checks that the cart is submittable. An empty cart and a cart
// still carrying unroutable lines are both terminal for the attempt; the
// caller must fix the cart and retry.
func (s *CheckoutService) Validate(cart *domain.Cart) error {
	if cart.IsEmpty() {
		return apperrors.Unprocessable("EMPTY_CART", "cart is empty")
	}
	for _, item := range cart.Items {
		if !item.Valid() {
			return apperrors.Unprocessable("CORRUPT_CART", "cart contains items missing vendor information")
		}
	}
	return nil
}

// PickupTime computes the scheduled pickup slot for a checkout started
// now.
func (s *CheckoutService) PickupTime(now time.Time) time.Time {
	return now.UTC().Add(s.pickupOffset)
}

// NewPaymentReference issues a mock payment reference. Real payment
// capture happens upstream; the reference only correlates the vendor
// orders of one checkout.
func NewPaymentReference() string {
	return "mock_pi_" + uuid.New().String()
}

// Checkout validates the device's cart, partitions it by vendor and
// submits all vendor orders concurrently. Every submission must succeed:
// on full success the cart is cleared and a confirmation returned; on
// any failure the cart is left untouched and the error names the vendors
// whose orders did and did not go through. There is no rollback of
// orders already placed.
func (s *CheckoutService) Checkout(ctx context.Context, deviceID string, pickupTime time.Time, paymentReference string) (*domain.Confirmation, error) {
	if deviceID == "" {
		return nil, apperrors.InvalidInput("device id is required")
	}

	cart, err := s.cart.GetCart(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	if err := s.Validate(cart); err != nil {
		return nil, err
	}

	groups := cart.PartitionByVendor()

	type result struct {
		vendorName string
		err        error
	}
	results := make([]result, len(groups))

	var wg sync.WaitGroup
	for i, group := range groups {
		wg.Add(1)
		go func(i int, group domain.VendorGroup) {
			defer wg.Done()
			order := domain.NewOrderRequest(group, pickupTime, paymentReference)
			_, err := s.orders.Create(ctx, order)
			results[i] = result{vendorName: group.VendorName, err: err}
		}(i, group)
	}
	wg.Wait()

	var succeeded, failed []string
	var causes []error
	for _, r := range results {
		if r.err != nil {
			failed = append(failed, r.vendorName)
			causes = append(causes, r.err)
		} else {
			succeeded = append(succeeded, r.vendorName)
		}
	}

	if len(failed) > 0 {
		subErr := &SubmissionError{Succeeded: succeeded, Failed: failed, Causes: causes}

		if err := s.producer.PublishCheckoutFailed(ctx, deviceID, failed, subErr.Error()); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish checkout.failed event",
				slog.String("device_id", deviceID),
				slog.String("error", err.Error()),
			)
		}

		s.logger.WarnContext(ctx, "checkout failed",
			slog.String("device_id", deviceID),
			slog.Any("failed_vendors", failed),
			slog.Any("succeeded_vendors", succeeded),
		)

		return nil, subErr
	}

	conf := &domain.Confirmation{
		PickupTime:  pickupTime,
		VendorNames: cart.VendorNames(),
		ItemCount:   cart.Count(),
		OrderCount:  len(groups),
	}

	if err := s.clearer.ClearCart(ctx, deviceID); err != nil {
		// Orders are placed; a stale cart is the lesser problem.
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			slog.String("device_id", deviceID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishCheckoutCompleted(ctx, deviceID, conf); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish checkout.completed event",
			slog.String("device_id", deviceID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "checkout completed",
		slog.String("device_id", deviceID),
		slog.Int("order_count", len(groups)),
		slog.Int("item_count", conf.ItemCount),
	)

	return conf, nil
}
