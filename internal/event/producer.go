package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ovenshare/storefront/internal/domain"
	pkgkafka "github.com/ovenshare/storefront/pkg/kafka"
)

// Kafka topics for storefront domain events.
const (
	TopicCartUpdated       = "storefront.cart.updated"
	TopicCartCleared       = "storefront.cart.cleared"
	TopicCheckoutCompleted = "storefront.checkout.completed"
	TopicCheckoutFailed    = "storefront.checkout.failed"
)

const (
	AggregateTypeCart     = "cart"
	AggregateTypeCheckout = "checkout"
)

// Source identifier for events originating from this service.
const SourceStorefront = "storefront"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	DeviceID  string          `json:"device_id"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
	Vendors   []string        `json:"vendors"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	DeviceID string `json:"device_id"`
	Reason   string `json:"reason"`
}

// CheckoutCompletedData is the payload for a checkout.completed event.
type CheckoutCompletedData struct {
	DeviceID   string    `json:"device_id"`
	OrderCount int       `json:"order_count"`
	ItemCount  int       `json:"item_count"`
	Vendors    []string  `json:"vendors"`
	PickupTime time.Time `json:"pickup_time"`
}

// CheckoutFailedData is the payload for a checkout.failed event.
type CheckoutFailedData struct {
	DeviceID      string   `json:"device_id"`
	FailedVendors []string `json:"failed_vendors"`
	Reason        string   `json:"reason"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, deviceID string, cart *domain.Cart) error {
	data := CartUpdatedData{
		DeviceID:  deviceID,
		ItemCount: cart.Count(),
		Total:     cart.Total(),
		Vendors:   cart.VendorNames(),
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, deviceID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, deviceID, reason string) error {
	data := CartClearedData{DeviceID: deviceID, Reason: reason}

	event, err := pkgkafka.NewEvent(TopicCartCleared, deviceID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	return nil
}

// PublishCheckoutCompleted publishes a checkout.completed event.
func (p *Producer) PublishCheckoutCompleted(ctx context.Context, deviceID string, conf *domain.Confirmation) error {
	data := CheckoutCompletedData{
		DeviceID:   deviceID,
		OrderCount: conf.OrderCount,
		ItemCount:  conf.ItemCount,
		Vendors:    conf.VendorNames,
		PickupTime: conf.PickupTime,
	}

	event, err := pkgkafka.NewEvent(TopicCheckoutCompleted, deviceID, AggregateTypeCheckout, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create checkout.completed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCheckoutCompleted, event); err != nil {
		return fmt.Errorf("publish checkout.completed event: %w", err)
	}

	return nil
}

// PublishCheckoutFailed publishes a checkout.failed event.
func (p *Producer) PublishCheckoutFailed(ctx context.Context, deviceID string, failedVendors []string, reason string) error {
	data := CheckoutFailedData{
		DeviceID:      deviceID,
		FailedVendors: failedVendors,
		Reason:        reason,
	}

	event, err := pkgkafka.NewEvent(TopicCheckoutFailed, deviceID, AggregateTypeCheckout, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create checkout.failed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCheckoutFailed, event); err != nil {
		return fmt.Errorf("publish checkout.failed event: %w", err)
	}

	return nil
}
