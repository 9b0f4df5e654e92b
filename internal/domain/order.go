package domain

import "time"

// OrderItem is one line of an outbound order. Exactly one of ProductID or
// SurplusBagID is set, depending on the line item's type.
type OrderItem struct {
	ProductID    int64 `json:"product_id,omitempty"`
	SurplusBagID int64 `json:"surplus_bag_id,omitempty"`
	Quantity     int   `json:"quantity"`
}

// OrderRequest is the payload submitted upstream, one per vendor.
type OrderRequest struct {
	VendorID        int64       `json:"bakery_id"`
	Items           []OrderItem `json:"items"`
	PickupTime      time.Time   `json:"pickup_time"`
	PaymentIntentID string      `json:"payment_intent_id"`
}

// Order is a previously placed order as reported by the upstream API.
type Order struct {
	ID         int64       `json:"id"`
	VendorID   int64       `json:"bakery_id"`
	VendorName string      `json:"bakery_name,omitempty"`
	Status     string      `json:"status"`
	Items      []OrderItem `json:"items,omitempty"`
	PickupTime time.Time   `json:"pickup_time"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Confirmation summarizes a completed checkout across all vendors.
type Confirmation struct {
	PickupTime  time.Time `json:"pickup_time"`
	VendorNames []string  `json:"vendor_names"`
	ItemCount   int       `json:"item_count"`
	OrderCount  int       `json:"order_count"`
}

// NewOrderRequest builds the upstream payload for one vendor's slice of
// the cart. Product and surplus bag lines map to different ID fields on
// the wire.
func NewOrderRequest(group VendorGroup, pickupTime time.Time, paymentIntentID string) OrderRequest {
	items := make([]OrderItem, 0, len(group.Items))
	for _, li := range group.Items {
		item := OrderItem{Quantity: li.Quantity}
		if li.Type == ItemTypeSurplusBag {
			item.SurplusBagID = li.ItemID
		} else {
			item.ProductID = li.ItemID
		}
		items = append(items, item)
	}
	return OrderRequest{
		VendorID:        group.VendorID,
		Items:           items,
		PickupTime:      pickupTime,
		PaymentIntentID: paymentIntentID,
	}
}
