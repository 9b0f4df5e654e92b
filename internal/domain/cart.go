package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemType distinguishes regular products from discounted surplus bags.
type ItemType string

const (
	ItemTypeProduct    ItemType = "product"
	ItemTypeSurplusBag ItemType = "surplus_bag"
)

// Valid reports whether the item type is one of the known kinds.
func (t ItemType) Valid() bool {
	return t == ItemTypeProduct || t == ItemTypeSurplusBag
}

// LineItem is a single entry in the cart. Items from different vendors
// coexist in one cart; the vendor fields are what checkout partitions on.
type LineItem struct {
	ItemID     int64           `json:"item_id"`
	Type       ItemType        `json:"item_type"`
	VendorID   int64           `json:"vendor_id"`
	VendorName string          `json:"vendor_name"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	ImageURL   string          `json:"image_url,omitempty"`
}

// placeholderVendorName is what older clients wrote when vendor lookup
// failed. Entries carrying it are as unroutable as ones with no name.
const placeholderVendorName = "Unknown Bakery"

// Valid reports whether the line item carries everything checkout needs.
// Entries missing vendor attribution cannot be routed to an order.
func (li LineItem) Valid() bool {
	return li.ItemID > 0 &&
		li.Type.Valid() &&
		li.VendorID > 0 &&
		li.VendorName != "" &&
		li.VendorName != placeholderVendorName &&
		li.Quantity > 0
}

// Subtotal is the line price for the full quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// SameLine reports whether other refers to the same sellable unit.
// Identity is the (item, type, vendor) triple; name and price are not
// part of it, so a renamed or repriced catalog entry still merges.
func (li LineItem) SameLine(other LineItem) bool {
	return li.ItemID == other.ItemID &&
		li.Type == other.Type &&
		li.VendorID == other.VendorID
}

// Cart is the device-scoped shopping cart.
type Cart struct {
	Items     []LineItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Total calculates the combined price of all items in the cart.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Count returns the total number of units in the cart.
func (c *Cart) Count() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart holds no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindIndex returns the index of the line matching item, or -1 if absent.
func (c *Cart) FindIndex(item LineItem) int {
	for i := range c.Items {
		if c.Items[i].SameLine(item) {
			return i
		}
	}
	return -1
}

// Prune splits the cart's items into valid entries, which it keeps, and
// invalid ones, which it returns. Entries written by older clients can
// lack vendor attribution; those must not reach checkout.
func (c *Cart) Prune() []LineItem {
	valid := c.Items[:0:0]
	var dropped []LineItem
	for _, item := range c.Items {
		if item.Valid() {
			valid = append(valid, item)
		} else {
			dropped = append(dropped, item)
		}
	}
	c.Items = valid
	return dropped
}

// VendorGroup is the slice of a cart belonging to a single vendor.
type VendorGroup struct {
	VendorID   int64
	VendorName string
	Items      []LineItem
}

// Total calculates the combined price of the group's items.
func (g VendorGroup) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range g.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// PartitionByVendor groups the cart's items by vendor, preserving the
// order in which each vendor first appears in the cart.
func (c *Cart) PartitionByVendor() []VendorGroup {
	var groups []VendorGroup
	index := make(map[int64]int)
	for _, item := range c.Items {
		i, ok := index[item.VendorID]
		if !ok {
			i = len(groups)
			index[item.VendorID] = i
			groups = append(groups, VendorGroup{
				VendorID:   item.VendorID,
				VendorName: item.VendorName,
			})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// VendorNames returns the distinct vendor names in cart order.
func (c *Cart) VendorNames() []string {
	seen := make(map[int64]bool)
	var names []string
	for _, item := range c.Items {
		if !seen[item.VendorID] {
			seen[item.VendorID] = true
			names = append(names, item.VendorName)
		}
	}
	return names
}
