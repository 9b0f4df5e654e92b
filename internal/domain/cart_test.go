package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newItem(id int64, typ ItemType, vendorID int64, price string, qty int) LineItem {
	return LineItem{
		ItemID:     id,
		Type:       typ,
		VendorID:   vendorID,
		VendorName: "Bakery",
		Name:       "Item",
		UnitPrice:  decimal.RequireFromString(price),
		Quantity:   qty,
	}
}

// ============================================================================
// Cart.Total Tests
// ============================================================================

func TestTotal_SingleItem(t *testing.T) {
	c := &Cart{
		Items: []LineItem{newItem(1, ItemTypeProduct, 1, "3.50", 2)},
	}
	assert.True(t, decimal.RequireFromString("7.00").Equal(c.Total()))
}

func TestTotal_MixedTypes(t *testing.T) {
	c := &Cart{
		Items: []LineItem{
			newItem(1, ItemTypeProduct, 1, "2.50", 2),
			newItem(7, ItemTypeSurplusBag, 2, "9.90", 1),
		},
	}
	// 5.00 + 9.90 = 14.90
	assert.True(t, decimal.RequireFromString("14.90").Equal(c.Total()))
}

func TestTotal_EmptyCart(t *testing.T) {
	c := &Cart{}
	assert.True(t, c.Total().IsZero())
}

// ============================================================================
// Cart.Count Tests
// ============================================================================

func TestCount_MultipleItems(t *testing.T) {
	c := &Cart{
		Items: []LineItem{
			newItem(1, ItemTypeProduct, 1, "1.00", 2),
			newItem(2, ItemTypeProduct, 1, "1.00", 3),
		},
	}
	assert.Equal(t, 5, c.Count())
}

func TestCount_EmptyCart(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, 0, c.Count())
	assert.True(t, c.IsEmpty())
}

// ============================================================================
// LineItem identity Tests
// ============================================================================

func TestSameLine_MatchIgnoresNameAndPrice(t *testing.T) {
	a := newItem(1, ItemTypeProduct, 1, "2.00", 1)
	b := newItem(1, ItemTypeProduct, 1, "5.00", 3)
	b.Name = "Renamed"
	assert.True(t, a.SameLine(b))
}

func TestSameLine_TypeDistinguishes(t *testing.T) {
	// A product and a surplus bag can share a numeric ID.
	a := newItem(1, ItemTypeProduct, 1, "2.00", 1)
	b := newItem(1, ItemTypeSurplusBag, 1, "2.00", 1)
	assert.False(t, a.SameLine(b))
}

func TestSameLine_VendorDistinguishes(t *testing.T) {
	a := newItem(1, ItemTypeProduct, 1, "2.00", 1)
	b := newItem(1, ItemTypeProduct, 2, "2.00", 1)
	assert.False(t, a.SameLine(b))
}

func TestFindIndex(t *testing.T) {
	c := &Cart{
		Items: []LineItem{
			newItem(1, ItemTypeProduct, 1, "2.00", 1),
			newItem(2, ItemTypeSurplusBag, 2, "8.00", 1),
		},
	}
	assert.Equal(t, 0, c.FindIndex(newItem(1, ItemTypeProduct, 1, "9.99", 5)))
	assert.Equal(t, 1, c.FindIndex(newItem(2, ItemTypeSurplusBag, 2, "8.00", 1)))
	assert.Equal(t, -1, c.FindIndex(newItem(3, ItemTypeProduct, 1, "1.00", 1)))
}

// ============================================================================
// LineItem.Valid / Cart.Prune Tests
// ============================================================================

func TestLineItemValid_MissingVendor(t *testing.T) {
	item := newItem(1, ItemTypeProduct, 0, "2.00", 1)
	assert.False(t, item.Valid())

	item = newItem(1, ItemTypeProduct, 1, "2.00", 1)
	item.VendorName = ""
	assert.False(t, item.Valid())
}

func TestLineItemValid_PlaceholderVendorName(t *testing.T) {
	item := newItem(1, ItemTypeProduct, 1, "2.00", 1)
	item.VendorName = "Unknown Bakery"
	assert.False(t, item.Valid())
}

func TestLineItemValid_UnknownType(t *testing.T) {
	item := newItem(1, "bundle", 1, "2.00", 1)
	assert.False(t, item.Valid())
}

func TestPrune_DropsOnlyInvalid(t *testing.T) {
	good := newItem(1, ItemTypeProduct, 1, "2.00", 1)
	bad := newItem(2, ItemTypeProduct, 0, "3.00", 1)
	c := &Cart{Items: []LineItem{good, bad}}

	dropped := c.Prune()

	assert.Equal(t, []LineItem{good}, c.Items)
	assert.Equal(t, []LineItem{bad}, dropped)
}

func TestPrune_AllValid(t *testing.T) {
	c := &Cart{
		Items: []LineItem{newItem(1, ItemTypeProduct, 1, "2.00", 1)},
	}
	assert.Nil(t, c.Prune())
	assert.Len(t, c.Items, 1)
}

// ============================================================================
// Cart.PartitionByVendor Tests
// ============================================================================

func TestPartitionByVendor_GroupsAndPreservesOrder(t *testing.T) {
	a1 := newItem(1, ItemTypeProduct, 1, "2.00", 1)
	b1 := newItem(2, ItemTypeProduct, 2, "3.00", 1)
	a2 := newItem(3, ItemTypeSurplusBag, 1, "8.00", 1)
	c := &Cart{Items: []LineItem{a1, b1, a2}}

	groups := c.PartitionByVendor()

	assert.Len(t, groups, 2)
	assert.Equal(t, int64(1), groups[0].VendorID)
	assert.Equal(t, []LineItem{a1, a2}, groups[0].Items)
	assert.Equal(t, int64(2), groups[1].VendorID)
	assert.Equal(t, []LineItem{b1}, groups[1].Items)
}

func TestPartitionByVendor_SingleVendor(t *testing.T) {
	c := &Cart{
		Items: []LineItem{
			newItem(1, ItemTypeProduct, 1, "2.00", 1),
			newItem(2, ItemTypeProduct, 1, "3.00", 2),
		},
	}
	groups := c.PartitionByVendor()
	assert.Len(t, groups, 1)
	assert.True(t, decimal.RequireFromString("8.00").Equal(groups[0].Total()))
}

func TestPartitionByVendor_EmptyCart(t *testing.T) {
	c := &Cart{}
	assert.Empty(t, c.PartitionByVendor())
}

func TestVendorNames_Distinct(t *testing.T) {
	i1 := newItem(1, ItemTypeProduct, 1, "2.00", 1)
	i1.VendorName = "Crumb & Crust"
	i2 := newItem(2, ItemTypeProduct, 2, "3.00", 1)
	i2.VendorName = "Le Fournil"
	i3 := newItem(3, ItemTypeSurplusBag, 1, "8.00", 1)
	i3.VendorName = "Crumb & Crust"
	c := &Cart{Items: []LineItem{i1, i2, i3}}

	assert.Equal(t, []string{"Crumb & Crust", "Le Fournil"}, c.VendorNames())
}
