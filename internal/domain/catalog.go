package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TagList is a list of catalog tags. The upstream API serves tags either
// as a JSON array or as a single comma-separated string; both decode into
// the same canonical []string so nothing downstream has to care.
type TagList []string

// UnmarshalJSON accepts ["a","b"], "a, b", or null.
func (t *TagList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = nil
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	*t = tags
	return nil
}

// Vendor is a bakery listed on the marketplace.
type Vendor struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Address     string     `json:"address,omitempty"`
	Tags        TagList    `json:"tags,omitempty"`
	Products    []Product  `json:"products,omitempty"`
	SurplusBags []SurplusBag `json:"surplus_bags,omitempty"`
}

// Product is an individually priced catalog item owned by a vendor.
type Product struct {
	ID          int64           `json:"id"`
	VendorID    int64           `json:"bakery_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Tags        TagList         `json:"tags,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
}

// SurplusBag is a discounted end-of-day bundle. Its title and sale price
// stand in for a product's name and price when it enters the cart.
type SurplusBag struct {
	ID          int64           `json:"id"`
	VendorID    int64           `json:"bakery_id"`
	VendorName  string          `json:"bakery_name,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	Tags        TagList         `json:"tags,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
}

// Review is a customer review of a vendor.
type Review struct {
	ID        int64     `json:"id"`
	VendorID  int64     `json:"bakery_id"`
	UserName  string    `json:"user_name,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// AverageRating computes the mean rating across reviews, zero when empty.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
