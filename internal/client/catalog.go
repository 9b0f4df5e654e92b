package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ovenshare/storefront/internal/domain"
	"github.com/ovenshare/storefront/pkg/httpclient"
)

// CatalogClient reads vendors, products, surplus bags and reviews from
// the marketplace API.
type CatalogClient struct {
	http    HTTPDoer
	baseURL string
}

// NewCatalogClient creates a catalog client against the given base URL.
func NewCatalogClient(httpDoer HTTPDoer, baseURL string) *CatalogClient {
	return &CatalogClient{
		http:    httpDoer,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ListVendors returns all vendors, optionally filtered by tags.
func (c *CatalogClient) ListVendors(ctx context.Context, tags []string) ([]domain.Vendor, error) {
	endpoint := c.baseURL + "/bakery"
	if len(tags) > 0 {
		params := url.Values{}
		params.Set("tags", strings.Join(tags, ","))
		endpoint += "?" + params.Encode()
	}

	var vendors []domain.Vendor
	if err := c.getJSON(ctx, endpoint, "catalog", &vendors); err != nil {
		return nil, err
	}
	return vendors, nil
}

// GetVendor returns a single vendor with its nested products and bags.
func (c *CatalogClient) GetVendor(ctx context.Context, id int64) (*domain.Vendor, error) {
	endpoint := c.baseURL + "/bakery/" + strconv.FormatInt(id, 10)

	var vendor domain.Vendor
	if err := c.getJSON(ctx, endpoint, "catalog", &vendor); err != nil {
		return nil, err
	}
	return &vendor, nil
}

// ListProducts returns products, optionally scoped to a vendor and
// filtered by tags.
func (c *CatalogClient) ListProducts(ctx context.Context, vendorID int64, tags []string) ([]domain.Product, error) {
	params := url.Values{}
	if vendorID > 0 {
		params.Set("bakery_id", strconv.FormatInt(vendorID, 10))
	}
	if len(tags) > 0 {
		params.Set("tags", strings.Join(tags, ","))
	}

	endpoint := c.baseURL + "/product"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var products []domain.Product
	if err := c.getJSON(ctx, endpoint, "catalog", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListSurplusBags returns surplus bags, optionally filtered by tags.
func (c *CatalogClient) ListSurplusBags(ctx context.Context, tags []string) ([]domain.SurplusBag, error) {
	endpoint := c.baseURL + "/surplus_bag"
	if len(tags) > 0 {
		params := url.Values{}
		params.Set("tags", strings.Join(tags, ","))
		endpoint += "?" + params.Encode()
	}

	// The upstream nests the owning bakery; flatten it so downstream
	// code only sees vendor ID and name.
	var raw []struct {
		domain.SurplusBag
		Bakery *struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"bakery"`
	}
	if err := c.getJSON(ctx, endpoint, "catalog", &raw); err != nil {
		return nil, err
	}

	bags := make([]domain.SurplusBag, 0, len(raw))
	for _, r := range raw {
		bag := r.SurplusBag
		if r.Bakery != nil && r.Bakery.ID > 0 {
			bag.VendorID = r.Bakery.ID
			bag.VendorName = r.Bakery.Name
		}
		bags = append(bags, bag)
	}
	return bags, nil
}

// ListReviews returns the reviews for a vendor.
func (c *CatalogClient) ListReviews(ctx context.Context, vendorID int64) ([]domain.Review, error) {
	params := url.Values{}
	params.Set("bakery_id", strconv.FormatInt(vendorID, 10))
	endpoint := c.baseURL + "/review?" + params.Encode()

	var reviews []domain.Review
	if err := c.getJSON(ctx, endpoint, "catalog", &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReviewInput is the payload for submitting a vendor review.
type CreateReviewInput struct {
	VendorID int64  `json:"bakery_id"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// CreateReview submits a review on behalf of the signed-in caller.
func (c *CatalogClient) CreateReview(ctx context.Context, input CreateReviewInput) (*domain.Review, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal review: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/review", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create review request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	attachAuth(ctx, req)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, httpclient.ParseResponseError(resp, "catalog")
	}

	var review domain.Review
	if err := json.NewDecoder(resp.Body).Decode(&review); err != nil {
		return nil, fmt.Errorf("decode review response: %w", err)
	}
	return &review, nil
}

func (c *CatalogClient) getJSON(ctx context.Context, endpoint, serviceName string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("create %s request: %w", serviceName, err)
	}
	attachAuth(ctx, req)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call %s: %w", serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, serviceName)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s response: %w", serviceName, err)
	}
	return nil
}
