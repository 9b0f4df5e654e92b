package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ovenshare/storefront/internal/client"
	"github.com/ovenshare/storefront/internal/domain"
	"github.com/ovenshare/storefront/pkg/httputil"
	"github.com/ovenshare/storefront/pkg/validator"
)

// CatalogHandler proxies catalog and order-history reads to the
// marketplace API, normalizing its looser response shapes on the way
// through.
type CatalogHandler struct {
	catalog *client.CatalogClient
	orders  *client.OrderClient
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(catalog *client.CatalogClient, orders *client.OrderClient, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		orders:  orders,
		logger:  logger,
	}
}

// tagsParam splits a comma-separated tags query parameter.
func tagsParam(r *http.Request) []string {
	raw := r.URL.Query().Get("tags")
	if raw == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

// ListVendors handles GET /api/v1/bakeries
func (h *CatalogHandler) ListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.catalog.ListVendors(r.Context(), tagsParam(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if vendors == nil {
		vendors = []domain.Vendor{}
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: vendors})
}

// GetVendor handles GET /api/v1/bakeries/{id}
func (h *CatalogHandler) GetVendor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "id must be a positive integer"},
		})
		return
	}

	vendor, err := h.catalog.GetVendor(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: vendor})
}

// ListVendorReviews handles GET /api/v1/bakeries/{id}/reviews
func (h *CatalogHandler) ListVendorReviews(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "id must be a positive integer"},
		})
		return
	}

	reviews, err := h.catalog.ListReviews(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"reviews":        reviews,
		"average_rating": domain.AverageRating(reviews),
	}})
}

// CreateReviewRequest is the JSON request body for submitting a review.
type CreateReviewRequest struct {
	VendorID int64  `json:"vendor_id" validate:"required,gt=0"`
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment  string `json:"comment" validate:"required,max=2000"`
}

// CreateReview handles POST /api/v1/reviews
func (h *CatalogHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.catalog.CreateReview(r.Context(), client.CreateReviewInput{
		VendorID: req.VendorID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var vendorID int64
	if raw := r.URL.Query().Get("bakery_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "bakery_id must be a positive integer"},
			})
			return
		}
		vendorID = id
	}

	products, err := h.catalog.ListProducts(r.Context(), vendorID, tagsParam(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// ListSurplusBags handles GET /api/v1/surplus-bags
func (h *CatalogHandler) ListSurplusBags(w http.ResponseWriter, r *http.Request) {
	bags, err := h.catalog.ListSurplusBags(r.Context(), tagsParam(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if bags == nil {
		bags = []domain.SurplusBag{}
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: bags})
}

// ListOrders handles GET /api/v1/orders
func (h *CatalogHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: orders})
}
