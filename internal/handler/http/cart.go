package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ovenshare/storefront/internal/domain"
	"github.com/ovenshare/storefront/internal/service"
	"github.com/ovenshare/storefront/pkg/httputil"
	"github.com/ovenshare/storefront/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding an item to the cart.
type AddItemRequest struct {
	ItemID     int64           `json:"item_id" validate:"required,gt=0"`
	ItemType   string          `json:"item_type" validate:"required,oneof=product surplus_bag"`
	VendorID   int64           `json:"vendor_id" validate:"required,gt=0"`
	VendorName string          `json:"vendor_name" validate:"required,max=500"`
	Name       string          `json:"name" validate:"required,min=1,max=500"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	ImageURL   string          `json:"image_url"`
}

// UpdateQuantityRequest is the JSON request body for setting a line's quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// cartView is the response payload for cart reads and mutations.
type cartView struct {
	Items []domain.LineItem `json:"items"`
	Count int               `json:"count"`
	Total decimal.Decimal   `json:"total"`
}

func newCartView(cart *domain.Cart) cartView {
	items := cart.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return cartView{
		Items: items,
		Count: cart.Count(),
		Total: cart.Total(),
	}
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.GetCart(r.Context(), deviceIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartView(cart)})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	if req.UnitPrice.IsNegative() {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "unit_price must not be negative"},
		})
		return
	}

	input := service.AddItemInput{
		ItemID:     req.ItemID,
		Type:       domain.ItemType(req.ItemType),
		VendorID:   req.VendorID,
		VendorName: req.VendorName,
		Name:       req.Name,
		UnitPrice:  req.UnitPrice,
		ImageURL:   req.ImageURL,
	}

	cart, err := h.service.AddItem(r.Context(), deviceIDFromContext(r.Context()), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartView(cart)})
}

// UpdateQuantity handles PUT /api/v1/cart/items/{itemType}/{vendorId}/{itemId}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	key, ok := h.itemKeyFromURL(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.UpdateQuantity(r.Context(), deviceIDFromContext(r.Context()), key, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartView(cart)})
}

// RemoveItem handles DELETE /api/v1/cart/items/{itemType}/{vendorId}/{itemId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	key, ok := h.itemKeyFromURL(w, r)
	if !ok {
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), deviceIDFromContext(r.Context()), key)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartView(cart)})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearCart(r.Context(), deviceIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}

// Logout handles POST /api/v1/session/logout: clears the cart and drops
// the identity binding so the next account on this device starts fresh.
func (h *CartHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearOnLogout(r.Context(), deviceIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "logged_out"}})
}

// --- Helpers ---

func (h *CartHandler) itemKeyFromURL(w http.ResponseWriter, r *http.Request) (service.ItemKey, bool) {
	itemType := domain.ItemType(chi.URLParam(r, "itemType"))
	if !itemType.Valid() {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "itemType must be product or surplus_bag"},
		})
		return service.ItemKey{}, false
	}

	vendorID, err := strconv.ParseInt(chi.URLParam(r, "vendorId"), 10, 64)
	if err != nil || vendorID <= 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "vendorId must be a positive integer"},
		})
		return service.ItemKey{}, false
	}

	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemId"), 10, 64)
	if err != nil || itemID <= 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "itemId must be a positive integer"},
		})
		return service.ItemKey{}, false
	}

	return service.ItemKey{ItemID: itemID, Type: itemType, VendorID: vendorID}, true
}
