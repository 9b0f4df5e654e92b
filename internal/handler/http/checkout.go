package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ovenshare/storefront/internal/service"
	"github.com/ovenshare/storefront/pkg/httputil"
)

// CheckoutHandler handles HTTP requests for checkout.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// checkoutRequest is the optional JSON request body. A caller that
// already holds a payment reference passes it through; otherwise a mock
// one is issued for the attempt.
type checkoutRequest struct {
	PaymentReference string `json:"payment_reference"`
}

// checkoutResponse is the confirmation payload on full success.
type checkoutResponse struct {
	PickupTime       time.Time `json:"pickup_time"`
	VendorNames      []string  `json:"vendor_names"`
	ItemCount        int       `json:"item_count"`
	OrderCount       int       `json:"order_count"`
	PaymentReference string    `json:"payment_reference"`
}

// submissionErrorResponse reports a partially or fully failed checkout.
// Orders already placed are listed so the caller can reconcile.
type submissionErrorResponse struct {
	Code             string   `json:"code"`
	Message          string   `json:"message"`
	FailedVendors    []string `json:"failed_vendors"`
	SucceededVendors []string `json:"succeeded_vendors,omitempty"`
}

// Checkout handles POST /api/v1/checkout. The pickup slot is scheduled a
// fixed offset from now; the payment reference comes from the request
// body or a mock one is issued. Both are passed through to every vendor
// order of the attempt.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "request body must be valid JSON"},
			})
			return
		}
	}

	pickupTime := h.service.PickupTime(time.Now())
	paymentRef := req.PaymentReference
	if paymentRef == "" {
		paymentRef = service.NewPaymentReference()
	}

	conf, err := h.service.Checkout(r.Context(), deviceIDFromContext(r.Context()), pickupTime, paymentRef)
	if err != nil {
		var subErr *service.SubmissionError
		if errors.As(err, &subErr) {
			httputil.WriteJSON(w, http.StatusBadGateway, map[string]any{
				"error": submissionErrorResponse{
					Code:             "ORDER_SUBMISSION_FAILED",
					Message:          subErr.Error(),
					FailedVendors:    subErr.Failed,
					SucceededVendors: subErr.Succeeded,
				},
			})
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: checkoutResponse{
		PickupTime:       conf.PickupTime,
		VendorNames:      conf.VendorNames,
		ItemCount:        conf.ItemCount,
		OrderCount:       conf.OrderCount,
		PaymentReference: paymentRef,
	}})
}
