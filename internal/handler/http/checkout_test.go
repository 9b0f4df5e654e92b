package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ovenshare/storefront/internal/domain"
	"github.com/ovenshare/storefront/internal/service"
)

// ============================================================================
// Mock order submitter
// ============================================================================

type stubOrderSubmitter struct {
	mu          sync.Mutex
	failVendors map[int64]error
	submitted   []domain.OrderRequest
}

func (s *stubOrderSubmitter) Create(_ context.Context, order domain.OrderRequest) (*domain.Order, error) {
	if err, ok := s.failVendors[order.VendorID]; ok {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitted = append(s.submitted, order)
	return &domain.Order{ID: order.VendorID, VendorID: order.VendorID, Status: "pending"}, nil
}

// ============================================================================
// Test helpers
// ============================================================================

func testCheckoutHandler(repo *mockCartRepository, orders *stubOrderSubmitter) *CheckoutHandler {
	cartSvc := testCartService(repo)
	svc := service.NewCheckoutService(cartSvc, orders, testEventProducer(), testLogger(), 2*time.Hour)
	return NewCheckoutHandler(svc, testLogger())
}

func setupCheckoutRouter(handler *CheckoutHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(Session)
		r.Use(DeviceIDFromHeader)
		r.Post("/api/v1/checkout", handler.Checkout)
	})
	return r
}

func twoVendorCart() *domain.Cart {
	return &domain.Cart{
		Items: []domain.LineItem{
			{
				ItemID:     1,
				Type:       domain.ItemTypeProduct,
				VendorID:   10,
				VendorName: "Crumb & Crust",
				Name:       "Baguette",
				UnitPrice:  decimal.RequireFromString("3.00"),
				Quantity:   2,
			},
			{
				ItemID:     2,
				Type:       domain.ItemTypeSurplusBag,
				VendorID:   20,
				VendorName: "Le Fournil",
				Name:       "Evening Surprise Bag",
				UnitPrice:  decimal.RequireFromString("4.99"),
				Quantity:   1,
			},
		},
	}
}

// ============================================================================
// POST /api/v1/checkout
// ============================================================================

func TestHandlerCheckout_Success(t *testing.T) {
	repo := new(mockCartRepository)
	orders := &stubOrderSubmitter{}
	router := setupCheckoutRouter(testCheckoutHandler(repo, orders))

	expectAnonymousLoad(repo, twoVendorCart())
	repo.On("Delete", mock.Anything, testDevice).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.Header.Set("X-Device-ID", testDevice)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var conf checkoutResponse
	require.NoError(t, json.Unmarshal(raw, &conf))

	assert.Equal(t, 2, conf.OrderCount)
	assert.Equal(t, 3, conf.ItemCount)
	assert.Equal(t, []string{"Crumb & Crust", "Le Fournil"}, conf.VendorNames)
	assert.True(t, strings.HasPrefix(conf.PaymentReference, "mock_pi_"))
	assert.WithinDuration(t, time.Now().UTC().Add(2*time.Hour), conf.PickupTime, time.Minute)

	require.Len(t, orders.submitted, 2)
	repo.AssertExpectations(t)
}

func TestHandlerCheckout_SuppliedPaymentReference_PassedThrough(t *testing.T) {
	repo := new(mockCartRepository)
	orders := &stubOrderSubmitter{}
	router := setupCheckoutRouter(testCheckoutHandler(repo, orders))

	expectAnonymousLoad(repo, twoVendorCart())
	repo.On("Delete", mock.Anything, testDevice).Return(nil)

	body := bytes.NewReader([]byte(`{"payment_reference":"pi_live_777"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-ID", testDevice)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var conf checkoutResponse
	require.NoError(t, json.Unmarshal(raw, &conf))
	assert.Equal(t, "pi_live_777", conf.PaymentReference)

	require.Len(t, orders.submitted, 2)
	for _, order := range orders.submitted {
		assert.Equal(t, "pi_live_777", order.PaymentIntentID)
	}
}

func TestHandlerCheckout_MalformedBody_Returns400(t *testing.T) {
	repo := new(mockCartRepository)
	orders := &stubOrderSubmitter{}
	router := setupCheckoutRouter(testCheckoutHandler(repo, orders))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader([]byte(`{broken`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-ID", testDevice)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, orders.submitted)
}

func TestHandlerCheckout_EmptyCart_Returns422(t *testing.T) {
	repo := new(mockCartRepository)
	orders := &stubOrderSubmitter{}
	router := setupCheckoutRouter(testCheckoutHandler(repo, orders))

	expectAnonymousLoad(repo, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.Header.Set("X-Device-ID", testDevice)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EMPTY_CART", resp.Error.Code)
	assert.Empty(t, orders.submitted)
}

func TestHandlerCheckout_PartialFailure_Returns502(t *testing.T) {
	repo := new(mockCartRepository)
	orders := &stubOrderSubmitter{
		failVendors: map[int64]error{20: errors.New("bakery closed for the day")},
	}
	router := setupCheckoutRouter(testCheckoutHandler(repo, orders))

	expectAnonymousLoad(repo, twoVendorCart())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.Header.Set("X-Device-ID", testDevice)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body struct {
		Error submissionErrorResponse `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ORDER_SUBMISSION_FAILED", body.Error.Code)
	assert.Equal(t, []string{"Le Fournil"}, body.Error.FailedVendors)
	assert.Equal(t, []string{"Crumb & Crust"}, body.Error.SucceededVendors)
	assert.Contains(t, body.Error.Message, "Le Fournil")

	// The cart must survive a failed attempt; Delete is never called.
	repo.AssertNotCalled(t, "Delete", mock.Anything, testDevice)
}

func TestHandlerCheckout_MissingDeviceID_Returns400(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCheckoutRouter(testCheckoutHandler(repo, &stubOrderSubmitter{}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
