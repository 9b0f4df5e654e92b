package httpclient

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ovenshare/storefront/pkg/errors"
)

// makeResponse creates an *http.Response with the given status code and body string.
func makeResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestExtractErrorMessage_ProbesKeysInOrder(t *testing.T) {
	assert.Equal(t, "a", ExtractErrorMessage([]byte(`{"message":"a","error":"b"}`)))
	assert.Equal(t, "b", ExtractErrorMessage([]byte(`{"msg":"b"}`)))
	assert.Equal(t, "c", ExtractErrorMessage([]byte(`{"error":"c"}`)))
	assert.Equal(t, "d", ExtractErrorMessage([]byte(`{"detail":"d"}`)))
}

func TestExtractErrorMessage_SkipsNonStringValues(t *testing.T) {
	// Some endpoints nest an object under "error"; fall through to the
	// next usable key.
	body := []byte(`{"error":{"code":500},"detail":"insufficient stock"}`)
	assert.Equal(t, "insufficient stock", ExtractErrorMessage(body))
}

func TestExtractErrorMessage_NothingUsable(t *testing.T) {
	assert.Empty(t, ExtractErrorMessage([]byte(`{"status":"failed"}`)))
	assert.Empty(t, ExtractErrorMessage([]byte(`not json`)))
	assert.Empty(t, ExtractErrorMessage([]byte(`{"message":"   "}`)))
}

func TestParseResponseError_NotFound(t *testing.T) {
	resp := makeResponse(http.StatusNotFound, `{"detail":"bakery not found"}`)
	err := ParseResponseError(resp, "catalog")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestParseResponseError_BadRequest(t *testing.T) {
	resp := makeResponse(http.StatusBadRequest, `{"message":"pickup_time is required"}`)
	err := ParseResponseError(resp, "orders")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Contains(t, appErr.Message, "orders")
	assert.Contains(t, appErr.Message, "pickup_time is required")
}

func TestParseResponseError_Unauthorized(t *testing.T) {
	resp := makeResponse(http.StatusUnauthorized, `{"error":"token expired"}`)
	err := ParseResponseError(resp, "orders")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestParseResponseError_ServerError(t *testing.T) {
	resp := makeResponse(http.StatusInternalServerError, `{"message":"boom"}`)
	err := ParseResponseError(resp, "orders")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error")
	assert.Contains(t, err.Error(), "boom")
}

func TestParseResponseError_UnstructuredBody(t *testing.T) {
	resp := makeResponse(http.StatusBadGateway, "upstream timeout")
	err := ParseResponseError(resp, "catalog")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream timeout")
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(http.StatusBadRequest))
	assert.True(t, IsClientError(http.StatusNotFound))
	assert.False(t, IsClientError(http.StatusInternalServerError))
	assert.False(t, IsClientError(http.StatusOK))
}
