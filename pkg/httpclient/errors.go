package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/ovenshare/storefront/pkg/errors"
)

// ExtractErrorMessage pulls a human-readable message out of an upstream
// error body. The marketplace API is not consistent about which field it
// uses, so the common keys are probed in order. Returns "" when nothing
// usable is found.
func ExtractErrorMessage(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	for _, key := range []string{"message", "msg", "error", "detail"} {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	return ""
}

// ParseResponseError reads the body of a non-2xx HTTP response and
// translates it into an appropriate AppError, preserving the upstream
// message when one can be extracted. The response body is fully consumed
// and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	if msg := ExtractErrorMessage(bodyBytes); msg != "" {
		return mapUpstreamError(resp.StatusCode, msg, serviceName)
	}

	// Fallback: unstructured error body.
	return fmt.Errorf("%s returned status %d: %s", serviceName, resp.StatusCode, string(bodyBytes))
}

// mapUpstreamError translates an upstream HTTP status into an AppError
// that preserves the error semantics.
func mapUpstreamError(status int, message, serviceName string) error {
	qualifiedMsg := fmt.Sprintf("%s: %s", serviceName, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(serviceName, message)
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualifiedMsg)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualifiedMsg)
	case status == http.StatusConflict:
		return apperrors.Conflict(qualifiedMsg)
	case status == http.StatusUnprocessableEntity:
		return apperrors.Unprocessable("UPSTREAM_REJECTED", qualifiedMsg)
	case status == http.StatusServiceUnavailable:
		return apperrors.Unavailable(qualifiedMsg)
	case status >= 500:
		return fmt.Errorf("%s server error (%d): %s", serviceName, status, message)
	default:
		return &apperrors.AppError{
			Code:    "UPSTREAM_ERROR",
			Message: qualifiedMsg,
			Status:  status,
		}
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
