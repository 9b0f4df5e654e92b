package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/ovenshare/storefront/internal/session"
	"github.com/ovenshare/storefront/pkg/httputil"
	"github.com/ovenshare/storefront/pkg/logger"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// deviceIDKey is the context key for the caller's device ID.
const deviceIDKey contextKey = "device_id"

// DeviceIDFromHeader reads the X-Device-ID header and stores it in the
// request context. Carts are scoped per device, so requests without the
// header are rejected.
func DeviceIDFromHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deviceID := r.Header.Get("X-Device-ID")
		if deviceID == "" {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-Device-ID header is required"},
			})
			return
		}
		ctx := context.WithValue(r.Context(), deviceIDKey, deviceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// deviceIDFromContext extracts the device ID from the request context.
func deviceIDFromContext(ctx context.Context) string {
	deviceID, _ := ctx.Value(deviceIDKey).(string)
	return deviceID
}

// Session extracts the bearer token from the Authorization header, when
// present, and stores the token and derived identity in the context.
// Anonymous requests pass through; the upstream API is the authority on
// whether a token is actually valid.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if token := session.BearerToken(r.Header.Get("Authorization")); token != "" {
			ctx = session.WithToken(ctx, token)
			if identity := session.IdentityFromToken(token); identity != "" {
				ctx = session.WithIdentity(ctx, identity)
				ctx = logger.WithUserID(ctx, identity)
			}
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ContentTypeJSON enforces that requests with a body have Content-Type
// application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNSUPPORTED_MEDIA_TYPE", Message: "Content-Type must be application/json"},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
