package auth

import (
	"context"
	"net/http"
	"strings"
)

// HeaderUserID carries the authenticated attendee id. The portal edge
// validates the session and injects this header; the backend trusts it
// without re-validating.
const HeaderUserID = "X-User-ID"

type identityKey struct{}

// WithIdentity returns a context carrying the attendee id.
func WithIdentity(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, identityKey{}, userID)
}

// Identity returns the attendee id from the context, empty when the request
// was unauthenticated.
func Identity(ctx context.Context) string {
	id, _ := ctx.Value(identityKey{}).(string)
	return id
}

// Middleware copies the identity header into the request context. Handlers
// that require a caller reject requests without one; public reads pass
// through untouched.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := strings.TrimSpace(r.Header.Get(HeaderUserID)); id != "" {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
