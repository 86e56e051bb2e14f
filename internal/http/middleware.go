package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Courage4/market-trader-platform-sub001/internal/rbac"
	"github.com/google/uuid"
)

// MockAuthMiddleware simulates JWT authentication (replace with real JWT validation)
// The caller's email arrives in X-User-Email; the role is derived from it
// the same way the login screen does. A real identity provider would issue
// the role as a claim instead.
func MockAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email := r.Header.Get("X-User-Email")
		if email == "" {
			next.ServeHTTP(w, r)
			return
		}

		ident := identityFromEmail(email)
		ctx := context.WithValue(r.Context(), "identity", ident)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func identityFromEmail(email string) rbac.Identity {
	name := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		name = email[:at]
	}
	return rbac.Identity{
		ID:    uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.ToLower(email))).String(),
		Name:  name,
		Email: email,
		Role:  rbac.DeriveRole(email),
	}
}

// RequireRole converts a permission miss into a 403 before the handler
// runs. The permitted sets live in the rbac package.
func RequireRole(target rbac.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := identityFromContext(r.Context())
			if !ok {
				respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
				return
			}
			if !rbac.HasPermission(ident.Role, target) {
				respondError(w, http.StatusForbidden, "permission_denied", fmt.Sprintf("role %s may not access %s routes", ident.Role, target))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), "request_id", requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func identityFromContext(ctx context.Context) (rbac.Identity, bool) {
	ident, ok := ctx.Value("identity").(rbac.Identity)
	return ident, ok
}
