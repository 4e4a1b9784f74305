// internal/adapters/in/http/middleware/admin.go
package middleware

import (
	"context"
	"log"
	"net/http"
)

// AdminChecker answers whether uid holds the admin role in the user store.
type AdminChecker interface {
	IsAdmin(ctx context.Context, uid string) (bool, error)
}

// RequireAdmin must run after UserAuthMiddleware. The Firebase "admin" claim or the
// stored isAdmin flag grants access.
func RequireAdmin(checker AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, ok := CurrentUserUID(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if IsAdmin(r, checker) {
				next.ServeHTTP(w, r)
				return
			}
			log.Printf("[admin] forbidden uid=%s path=%s", uid, r.URL.Path)
			writeAuthError(w, http.StatusForbidden, "forbidden")
		})
	}
}

// IsAdmin reports the caller's admin role. Lookup failures deny.
func IsAdmin(r *http.Request, checker AdminChecker) bool {
	if CurrentUserAdminClaim(r) {
		return true
	}
	uid, ok := CurrentUserUID(r)
	if !ok || checker == nil {
		return false
	}
	admin, err := checker.IsAdmin(r.Context(), uid)
	if err != nil {
		log.Printf("[admin] isAdmin lookup failed uid=%s: %v", uid, err)
		return false
	}
	return admin
}

// Chain applies mws so that the first one is outermost.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
