// internal/adapters/in/http/router.go
package httpin

import (
	"log"
	"net/http"
	"strings"

	"github.com/HydraRosario/vibeshoes/internal/adapters/in/http/middleware"
)

// RouterDeps is the handler set injected by the DI container.
type RouterDeps struct {
	Product      http.Handler
	AdminProduct http.Handler
	Category     http.Handler
	Review       http.Handler
	Profile      http.Handler
	Cart         http.Handler
	Order        http.Handler
	AdminOrder   http.Handler
	Image        http.Handler
	Payment      http.Handler
	WhatsApp     http.Handler
	Webhook      http.Handler

	// Auth verifies the Firebase ID token. Nil makes every protected route answer 500.
	Auth *middleware.UserAuthMiddleware
	// Admins resolves the stored isAdmin flag for RequireAdmin.
	Admins middleware.AdminChecker

	AllowedOrigin string
}

// handleSafe registers pattern with h.
// If h is nil, it logs and registers NotFoundHandler instead.
func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[shop.router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

// Register registers the shop routes onto mux.
func Register(mux *http.ServeMux, deps RouterDeps) {
	if mux == nil {
		return
	}

	auth := deps.Auth
	if auth == nil {
		auth = &middleware.UserAuthMiddleware{}
	}
	signedIn := func(h http.Handler) http.Handler {
		if h == nil {
			return nil
		}
		return auth.Handler(h)
	}
	adminOnly := func(h http.Handler) http.Handler {
		if h == nil {
			return nil
		}
		return auth.Handler(middleware.RequireAdmin(deps.Admins)(h))
	}

	// catalog (public), product reviews hang off /api/products/{id}/reviews
	catalog := productsDispatch(deps.Product, deps.Review, signedIn(deps.Review))
	handleSafe(mux, "/api/products", deps.Product, "Product")
	handleSafe(mux, "/api/products/", catalog, "Product")
	handleSafe(mux, "/api/categories", deps.Category, "Category")

	// buyer
	handleSafe(mux, "/api/cart", signedIn(deps.Cart), "Cart")
	handleSafe(mux, "/api/cart/", signedIn(deps.Cart), "Cart")
	handleSafe(mux, "/api/orders", signedIn(deps.Order), "Order")
	handleSafe(mux, "/api/orders/", signedIn(deps.Order), "Order")
	handleSafe(mux, "/api/reviews", signedIn(deps.Review), "Review")
	handleSafe(mux, "/api/reviews/", signedIn(deps.Review), "Review")
	handleSafe(mux, "/api/me/profile", signedIn(deps.Profile), "Profile")

	// payments + messaging
	handleSafe(mux, "/api/payments/create-preference", signedIn(deps.Payment), "Payment")
	handleSafe(mux, "/api/whatsapp", signedIn(deps.WhatsApp), "WhatsApp")
	handleSafe(mux, "/api/webhooks/mercadopago", deps.Webhook, "Webhook(mercadopago)")

	// admin
	handleSafe(mux, "/api/admin/products", adminOnly(deps.AdminProduct), "AdminProduct")
	handleSafe(mux, "/api/admin/products/", adminOnly(deps.AdminProduct), "AdminProduct")
	handleSafe(mux, "/api/admin/categories", adminOnly(deps.Category), "AdminCategory")
	handleSafe(mux, "/api/admin/categories/", adminOnly(deps.Category), "AdminCategory")
	handleSafe(mux, "/api/admin/orders", adminOnly(deps.AdminOrder), "AdminOrder")
	handleSafe(mux, "/api/admin/orders/", adminOnly(deps.AdminOrder), "AdminOrder")
	handleSafe(mux, "/api/admin/images", adminOnly(deps.Image), "Image")

	mux.Handle("/metrics", middleware.MetricsHandler())
}

// NewRouter returns mux wrapped in the shared middleware chain.
// /healthz is answered by the caller before DI completes, see cmd/shop.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()
	Register(mux, deps)
	return Wrap(mux, deps.AllowedOrigin)
}

// Wrap applies the shared middleware chain.
func Wrap(h http.Handler, allowedOrigin string) http.Handler {
	return middleware.Chain(h,
		middleware.RequestID,
		middleware.CORS(allowedOrigin),
		middleware.Metrics,
		middleware.Recover,
	)
}

// productsDispatch sends /api/products/{id}/reviews[...] to the review handler and
// everything else under /api/products/ to the product handler.
func productsDispatch(products, reviews, reviewsSignedIn http.Handler) http.Handler {
	if products == nil {
		return nil
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := strings.TrimRight(r.URL.Path, "/")
		switch {
		case strings.HasSuffix(p, "/reviews/me") && reviewsSignedIn != nil:
			reviewsSignedIn.ServeHTTP(w, r)
		case strings.Contains(p, "/reviews") && reviews != nil:
			reviews.ServeHTTP(w, r)
		default:
			products.ServeHTTP(w, r)
		}
	})
}
