// internal/platform/di/shop/register.go
package shop

import (
	"log"
	"net/http"

	httpin "github.com/HydraRosario/vibeshoes/internal/adapters/in/http"
	shopHandler "github.com/HydraRosario/vibeshoes/internal/adapters/in/http/handler"
	"github.com/HydraRosario/vibeshoes/internal/adapters/in/http/middleware"
	"github.com/HydraRosario/vibeshoes/internal/adapters/in/http/webhook"
)

// Register registers shop routes onto mux.
// Pure DI: construct handlers and pass them into httpin.Register.
func Register(mux *http.ServeMux, cont *Container) {
	if mux == nil || cont == nil {
		return
	}
	httpin.Register(mux, Deps(cont))
}

// Deps builds the router handler set from the container.
func Deps(cont *Container) httpin.RouterDeps {
	var auth *middleware.UserAuthMiddleware
	if cont.Infra != nil && cont.Infra.FirebaseAuth != nil {
		auth = &middleware.UserAuthMiddleware{Verifier: middleware.NewFirebaseVerifier(cont.Infra.FirebaseAuth)}
	} else {
		log.Printf("[shop.register] ERROR: Firebase Auth not initialized; signed-in routes answer 500")
	}

	secret, origin := "", ""
	if cont.Infra != nil && cont.Infra.Config != nil {
		secret = cont.Infra.Config.MPWebhookSecret
		origin = cont.Infra.Config.CORSAllowedOrigin
	}

	return httpin.RouterDeps{
		Product:      shopHandler.NewProductHandler(cont.ProductUC),
		AdminProduct: shopHandler.NewAdminProductHandler(cont.ProductUC),
		Category:     shopHandler.NewCategoryHandler(cont.CategoryUC),
		Review:       shopHandler.NewReviewHandler(cont.ReviewUC, cont.UserUC),
		Profile:      shopHandler.NewProfileHandler(cont.UserUC),
		Cart:         shopHandler.NewCartHandler(cont.CartUC),
		Order:        shopHandler.NewOrderHandler(cont.OrderUC, cont.UserUC),
		AdminOrder:   shopHandler.NewAdminOrderHandler(cont.OrderUC),
		Image:        shopHandler.NewImageHandler(cont.ImageUC),
		Payment:      shopHandler.NewPaymentHandler(cont.PreferenceUC),
		WhatsApp:     shopHandler.NewWhatsAppHandler(cont.NotificationUC),
		Webhook:      webhook.NewMercadoPagoHandler(cont.WebhookUC, secret),

		Auth:          auth,
		Admins:        cont.UserUC,
		AllowedOrigin: origin,
	}
}
