// internal/platform/di/shop/container.go
package shop

import (
	"context"
	"errors"
	"log"

	// outbound
	outfs "github.com/HydraRosario/vibeshoes/internal/adapters/out/firestore"
	gcso "github.com/HydraRosario/vibeshoes/internal/adapters/out/gcs"
	mailout "github.com/HydraRosario/vibeshoes/internal/adapters/out/mail"
	"github.com/HydraRosario/vibeshoes/internal/adapters/out/memory"
	"github.com/HydraRosario/vibeshoes/internal/adapters/out/mercadopago"
	"github.com/HydraRosario/vibeshoes/internal/adapters/out/rabbitmq"
	"github.com/HydraRosario/vibeshoes/internal/adapters/out/whatsapp"

	usecase "github.com/HydraRosario/vibeshoes/internal/application/usecase"

	// domains
	cartdom "github.com/HydraRosario/vibeshoes/internal/domain/cart"
	categorydom "github.com/HydraRosario/vibeshoes/internal/domain/category"
	orderdom "github.com/HydraRosario/vibeshoes/internal/domain/order"
	paymentdom "github.com/HydraRosario/vibeshoes/internal/domain/payment"
	productdom "github.com/HydraRosario/vibeshoes/internal/domain/product"
	reviewdom "github.com/HydraRosario/vibeshoes/internal/domain/review"
	userdom "github.com/HydraRosario/vibeshoes/internal/domain/user"

	shared "github.com/HydraRosario/vibeshoes/internal/platform/di/shared"
)

// Container is the shop DI container.
// Pure DI: build deps only. No routing here.
type Container struct {
	Infra *shared.Infra

	// Usecases
	ProductUC      *usecase.ProductUsecase
	ImageUC        *usecase.ImageUsecase
	CategoryUC     *usecase.CategoryUsecase
	ReviewUC       *usecase.ReviewUsecase
	UserUC         *usecase.UserUsecase
	CartUC         *usecase.CartUsecase
	OrderUC        *usecase.OrderUsecase
	PreferenceUC   *usecase.PreferenceUsecase
	WebhookUC      *usecase.PaymentWebhookUsecase
	NotificationUC *usecase.NotificationUsecase

	publisher *rabbitmq.Publisher
}

// repositories is the document-store port set, Firestore or in-memory.
type repositories struct {
	carts      cartdom.Repository
	products   productdom.Repository
	orders     orderdom.Repository
	stock      paymentdom.StockApplier
	reviews    reviewdom.Repository
	categories categorydom.Repository
	users      userdom.Repository
}

func NewContainer(ctx context.Context, infra *shared.Infra) (*Container, error) {
	if infra == nil {
		var err error
		infra, err = shared.NewInfra(ctx, nil)
		if err != nil {
			return nil, err
		}
	}
	if infra.Config == nil {
		return nil, errors.New("di.shop: shared infra config is nil")
	}
	cfg := infra.Config

	repos, err := buildRepositories(infra)
	if err != nil {
		return nil, err
	}

	c := &Container{Infra: infra}

	// --------------------------------------------------------
	// Outbound providers (nil interface when not configured)
	// --------------------------------------------------------
	var gateway usecase.PaymentGateway
	if cfg.MercadoPagoConfigured() {
		gateway = mercadopago.NewClient(cfg.MPAccessToken, cfg.MPAPIBaseURL, cfg.ProviderTimeout, cfg.ProviderMaxRetries)
		log.Printf("[di.shop] Mercado Pago client initialized")
	} else {
		log.Printf("[di.shop] MP_ACCESS_TOKEN empty: payment routes answer 501")
	}

	var sender usecase.MessageSender
	if cfg.WhatsAppConfigured() {
		sender = whatsapp.NewClient(cfg.WhatsAppToken, cfg.WhatsAppPhoneID, cfg.WhatsAppAPIBaseURL, cfg.ProviderTimeout, cfg.ProviderMaxRetries)
		log.Printf("[di.shop] WhatsApp Cloud API client initialized")
	} else {
		log.Printf("[di.shop] WHATSAPP_TOKEN/WHATSAPP_PHONE_ID empty: /api/whatsapp answers 501")
	}

	var mailer usecase.Mailer
	if cfg.MailConfigured() {
		mailer = mailout.NewOrderMailer(mailout.NewSendGridClient(cfg.SendGridAPIKey, "VibeShoes"), cfg.SendGridFrom)
		log.Printf("[di.shop] SendGrid mailer initialized")
	} else {
		log.Printf("[di.shop] SENDGRID_API_KEY/SENDGRID_FROM empty: confirmation mail skipped")
	}

	var images usecase.ImageStore
	if infra.GCS != nil && cfg.ImageBucket != "" {
		images = gcso.NewImageStoreGCS(infra.GCS, cfg.ImageBucket)
	}

	events := usecase.NopPublisher
	if cfg.RabbitMQURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.OrderExchange)
		if err != nil {
			log.Printf("[di.shop] WARN: rabbitmq publisher init failed: %v (order events disabled)", err)
		} else {
			c.publisher = pub
			events = pub
			log.Printf("[di.shop] order events -> exchange=%s", cfg.OrderExchange)
		}
	}

	// --------------------------------------------------------
	// Usecases
	// --------------------------------------------------------
	c.NotificationUC = usecase.NewNotificationUsecase(sender, mailer, cfg.AdminWhatsAppNumber)
	c.ProductUC = usecase.NewProductUsecase(repos.products)
	c.ImageUC = usecase.NewImageUsecase(images)
	c.CategoryUC = usecase.NewCategoryUsecase(repos.categories)
	c.ReviewUC = usecase.NewReviewUsecase(repos.reviews, repos.orders)
	c.UserUC = usecase.NewUserUsecase(repos.users, cfg.AdminEmails)
	c.CartUC = usecase.NewCartUsecase(repos.carts).WithCatalog(repos.products)
	c.OrderUC = usecase.NewOrderUsecase(repos.orders, c.CartUC, repos.stock).
		WithNotifier(c.NotificationUC).
		WithEvents(events)
	c.PreferenceUC = usecase.NewPreferenceUsecase(gateway, repos.orders, cfg.SiteURL, cfg.MPCurrencyID)
	c.WebhookUC = usecase.NewPaymentWebhookUsecase(gateway, repos.orders, repos.stock, c.CartUC).
		WithNotifier(c.NotificationUC).
		WithEvents(events)

	return c, nil
}

func buildRepositories(infra *shared.Infra) (*repositories, error) {
	if infra.Config.UseMemoryStore() {
		st := memory.NewStore()
		orders := st.Orders()
		return &repositories{
			carts:      st.Carts(),
			products:   st.Products(),
			orders:     orders,
			stock:      orders,
			reviews:    st.Reviews(),
			categories: st.Categories(),
			users:      st.Users(),
		}, nil
	}

	fsClient := infra.Firestore
	if fsClient == nil {
		return nil, errors.New("di.shop: infra.Firestore is nil")
	}
	orders := outfs.NewOrderRepositoryFS(fsClient)
	return &repositories{
		carts:      outfs.NewCartRepositoryFS(fsClient),
		products:   outfs.NewProductRepositoryFS(fsClient),
		orders:     orders,
		stock:      orders,
		reviews:    outfs.NewReviewRepositoryFS(fsClient),
		categories: outfs.NewCategoryRepositoryFS(fsClient),
		users:      outfs.NewUserRepositoryFS(fsClient),
	}, nil
}

// Close releases container-owned resources. Infra is closed by its owner.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.publisher != nil {
		c.publisher.Close()
	}
	return nil
}
