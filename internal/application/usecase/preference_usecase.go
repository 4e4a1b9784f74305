// internal/application/usecase/preference_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/HydraRosario/vibeshoes/internal/domain/common"
	orderdom "github.com/HydraRosario/vibeshoes/internal/domain/order"
	paymentdom "github.com/HydraRosario/vibeshoes/internal/domain/payment"
)

const (
	DefaultCurrencyID = "ARS"
	DefaultSiteURL    = "http://localhost:3000"
	WebhookPath       = "/api/webhooks/mercadopago"
)

// PreferenceUsecase creates provider-side payment intents for orders.
type PreferenceUsecase struct {
	gateway    PaymentGateway
	orders     orderdom.Repository
	siteURL    string
	currencyID string
}

func NewPreferenceUsecase(gateway PaymentGateway, orders orderdom.Repository, siteURL, currencyID string) *PreferenceUsecase {
	if strings.TrimSpace(currencyID) == "" {
		currencyID = DefaultCurrencyID
	}
	return &PreferenceUsecase{
		gateway:    gateway,
		orders:     orders,
		siteURL:    strings.TrimRight(strings.TrimSpace(siteURL), "/"),
		currencyID: strings.TrimSpace(currencyID),
	}
}

type PreferenceItemInput struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	PictureURL string  `json:"picture_url,omitempty"`
}

type PreferenceInput struct {
	OrderID   string
	UserID    string
	UserEmail string
	UserName  string
	Items     []PreferenceItemInput
	Total     float64
	// RequestOrigin is scheme://host inferred from forwarded headers ("" when unknown).
	RequestOrigin string
}

type PreferenceResult struct {
	InitPoint string `json:"init_point"`
	ID        string `json:"id"`
	OrderID   string `json:"orderId"`
}

func (in PreferenceInput) validate() error {
	if strings.TrimSpace(in.OrderID) == "" || strings.TrimSpace(in.UserID) == "" {
		return invalidArg("Invalid payload")
	}
	if len(in.Items) == 0 || !(in.Total > 0) {
		return invalidArg("Invalid payload")
	}
	for _, it := range in.Items {
		if strings.TrimSpace(it.Title) == "" || it.Quantity <= 0 || it.UnitPrice < 0 {
			return invalidArg("Invalid payload")
		}
	}
	return nil
}

// Create validates the payload first, then configuration, then calls the provider.
func (uc *PreferenceUsecase) Create(ctx context.Context, in PreferenceInput) (*PreferenceResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if uc == nil || uc.gateway == nil {
		return nil, fmt.Errorf("%w: Mercado Pago", ErrNotConfigured)
	}

	orderID := strings.TrimSpace(in.OrderID)
	if uc.orders != nil {
		o, err := uc.checkOrder(ctx, orderID, in)
		if err != nil {
			return nil, err
		}
		// charge what the order says, not what the client sent
		in.Items = itemsFromOrder(o, in.Items)
	}

	req := uc.BuildRequest(in)
	pref, err := uc.gateway.CreatePreference(ctx, req)
	if err != nil {
		return nil, err
	}

	if uc.orders != nil {
		_, perr := uc.orders.Update(ctx, orderID, func(cur *orderdom.Order) (*orderdom.Patch, error) {
			return &orderdom.Patch{
				PreferenceID:      orderdom.StrPtr(pref.ID),
				ExternalReference: orderdom.StrPtr(orderID),
			}, nil
		})
		if perr != nil {
			log.Printf("[preference_usecase] WARN: store preference on order=%s failed: %v", orderID, perr)
		}
	}

	return &PreferenceResult{
		InitPoint: pref.RedirectURL(),
		ID:        pref.ID,
		OrderID:   orderID,
	}, nil
}

// BuildRequest renders the provider payload. Exposed for tests.
func (uc *PreferenceUsecase) BuildRequest(in PreferenceInput) paymentdom.PreferenceRequest {
	site := ResolveSiteURL(uc.siteURL, in.RequestOrigin)
	orderID := strings.TrimSpace(in.OrderID)
	q := "?orderId=" + url.QueryEscape(orderID)

	items := make([]paymentdom.PreferenceItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, paymentdom.PreferenceItem{
			Title:      strings.TrimSpace(it.Title),
			Quantity:   it.Quantity,
			UnitPrice:  common.ToAmount(decimal.NewFromFloat(it.UnitPrice)),
			PictureURL: strings.TrimSpace(it.PictureURL),
			CurrencyID: uc.currencyID,
		})
	}

	return paymentdom.PreferenceRequest{
		Items: items,
		Payer: paymentdom.Payer{
			Email: strings.TrimSpace(in.UserEmail),
			Name:  strings.TrimSpace(in.UserName),
		},
		BackURLs: paymentdom.BackURLs{
			Success: site + "/checkout/success" + q,
			Failure: site + "/checkout/failure" + q,
			Pending: site + "/checkout/pending" + q,
		},
		AutoReturn:        "approved",
		NotificationURL:   site + WebhookPath,
		ExternalReference: orderID,
	}
}

func (uc *PreferenceUsecase) checkOrder(ctx context.Context, orderID string, in PreferenceInput) (*orderdom.Order, error) {
	o, err := uc.orders.GetByID(ctx, orderID)
	if errors.Is(err, orderdom.ErrNotFound) {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}
	if o.UserID != strings.TrimSpace(in.UserID) {
		return nil, fmt.Errorf("%w: order belongs to another user", ErrForbidden)
	}
	if o.Status != orderdom.StatusPending {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidTransition, o.Status)
	}
	if !decimal.NewFromFloat(o.Total).Equal(decimal.NewFromFloat(common.RoundAmount(in.Total))) {
		return nil, invalidArg("total does not match order")
	}
	if len(o.Items) == 0 {
		return nil, invalidArg("order has no items")
	}
	return o, nil
}

// itemsFromOrder prices the preference from the stored order lines. Client titles
// and pictures are only used to fill gaps in older order documents.
func itemsFromOrder(o *orderdom.Order, client []PreferenceItemInput) []PreferenceItemInput {
	out := make([]PreferenceItemInput, 0, len(o.Items))
	for i, it := range o.Items {
		title := strings.TrimSpace(it.Name)
		picture := strings.TrimSpace(it.ImageURL)
		if i < len(client) {
			if title == "" {
				title = strings.TrimSpace(client[i].Title)
			}
			if picture == "" {
				picture = strings.TrimSpace(client[i].PictureURL)
			}
		}
		if title == "" {
			title = it.ProductID
		}
		out = append(out, PreferenceItemInput{
			Title:      title,
			Quantity:   it.Quantity,
			UnitPrice:  it.Price,
			PictureURL: picture,
		})
	}
	return out
}

// ResolveSiteURL: configured base URL, then request origin, then the local fallback.
func ResolveSiteURL(configured, requestOrigin string) string {
	if s := strings.TrimRight(strings.TrimSpace(configured), "/"); s != "" {
		return s
	}
	if s := strings.TrimRight(strings.TrimSpace(requestOrigin), "/"); s != "" {
		return s
	}
	return DefaultSiteURL
}
