// internal/domain/order/entity.go
package order

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/HydraRosario/vibeshoes/internal/domain/common"
)

var (
	ErrNotFound          = errors.New("order: not found")
	ErrInvalid           = errors.New("order: invalid")
	ErrEmptyCart         = errors.New("order: cart is empty")
	ErrInvalidStatus     = errors.New("order: invalid status")
	ErrInvalidTransition = errors.New("order: invalid status transition")
)

// Status is the order lifecycle state.
type Status string

const (
	StatusPending  Status = "pendiente"
	StatusAccepted Status = "aceptado"
	StatusRejected Status = "rechazado"
	StatusShipped  Status = "enviado"
)

// statusAliases are the spellings older clients stored, canonical value first.
// The legacy admin page wrote pending, paid and shipped.
var statusAliases = map[Status][]string{
	StatusPending:  {"pendiente", "pending"},
	StatusAccepted: {"aceptado", "accepted", "approved", "paid"},
	StatusRejected: {"rechazado", "rejected"},
	StatusShipped:  {"enviado", "shipped"},
}

// ParseStatus accepts the canonical values and the english aliases written by older clients.
func ParseStatus(s string) (Status, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for st, aliases := range statusAliases {
		for _, a := range aliases {
			if v == a {
				return st, nil
			}
		}
	}
	return "", ErrInvalidStatus
}

// Known reports whether s is one of the canonical statuses.
func (s Status) Known() bool {
	_, ok := statusAliases[s]
	return ok
}

// Aliases returns every stored spelling of s, canonical first.
func (s Status) Aliases() []string {
	return append([]string(nil), statusAliases[s]...)
}

// IsLegacySpelling reports whether raw parses to a status but is not its canonical form.
func IsLegacySpelling(raw string) bool {
	st, err := ParseStatus(raw)
	return err == nil && strings.ToLower(strings.TrimSpace(raw)) != string(st)
}

func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusShipped
}

// CanTransition:
//
//	pendiente -> aceptado | rechazado
//	aceptado  -> enviado
//
// rechazado and enviado are terminal. Same-status is not a transition.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusAccepted || to == StatusRejected
	case StatusAccepted:
		return to == StatusShipped
	default:
		return false
	}
}

// Item is a denormalized copy of a cart line frozen at order time.
type Item struct {
	ProductID     string      `json:"productId"`
	Quantity      int         `json:"quantity"`
	Price         float64     `json:"price"`
	Name          string      `json:"name,omitempty"`
	SelectedColor string      `json:"selectedColor,omitempty"`
	SelectedSize  common.Size `json:"selectedSize,omitempty"`
	ImageURL      string      `json:"imageUrl,omitempty"`
}

type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

func (a ShippingAddress) Normalize() ShippingAddress {
	return ShippingAddress{
		Street:  strings.TrimSpace(a.Street),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		ZipCode: strings.TrimSpace(a.ZipCode),
	}
}

// Validate requires street, city and zip code; state is optional.
func (a ShippingAddress) Validate() error {
	n := a.Normalize()
	if n.Street == "" || n.City == "" || n.ZipCode == "" {
		return ErrInvalid
	}
	return nil
}

// Checkout is how the buyer pays.
type Checkout string

const (
	CheckoutMercadoPago Checkout = "mercadopago"
	CheckoutWhatsApp    Checkout = "whatsapp"
)

// Order is immutable after creation except for Status, UpdatedAt and the payment fields.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Items           []Item          `json:"items"`
	Total           float64         `json:"total"`
	Status          Status          `json:"status"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	UserEmail       string          `json:"userEmail,omitempty"`
	UserName        string          `json:"userName,omitempty"`
	Checkout        Checkout        `json:"checkout,omitempty"`

	PaymentID         string `json:"paymentId,omitempty"`
	PaymentStatus     string `json:"paymentStatus,omitempty"`
	PreferenceID      string `json:"preferenceId,omitempty"`
	ExternalReference string `json:"externalReference,omitempty"`
	// StockAppliedBy records which payment (or manual checkout) already decremented stock.
	StockAppliedBy string `json:"stockAppliedBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewInput is the data needed to snapshot a cart into an order.
type NewInput struct {
	UserID          string
	Items           []Item
	ShippingAddress ShippingAddress
	UserEmail       string
	UserName        string
	Checkout        Checkout
}

func New(in NewInput, now time.Time) (*Order, error) {
	uid := strings.TrimSpace(in.UserID)
	if uid == "" {
		return nil, ErrInvalid
	}
	if len(in.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := in.ShippingAddress.Validate(); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(in.Items))
	for _, it := range in.Items {
		it.ProductID = strings.TrimSpace(it.ProductID)
		if it.ProductID == "" || it.Quantity <= 0 || it.Price < 0 {
			return nil, ErrInvalid
		}
		items = append(items, it)
	}

	checkout := in.Checkout
	if checkout == "" {
		checkout = CheckoutMercadoPago
	}
	if checkout != CheckoutMercadoPago && checkout != CheckoutWhatsApp {
		return nil, ErrInvalid
	}

	return &Order{
		UserID:          uid,
		Items:           items,
		Total:           SumItems(items),
		Status:          StatusPending,
		ShippingAddress: in.ShippingAddress.Normalize(),
		UserEmail:       strings.TrimSpace(in.UserEmail),
		UserName:        strings.TrimSpace(in.UserName),
		Checkout:        checkout,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func SumItems(items []Item) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(common.LineTotal(it.Price, it.Quantity))
	}
	return common.ToAmount(sum)
}

// Patch holds the mutable fields of an order. nil means "leave as is".
type Patch struct {
	Status            *Status
	PaymentID         *string
	PaymentStatus     *string
	PreferenceID      *string
	ExternalReference *string
	StockAppliedBy    *string
}

func (p *Patch) IsEmpty() bool {
	return p == nil || (p.Status == nil && p.PaymentID == nil && p.PaymentStatus == nil &&
		p.PreferenceID == nil && p.ExternalReference == nil && p.StockAppliedBy == nil)
}

// Apply writes the patch into o and stamps UpdatedAt.
func (o *Order) Apply(p *Patch, now time.Time) {
	if o == nil || p.IsEmpty() {
		return
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.PaymentID != nil {
		o.PaymentID = *p.PaymentID
	}
	if p.PaymentStatus != nil {
		o.PaymentStatus = *p.PaymentStatus
	}
	if p.PreferenceID != nil {
		o.PreferenceID = *p.PreferenceID
	}
	if p.ExternalReference != nil {
		o.ExternalReference = *p.ExternalReference
	}
	if p.StockAppliedBy != nil {
		o.StockAppliedBy = *p.StockAppliedBy
	}
	o.UpdatedAt = now
}

// StockLine is the aggregated quantity to take from one (product, color) variation.
type StockLine struct {
	ProductID string
	Color     string
	Quantity  int
}

// StockLines aggregates order items by (productId, selectedColor); sizes share the variation stock.
func (o *Order) StockLines() []StockLine {
	if o == nil {
		return nil
	}
	out := []StockLine{}
	pos := map[[2]string]int{}
	for _, it := range o.Items {
		k := [2]string{it.ProductID, strings.TrimSpace(it.SelectedColor)}
		if i, ok := pos[k]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		pos[k] = len(out)
		out = append(out, StockLine{ProductID: k[0], Color: k[1], Quantity: it.Quantity})
	}
	return out
}

func StrPtr(s string) *string { return &s }

func StatusPtr(s Status) *Status { return &s }
