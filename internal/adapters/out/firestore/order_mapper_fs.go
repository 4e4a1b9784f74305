// internal/adapters/out/firestore/order_mapper_fs.go
package firestore

import (
	"log"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/HydraRosario/vibeshoes/internal/domain/common"
	orderdom "github.com/HydraRosario/vibeshoes/internal/domain/order"
)

func orderToDoc(o *orderdom.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]any{
			"productId":     it.ProductID,
			"quantity":      it.Quantity,
			"price":         it.Price,
			"name":          it.Name,
			"selectedColor": it.SelectedColor,
			"selectedSize":  it.SelectedSize.String(),
			"imageUrl":      it.ImageURL,
		})
	}
	a := o.ShippingAddress
	return map[string]any{
		"userId": o.UserID,
		"items":  items,
		"total":  o.Total,
		"status": string(o.Status),
		"shippingAddress": map[string]any{
			"street":  a.Street,
			"city":    a.City,
			"state":   a.State,
			"zipCode": a.ZipCode,
		},
		"userEmail":         o.UserEmail,
		"userName":          o.UserName,
		"checkout":          string(o.Checkout),
		"paymentId":         o.PaymentID,
		"paymentStatus":     o.PaymentStatus,
		"preferenceId":      o.PreferenceID,
		"externalReference": o.ExternalReference,
		"stockAppliedBy":    o.StockAppliedBy,
		"createdAt":         o.CreatedAt,
		"updatedAt":         o.UpdatedAt,
	}
}

// legacyStockMarker prefixes the stock marker derived for orders paid under the
// older storefront, which decremented stock at approval without stamping the order.
const legacyStockMarker = "legacy:"

// orderFromSnapshot maps raw data. English aliases written by older clients are
// normalized through ParseStatus. Unrecognized values are kept as stored, so no
// transition accepts them until an admin sets a status.
func orderFromSnapshot(id string, raw map[string]any) *orderdom.Order {
	o := &orderdom.Order{ID: id, Items: []orderdom.Item{}}
	if raw == nil {
		return o
	}
	o.UserID = asString(raw["userId"])
	o.Total = asFloat(raw["total"])
	o.StockAppliedBy = asString(raw["stockAppliedBy"])

	rawStatus := strings.TrimSpace(asString(raw["status"]))
	if st, err := orderdom.ParseStatus(rawStatus); err == nil {
		o.Status = st
		paid := st == orderdom.StatusAccepted || st == orderdom.StatusShipped
		if paid && o.StockAppliedBy == "" && orderdom.IsLegacySpelling(rawStatus) {
			o.StockAppliedBy = legacyStockMarker + strings.ToLower(rawStatus)
		}
	} else {
		o.Status = orderdom.Status(rawStatus)
		log.Printf("[order_repository_fs] WARN: unknown status order=%s status=%q", maskShort(id), rawStatus)
	}
	o.UserEmail = asString(raw["userEmail"])
	o.UserName = asString(raw["userName"])
	o.Checkout = orderdom.Checkout(asString(raw["checkout"]))
	o.PaymentID = asString(raw["paymentId"])
	o.PaymentStatus = asString(raw["paymentStatus"])
	o.PreferenceID = asString(raw["preferenceId"])
	o.ExternalReference = asString(raw["externalReference"])
	o.CreatedAt = timeField(raw, "createdAt")
	o.UpdatedAt = timeField(raw, "updatedAt")

	if m, ok := raw["shippingAddress"].(map[string]any); ok {
		o.ShippingAddress = orderdom.ShippingAddress{
			Street:  asString(m["street"]),
			City:    asString(m["city"]),
			State:   asString(m["state"]),
			ZipCode: asString(m["zipCode"]),
		}
	}

	for _, m := range asMaps(raw["items"]) {
		o.Items = append(o.Items, orderdom.Item{
			ProductID:     strings.TrimSpace(asString(m["productId"])),
			Quantity:      asInt(m["quantity"]),
			Price:         asFloat(m["price"]),
			Name:          asString(m["name"]),
			SelectedColor: strings.TrimSpace(asString(m["selectedColor"])),
			SelectedSize:  common.SizeFromAny(m["selectedSize"]),
			ImageURL:      asString(m["imageUrl"]),
		})
	}
	return o
}

// patchUpdates lists only the fields present in p plus updatedAt.
func patchUpdates(p *orderdom.Patch, now time.Time) []firestore.Update {
	ups := []firestore.Update{{Path: "updatedAt", Value: now}}
	if p.Status != nil {
		ups = append(ups, firestore.Update{Path: "status", Value: string(*p.Status)})
	}
	if p.PaymentID != nil {
		ups = append(ups, firestore.Update{Path: "paymentId", Value: *p.PaymentID})
	}
	if p.PaymentStatus != nil {
		ups = append(ups, firestore.Update{Path: "paymentStatus", Value: *p.PaymentStatus})
	}
	if p.PreferenceID != nil {
		ups = append(ups, firestore.Update{Path: "preferenceId", Value: *p.PreferenceID})
	}
	if p.ExternalReference != nil {
		ups = append(ups, firestore.Update{Path: "externalReference", Value: *p.ExternalReference})
	}
	if p.StockAppliedBy != nil {
		ups = append(ups, firestore.Update{Path: "stockAppliedBy", Value: *p.StockAppliedBy})
	}
	return ups
}

// statusFilterValues lists the stored spellings of st for an "in" query.
func statusFilterValues(st orderdom.Status) []any {
	aliases := st.Aliases()
	if len(aliases) == 0 {
		return []any{string(st)}
	}
	out := make([]any, 0, len(aliases))
	for _, a := range aliases {
		out = append(out, a)
	}
	return out
}
