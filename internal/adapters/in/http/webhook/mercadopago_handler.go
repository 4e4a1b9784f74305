// internal/adapters/in/http/webhook/mercadopago_handler.go
package webhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/HydraRosario/vibeshoes/internal/adapters/in/http/middleware"
	uc "github.com/HydraRosario/vibeshoes/internal/application/usecase"
	paymentdom "github.com/HydraRosario/vibeshoes/internal/domain/payment"
)

// MercadoPagoHandler receives payment notifications at POST /api/webhooks/mercadopago.
//
// Accepted shapes:
//   - ?type=payment&data.id=<id>
//   - ?topic=payment&id=<id> (legacy IPN)
//   - JSON body {"type":"payment","data":{"id":"<id>"}}
//
// When a secret is set, x-signature is verified against data.id and x-request-id.
type MercadoPagoHandler struct {
	uc     *uc.PaymentWebhookUsecase
	secret string
}

func NewMercadoPagoHandler(webhookUC *uc.PaymentWebhookUsecase, secret string) http.Handler {
	if strings.TrimSpace(secret) == "" {
		log.Printf("[shop.webhook] MP_WEBHOOK_SECRET not set; signature verification disabled")
	}
	return &MercadoPagoHandler{uc: webhookUC, secret: strings.TrimSpace(secret)}
}

type notificationBody struct {
	Type   string `json:"type"`
	Topic  string `json:"topic"`
	Action string `json:"action"`
	Data   struct {
		ID json.RawMessage `json:"id"`
	} `json:"data"`
}

func (h *MercadoPagoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.uc == nil || !h.uc.Configured() {
		middleware.RecordWebhookOutcome("not_configured")
		writeJSONError(w, http.StatusNotImplemented, "MP not configured")
		return
	}

	const maxBody = 1 << 20 // 1MB
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	_ = r.Body.Close()

	n := ParseNotification(r, body)
	if !n.IsPayment() {
		middleware.RecordWebhookOutcome("ignored")
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "ignored": true})
		return
	}

	if h.secret != "" {
		sig := r.Header.Get("x-signature")
		rid := r.Header.Get("x-request-id")
		if err := paymentdom.VerifySignature(h.secret, sig, rid, n.PaymentID); err != nil {
			log.Printf("[shop.webhook] signature rejected payment=%s err=%v", n.PaymentID, err)
			middleware.RecordWebhookOutcome("bad_signature")
			writeJSONError(w, http.StatusUnauthorized, "Invalid signature")
			return
		}
	}

	res, err := h.uc.Handle(r.Context(), n)
	if err != nil {
		h.writeHandleErr(w, n, err)
		return
	}

	switch {
	case res.Ignored:
		middleware.RecordWebhookOutcome("ignored")
	case res.Underpaid:
		middleware.RecordWebhookOutcome("underpaid")
	case res.StockApplied:
		middleware.RecordWebhookOutcome("stock_applied")
		units := 0
		for _, l := range res.Stock {
			units += l.Before - l.After
		}
		middleware.RecordStockDecrement(units)
	default:
		middleware.RecordWebhookOutcome("status_" + strings.ToLower(res.PaymentStatus))
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "result": res})
}

func (h *MercadoPagoHandler) writeHandleErr(w http.ResponseWriter, n paymentdom.Notification, err error) {
	var up *uc.UpstreamError
	switch {
	case errors.Is(err, uc.ErrNotConfigured):
		middleware.RecordWebhookOutcome("not_configured")
		writeJSONError(w, http.StatusNotImplemented, "MP not configured")
	case errors.Is(err, uc.ErrInvalidArgument):
		middleware.RecordWebhookOutcome("bad_request")
		writeJSONError(w, http.StatusBadRequest, "No external_reference")
	case errors.Is(err, uc.ErrNotFound):
		middleware.RecordWebhookOutcome("order_not_found")
		writeJSONError(w, http.StatusNotFound, "Order not found")
	case errors.As(err, &up) && up.StatusCode >= 400 && up.StatusCode < 500:
		log.Printf("[shop.webhook] provider rejected payment=%s status=%d", n.PaymentID, up.StatusCode)
		middleware.RecordWebhookOutcome("upstream_rejected")
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": "MP API error", "details": up.Payload})
	default:
		log.Printf("[shop.webhook] handle failed payment=%s err=%v", n.PaymentID, err)
		middleware.RecordWebhookOutcome("error")
		writeJSONError(w, http.StatusInternalServerError, "Server error")
	}
}

// ParseNotification reads type and payment id from the query, falling back to the JSON body.
func ParseNotification(r *http.Request, body []byte) paymentdom.Notification {
	q := r.URL.Query()
	n := paymentdom.Notification{
		Type:      strings.TrimSpace(q.Get("type")),
		PaymentID: strings.TrimSpace(q.Get("data.id")),
	}
	if n.Type == "" {
		n.Type = strings.TrimSpace(q.Get("topic"))
	}
	if n.PaymentID == "" {
		n.PaymentID = strings.TrimSpace(q.Get("id"))
	}
	if n.Type != "" && n.PaymentID != "" {
		return n
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return n
	}
	var b notificationBody
	if err := json.Unmarshal(body, &b); err != nil {
		return n
	}
	if n.Type == "" {
		n.Type = strings.TrimSpace(b.Type)
		if n.Type == "" {
			n.Type = strings.TrimSpace(b.Topic)
		}
	}
	if n.PaymentID == "" {
		n.PaymentID = rawID(b.Data.ID)
	}
	return n
}

// rawID accepts "123" or 123.
func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		return num.String()
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
