// internal/adapters/in/http/handler/whatsapp_handler.go
package shopHandler

import (
	"errors"
	"log"
	"net/http"

	usecase "github.com/HydraRosario/vibeshoes/internal/application/usecase"
)

// WhatsAppHandler serves POST /api/whatsapp with body {to, text}.
type WhatsAppHandler struct {
	uc *usecase.NotificationUsecase
}

func NewWhatsAppHandler(uc *usecase.NotificationUsecase) http.Handler {
	return &WhatsAppHandler{uc: uc}
}

func (h *WhatsAppHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		To   string `json:"to"`
		Text string `json:"text"`
	}
	if err := readJSONLoose(r, &req); err != nil {
		badRequest(w, "Missing to or text")
		return
	}

	data, err := h.uc.SendWhatsApp(r.Context(), req.To, req.Text)
	if err != nil {
		var up *usecase.UpstreamError
		switch {
		case errors.Is(err, usecase.ErrInvalidArgument):
			badRequest(w, publicMessage(err, usecase.ErrInvalidArgument))
		case errors.Is(err, usecase.ErrNotConfigured):
			writeErr(w, http.StatusNotImplemented, "WhatsApp Cloud API not configured")
		case errors.As(err, &up):
			log.Printf("[whatsapp_handler] WhatsApp API error status=%d", up.StatusCode)
			writeJSON(w, http.StatusBadGateway, map[string]any{"error": "WhatsApp API error", "details": up.Payload})
		default:
			log.Printf("[whatsapp_handler] error: %v", err)
			writeErr(w, http.StatusInternalServerError, "Server error")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": data})
}
