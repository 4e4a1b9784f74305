// internal/adapters/in/http/handler/payment_handler.go
package shopHandler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/HydraRosario/vibeshoes/internal/adapters/in/http/middleware"
	usecase "github.com/HydraRosario/vibeshoes/internal/application/usecase"
)

// PaymentHandler serves POST /api/payments/create-preference.
type PaymentHandler struct {
	uc *usecase.PreferenceUsecase
}

func NewPaymentHandler(uc *usecase.PreferenceUsecase) http.Handler {
	return &PaymentHandler{uc: uc}
}

type createPreferenceRequest struct {
	OrderID   string                        `json:"orderId"`
	UserID    string                        `json:"userId"`
	UserEmail string                        `json:"userEmail"`
	UserName  string                        `json:"userName"`
	Items     []usecase.PreferenceItemInput `json:"items"`
	Total     float64                       `json:"total"`
}

func (h *PaymentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}

	var req createPreferenceRequest
	if err := readJSONLoose(r, &req); err != nil {
		badRequest(w, "Invalid payload")
		return
	}

	bodyUID := strings.TrimSpace(req.UserID)
	if bodyUID != "" && bodyUID != uid {
		writeErr(w, http.StatusForbidden, "userId_mismatch")
		return
	}
	email := strings.TrimSpace(req.UserEmail)
	if email == "" {
		_, email, _ = middleware.CurrentUserUIDAndEmail(r)
	}
	name := strings.TrimSpace(req.UserName)
	if name == "" {
		name = middleware.CurrentUserName(r)
	}

	res, err := h.uc.Create(r.Context(), usecase.PreferenceInput{
		OrderID:       req.OrderID,
		UserID:        uid,
		UserEmail:     email,
		UserName:      name,
		Items:         req.Items,
		Total:         req.Total,
		RequestOrigin: requestOrigin(r),
	})
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *PaymentHandler) writeErr(w http.ResponseWriter, err error) {
	var up *usecase.UpstreamError
	switch {
	case errors.Is(err, usecase.ErrInvalidArgument):
		badRequest(w, "Invalid payload")
	case errors.Is(err, usecase.ErrNotConfigured):
		writeErr(w, http.StatusNotImplemented, "Mercado Pago not configured")
	case errors.As(err, &up):
		log.Printf("[payment_handler] preference create failed status=%d msg=%q", up.StatusCode, up.Message)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "MP Preference error",
			"message": up.Message,
			"status":  up.StatusCode,
		})
	default:
		writeUsecaseErr(w, "payment_handler", err)
	}
}
