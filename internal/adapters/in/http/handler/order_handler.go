// internal/adapters/in/http/handler/order_handler.go
package shopHandler

import (
	"net/http"
	"strings"

	"github.com/HydraRosario/vibeshoes/internal/adapters/in/http/middleware"
	usecase "github.com/HydraRosario/vibeshoes/internal/application/usecase"
	orderdom "github.com/HydraRosario/vibeshoes/internal/domain/order"
)

// OrderHandler serves the buyer side: /api/orders and /api/orders/{id}.
type OrderHandler struct {
	uc     *usecase.OrderUsecase
	admins middleware.AdminChecker
}

func NewOrderHandler(uc *usecase.OrderUsecase, admins middleware.AdminChecker) http.Handler {
	return &OrderHandler{uc: uc, admins: admins}
}

type createOrderRequest struct {
	ShippingAddress orderdom.ShippingAddress `json:"shippingAddress"`
	Checkout        string                   `json:"checkout"`
	// UserName is used when the token carries no display name.
	UserName string `json:"userName"`
	// UserID, when present, must equal the token uid.
	UserID string `json:"userId"`
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "order handler is not configured")
		return
	}
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}

	id, ok := cleanPath(r.URL.Path, "/api/orders")
	if !ok || strings.Contains(id, "/") {
		notFound(w)
		return
	}

	switch {
	case id == "" && r.Method == http.MethodPost:
		h.create(w, r, uid)
	case id == "" && r.Method == http.MethodGet:
		orders, err := h.uc.ListByUser(r.Context(), uid)
		if err != nil {
			writeUsecaseErr(w, "order_handler", err)
			return
		}
		writeJSON(w, http.StatusOK, nonNilOrders(orders))
	case id != "" && r.Method == http.MethodGet:
		o, err := h.uc.GetVisible(r.Context(), id, uid, middleware.IsAdmin(r, h.admins))
		if err != nil {
			writeUsecaseErr(w, "order_handler", err)
			return
		}
		writeJSON(w, http.StatusOK, o)
	default:
		methodNotAllowed(w)
	}
}

func (h *OrderHandler) create(w http.ResponseWriter, r *http.Request, uid string) {
	var req createOrderRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if b := strings.TrimSpace(req.UserID); b != "" && b != uid {
		writeErr(w, http.StatusForbidden, "userId_mismatch")
		return
	}

	_, email, _ := middleware.CurrentUserUIDAndEmail(r)
	name := middleware.CurrentUserName(r)
	if name == "" {
		name = strings.TrimSpace(req.UserName)
	}

	res, err := h.uc.Create(r.Context(), usecase.CreateOrderInput{
		UserID:          uid,
		UserEmail:       email,
		UserName:        name,
		ShippingAddress: req.ShippingAddress,
		Checkout:        orderdom.Checkout(strings.ToLower(strings.TrimSpace(req.Checkout))),
	})
	if err != nil {
		writeUsecaseErr(w, "order_handler", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// AdminOrderHandler serves /api/admin/orders. RequireAdmin wraps it in the router.
type AdminOrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewAdminOrderHandler(uc *usecase.OrderUsecase) http.Handler {
	return &AdminOrderHandler{uc: uc}
}

func (h *AdminOrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "order handler is not configured")
		return
	}

	rest, ok := cleanPath(r.URL.Path, "/api/admin/orders")
	if !ok {
		notFound(w)
		return
	}
	ctx := r.Context()

	switch {
	case rest == "" && r.Method == http.MethodGet:
		var (
			orders []orderdom.Order
			err    error
		)
		if st := strings.TrimSpace(r.URL.Query().Get("status")); st != "" {
			orders, err = h.uc.ListByStatus(ctx, st)
		} else {
			orders, err = h.uc.ListAll(ctx)
		}
		if err != nil {
			writeUsecaseErr(w, "admin_order_handler", err)
			return
		}
		writeJSON(w, http.StatusOK, nonNilOrders(orders))

	case strings.HasSuffix(rest, "/status") && (r.Method == http.MethodPatch || r.Method == http.MethodPut):
		id := strings.TrimSuffix(rest, "/status")
		var req struct {
			Status string `json:"status"`
		}
		if err := readJSON(r, &req); err != nil {
			badRequest(w, "invalid json")
			return
		}
		o, err := h.uc.UpdateStatus(ctx, id, req.Status)
		if err != nil {
			writeUsecaseErr(w, "admin_order_handler", err)
			return
		}
		writeJSON(w, http.StatusOK, o)

	case rest != "" && !strings.Contains(rest, "/") && r.Method == http.MethodGet:
		o, err := h.uc.Get(ctx, rest)
		if err != nil {
			writeUsecaseErr(w, "admin_order_handler", err)
			return
		}
		writeJSON(w, http.StatusOK, o)

	case rest != "" && !strings.Contains(rest, "/") && r.Method == http.MethodDelete:
		if err := h.uc.Delete(ctx, rest); err != nil {
			writeUsecaseErr(w, "admin_order_handler", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		notFound(w)
	}
}

func nonNilOrders(xs []orderdom.Order) []orderdom.Order {
	if xs == nil {
		return []orderdom.Order{}
	}
	return xs
}
