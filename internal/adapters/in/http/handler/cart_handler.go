// internal/adapters/in/http/handler/cart_handler.go
package shopHandler

import (
	"net/http"
	"strings"
	"time"

	usecase "github.com/HydraRosario/vibeshoes/internal/application/usecase"
	cartdom "github.com/HydraRosario/vibeshoes/internal/domain/cart"
	"github.com/HydraRosario/vibeshoes/internal/domain/common"
)

// CartHandler serves /api/cart and /api/cart/items for the signed-in user.
type CartHandler struct {
	uc *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) http.Handler {
	return &CartHandler{uc: uc}
}

type cartResponse struct {
	UserID    string         `json:"userId"`
	Items     []cartdom.Item `json:"items"`
	Total     float64        `json:"total"`
	Version   int64          `json:"version"`
	UpdatedAt string         `json:"updatedAt,omitempty"`
}

func toCartResponse(c *cartdom.Cart) cartResponse {
	items := c.Items
	if items == nil {
		items = []cartdom.Item{}
	}
	out := cartResponse{UserID: c.UserID, Items: items, Total: c.Total(), Version: c.Version}
	if !c.UpdatedAt.IsZero() {
		out.UpdatedAt = c.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

type cartItemRequest struct {
	ProductID     string      `json:"productId"`
	Quantity      int         `json:"quantity"`
	SelectedColor string      `json:"selectedColor"`
	SelectedSize  common.Size `json:"selectedSize"`
	Price         float64     `json:"price"`
	Name          string      `json:"name"`
	ImageURL      string      `json:"imageUrl"`
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return
	}
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	switch {
	case path == "/api/cart":
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, uid)
		case http.MethodDelete:
			h.clear(w, r, uid)
		default:
			methodNotAllowed(w)
		}
	case path == "/api/cart/items":
		switch r.Method {
		case http.MethodPost:
			h.add(w, r, uid)
		case http.MethodPut, http.MethodPatch:
			h.setQty(w, r, uid)
		case http.MethodDelete:
			h.remove(w, r, uid)
		default:
			methodNotAllowed(w)
		}
	default:
		notFound(w)
	}
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request, uid string) {
	c, err := h.uc.Get(r.Context(), uid)
	if err != nil {
		writeUsecaseErr(w, "cart_handler", err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request, uid string) {
	var req cartItemRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	c, err := h.uc.AddItem(r.Context(), uid, usecase.AddItemInput{
		ProductID: req.ProductID,
		Color:     req.SelectedColor,
		Size:      req.SelectedSize,
		Quantity:  req.Quantity,
		Price:     req.Price,
		Name:      req.Name,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		writeUsecaseErr(w, "cart_handler", err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *CartHandler) setQty(w http.ResponseWriter, r *http.Request, uid string) {
	var req cartItemRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	key := cartdom.NewLineKey(req.ProductID, req.SelectedColor, req.SelectedSize)
	c, err := h.uc.SetItemQty(r.Context(), uid, key, req.Quantity)
	if err != nil {
		writeUsecaseErr(w, "cart_handler", err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// remove takes the line from the query (productId, color, size) or a JSON body.
func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request, uid string) {
	q := r.URL.Query()
	req := cartItemRequest{
		ProductID:     q.Get("productId"),
		SelectedColor: q.Get("color"),
		SelectedSize:  common.Size(q.Get("size")).Normalize(),
	}
	if strings.TrimSpace(req.ProductID) == "" && r.ContentLength != 0 {
		if err := readJSON(r, &req); err != nil {
			badRequest(w, "invalid json")
			return
		}
	}
	c, err := h.uc.RemoveItem(r.Context(), uid, req.ProductID, req.SelectedColor, req.SelectedSize)
	if err != nil {
		writeUsecaseErr(w, "cart_handler", err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request, uid string) {
	if err := h.uc.Clear(r.Context(), uid); err != nil {
		writeUsecaseErr(w, "cart_handler", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
