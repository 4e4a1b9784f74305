// internal/adapters/in/http/handler/product_handler.go
package shopHandler

import (
	"net/http"
	"strconv"
	"strings"

	usecase "github.com/HydraRosario/vibeshoes/internal/application/usecase"
	"github.com/HydraRosario/vibeshoes/internal/domain/common"
	productdom "github.com/HydraRosario/vibeshoes/internal/domain/product"
)

// ProductHandler serves the public catalog: GET /api/products and /api/products/{id}.
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewProductHandler(uc *usecase.ProductUsecase) http.Handler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "product handler is not configured")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	id, ok := cleanPath(r.URL.Path, "/api/products")
	if !ok || strings.Contains(id, "/") {
		notFound(w)
		return
	}

	if id == "" {
		f, err := productFilterFromQuery(r)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		items, err := h.uc.List(r.Context(), f)
		if err != nil {
			writeUsecaseErr(w, "product_handler", err)
			return
		}
		if items == nil {
			items = []productdom.Product{}
		}
		writeJSON(w, http.StatusOK, items)
		return
	}

	p, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeUsecaseErr(w, "product_handler", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func productFilterFromQuery(r *http.Request) (productdom.Filter, error) {
	q := r.URL.Query()
	f := productdom.Filter{
		Category: strings.TrimSpace(q.Get("category")),
		Size:     common.Size(q.Get("size")).Normalize(),
	}
	if s := strings.TrimSpace(q.Get("onSale")); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return f, err
		}
		f.OnSale = &b
	}
	return f, nil
}

// AdminProductHandler serves /api/admin/products. RequireAdmin wraps it in the router.
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewAdminProductHandler(uc *usecase.ProductUsecase) http.Handler {
	return &AdminProductHandler{uc: uc}
}

func (h *AdminProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "product handler is not configured")
		return
	}

	id, ok := cleanPath(r.URL.Path, "/api/admin/products")
	if !ok || strings.Contains(id, "/") {
		notFound(w)
		return
	}
	ctx := r.Context()

	switch {
	case id == "" && r.Method == http.MethodPost:
		var p productdom.Product
		if err := readJSONLoose(r, &p); err != nil {
			badRequest(w, "invalid json")
			return
		}
		created, err := h.uc.Create(ctx, p)
		if err != nil {
			writeUsecaseErr(w, "admin_product_handler", err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	case id != "" && (r.Method == http.MethodPut || r.Method == http.MethodPatch):
		var p productdom.Product
		if err := readJSONLoose(r, &p); err != nil {
			badRequest(w, "invalid json")
			return
		}
		updated, err := h.uc.Update(ctx, id, p)
		if err != nil {
			writeUsecaseErr(w, "admin_product_handler", err)
			return
		}
		writeJSON(w, http.StatusOK, updated)

	case id != "" && r.Method == http.MethodDelete:
		if err := h.uc.Delete(ctx, id); err != nil {
			writeUsecaseErr(w, "admin_product_handler", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w)
	}
}
