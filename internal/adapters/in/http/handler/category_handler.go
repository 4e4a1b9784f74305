// internal/adapters/in/http/handler/category_handler.go
package shopHandler

import (
	"net/http"
	"strings"

	usecase "github.com/HydraRosario/vibeshoes/internal/application/usecase"
)

// CategoryHandler serves GET /api/categories and, behind RequireAdmin,
// POST /api/admin/categories and DELETE /api/admin/categories/{name}.
type CategoryHandler struct {
	uc *usecase.CategoryUsecase
}

func NewCategoryHandler(uc *usecase.CategoryUsecase) http.Handler {
	return &CategoryHandler{uc: uc}
}

func (h *CategoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "category handler is not configured")
		return
	}
	ctx := r.Context()

	if rest, ok := cleanPath(r.URL.Path, "/api/categories"); ok {
		if rest != "" {
			notFound(w)
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		names, err := h.uc.Names(ctx)
		if err != nil {
			writeUsecaseErr(w, "category_handler", err)
			return
		}
		if names == nil {
			names = []string{}
		}
		writeJSON(w, http.StatusOK, names)
		return
	}

	name, ok := cleanPath(r.URL.Path, "/api/admin/categories")
	if !ok {
		notFound(w)
		return
	}
	switch {
	case name == "" && r.Method == http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if err := readJSON(r, &req); err != nil {
			badRequest(w, "invalid json")
			return
		}
		c, err := h.uc.Add(ctx, req.Name)
		if err != nil {
			writeUsecaseErr(w, "category_handler", err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	case name != "" && r.Method == http.MethodDelete:
		if err := h.uc.Delete(ctx, strings.TrimSpace(name)); err != nil {
			writeUsecaseErr(w, "category_handler", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}
