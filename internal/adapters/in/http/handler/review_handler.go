// internal/adapters/in/http/handler/review_handler.go
package shopHandler

import (
	"net/http"
	"strings"

	"github.com/HydraRosario/vibeshoes/internal/adapters/in/http/middleware"
	usecase "github.com/HydraRosario/vibeshoes/internal/application/usecase"
	reviewdom "github.com/HydraRosario/vibeshoes/internal/domain/review"
)

// ReviewHandler serves
//   - GET    /api/products/{id}/reviews
//   - GET    /api/products/{id}/reviews/me   (auth)
//   - POST   /api/reviews                    (auth)
//   - PATCH  /api/reviews/{id}               (auth, owner)
//   - DELETE /api/reviews/{id}               (auth, owner or admin)
type ReviewHandler struct {
	uc     *usecase.ReviewUsecase
	admins middleware.AdminChecker
}

func NewReviewHandler(uc *usecase.ReviewUsecase, admins middleware.AdminChecker) http.Handler {
	return &ReviewHandler{uc: uc, admins: admins}
}

type addReviewRequest struct {
	ProductID string `json:"productId"`
	OrderID   string `json:"orderId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	UserName  string `json:"userName"`
}

type updateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "review handler is not configured")
		return
	}

	if rest, ok := cleanPath(r.URL.Path, "/api/products"); ok {
		h.serveProductReviews(w, r, rest)
		return
	}

	id, ok := cleanPath(r.URL.Path, "/api/reviews")
	if !ok || strings.Contains(id, "/") {
		notFound(w)
		return
	}
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}

	switch {
	case id == "" && r.Method == http.MethodPost:
		h.add(w, r, uid)
	case id != "" && (r.Method == http.MethodPatch || r.Method == http.MethodPut):
		var req updateReviewRequest
		if err := readJSON(r, &req); err != nil {
			badRequest(w, "invalid json")
			return
		}
		rv, err := h.uc.Update(r.Context(), uid, id, req.Rating, req.Comment)
		if err != nil {
			writeUsecaseErr(w, "review_handler", err)
			return
		}
		writeJSON(w, http.StatusOK, rv)
	case id != "" && r.Method == http.MethodDelete:
		if err := h.uc.Delete(r.Context(), uid, middleware.IsAdmin(r, h.admins), id); err != nil {
			writeUsecaseErr(w, "review_handler", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

// serveProductReviews handles "{productId}/reviews" and "{productId}/reviews/me".
func (h *ReviewHandler) serveProductReviews(w http.ResponseWriter, r *http.Request, rest string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	parts := strings.Split(rest, "/")
	if len(parts) < 2 || parts[1] != "reviews" || parts[0] == "" {
		notFound(w)
		return
	}
	productID := parts[0]

	switch len(parts) {
	case 2:
		list, err := h.uc.ListByProduct(r.Context(), productID)
		if err != nil {
			writeUsecaseErr(w, "review_handler", err)
			return
		}
		if list == nil {
			list = []reviewdom.Review{}
		}
		writeJSON(w, http.StatusOK, list)
	case 3:
		if parts[2] != "me" {
			notFound(w)
			return
		}
		uid, ok := requireUID(w, r)
		if !ok {
			return
		}
		rv, err := h.uc.GetByUserAndProduct(r.Context(), uid, productID)
		if err != nil {
			writeUsecaseErr(w, "review_handler", err)
			return
		}
		writeJSON(w, http.StatusOK, rv)
	default:
		notFound(w)
	}
}

func (h *ReviewHandler) add(w http.ResponseWriter, r *http.Request, uid string) {
	var req addReviewRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	name := middleware.CurrentUserName(r)
	if name == "" {
		name = strings.TrimSpace(req.UserName)
	}
	rv, err := h.uc.Add(r.Context(), usecase.AddReviewInput{
		UserID:    uid,
		UserName:  name,
		ProductID: req.ProductID,
		OrderID:   req.OrderID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		writeUsecaseErr(w, "review_handler", err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}
