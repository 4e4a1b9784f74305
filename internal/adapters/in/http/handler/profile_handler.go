// internal/adapters/in/http/handler/profile_handler.go
package shopHandler

import (
	"net/http"
	"strings"

	"github.com/HydraRosario/vibeshoes/internal/adapters/in/http/middleware"
	usecase "github.com/HydraRosario/vibeshoes/internal/application/usecase"
)

// ProfileHandler serves /api/me/profile.
type ProfileHandler struct {
	uc *usecase.UserUsecase
}

func NewProfileHandler(uc *usecase.UserUsecase) http.Handler {
	return &ProfileHandler{uc: uc}
}

type ensureProfileRequest struct {
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "profile handler is not configured")
		return
	}
	if strings.TrimRight(r.URL.Path, "/") != "/api/me/profile" {
		notFound(w)
		return
	}
	uid, email, ok := middleware.CurrentUserUIDAndEmail(r)
	if !ok {
		unauthorized(w)
		return
	}

	switch r.Method {
	case http.MethodGet:
		u, err := h.uc.Get(r.Context(), uid)
		if err != nil {
			writeUsecaseErr(w, "profile_handler", err)
			return
		}
		writeJSON(w, http.StatusOK, u)

	case http.MethodPost, http.MethodPut:
		var req ensureProfileRequest
		if r.ContentLength != 0 {
			if err := readJSON(r, &req); err != nil {
				badRequest(w, "invalid json")
				return
			}
		}
		name := strings.TrimSpace(req.DisplayName)
		if name == "" {
			name = middleware.CurrentUserName(r)
		}
		u, err := h.uc.EnsureProfile(r.Context(), usecase.EnsureProfileInput{
			UID:         uid,
			Email:       email,
			DisplayName: name,
			PhotoURL:    req.PhotoURL,
			AdminClaim:  middleware.CurrentUserAdminClaim(r),
		})
		if err != nil {
			writeUsecaseErr(w, "profile_handler", err)
			return
		}
		writeJSON(w, http.StatusOK, u)

	default:
		methodNotAllowed(w)
	}
}
