// internal/adapters/in/http/handler/image_handler.go
package shopHandler

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	usecase "github.com/HydraRosario/vibeshoes/internal/application/usecase"
)

// ImageHandler serves POST /api/admin/images (multipart field "file").
type ImageHandler struct {
	uc *usecase.ImageUsecase
}

func NewImageHandler(uc *usecase.ImageUsecase) http.Handler {
	return &ImageHandler{uc: uc}
}

func (h *ImageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	// Room for multipart framing on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, usecase.MaxImageBytes+1<<20)
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		badRequest(w, "invalid multipart form or file too large")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, hdr, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "file is required")
		return
	}
	defer file.Close()

	ct := strings.TrimSpace(hdr.Header.Get("Content-Type"))
	if ct == "" || ct == "application/octet-stream" {
		ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(hdr.Filename)))
	}

	url, err := h.uc.Upload(r.Context(), hdr.Filename, ct, hdr.Size, file)
	if err != nil {
		writeUsecaseErr(w, "image_handler", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
