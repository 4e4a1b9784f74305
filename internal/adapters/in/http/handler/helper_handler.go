// internal/adapters/in/http/handler/helper_handler.go
package shopHandler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/HydraRosario/vibeshoes/internal/adapters/in/http/middleware"
	usecase "github.com/HydraRosario/vibeshoes/internal/application/usecase"
)

// ============================================================
// HTTP helpers
// ============================================================

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": strings.TrimSpace(msg)})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed"})
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": strings.TrimSpace(msg)})
}

func unauthorized(w http.ResponseWriter) {
	writeErr(w, http.StatusUnauthorized, "unauthorized")
}

func readJSON(r *http.Request, dst any) error {
	if dst == nil {
		return errors.New("dst is nil")
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)) // 1MB
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// readJSONLoose is readJSON without the unknown-field check, for payloads
// whose senders attach extra keys.
func readJSONLoose(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(dst)
}

// cleanPath trims a trailing slash and strips prefix. ok is false when path is outside prefix.
func cleanPath(raw, prefix string) (rest string, ok bool) {
	p := strings.TrimRight(raw, "/")
	if p == prefix {
		return "", true
	}
	if !strings.HasPrefix(p, prefix+"/") {
		return "", false
	}
	return strings.TrimPrefix(p, prefix+"/"), true
}

func requireUID(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid, ok := middleware.CurrentUserUID(r)
	if !ok {
		unauthorized(w)
		return "", false
	}
	return uid, true
}

// writeUsecaseErr maps the usecase error taxonomy onto status codes.
func writeUsecaseErr(w http.ResponseWriter, tag string, err error) {
	var up *usecase.UpstreamError
	switch {
	case errors.Is(err, usecase.ErrInvalidArgument):
		badRequest(w, publicMessage(err, usecase.ErrInvalidArgument))
	case errors.Is(err, usecase.ErrForbidden):
		writeErr(w, http.StatusForbidden, publicMessage(err, usecase.ErrForbidden))
	case errors.Is(err, usecase.ErrNotFound):
		writeErr(w, http.StatusNotFound, publicMessage(err, usecase.ErrNotFound))
	case errors.Is(err, usecase.ErrConflict), errors.Is(err, usecase.ErrInvalidTransition):
		writeErr(w, http.StatusConflict, err.Error())
	case errors.Is(err, usecase.ErrNotConfigured):
		msg := "not configured"
		if d, ok := errDetail(err, usecase.ErrNotConfigured); ok {
			msg = d + " not configured"
		}
		writeErr(w, http.StatusNotImplemented, msg)
	case errors.As(err, &up):
		log.Printf("[%s] upstream error provider=%s status=%d msg=%q", tag, up.Provider, up.StatusCode, up.Message)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":   up.Provider + " API error",
			"details": up.Payload,
		})
	default:
		log.Printf("[%s] error: %v", tag, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error", "message": err.Error()})
	}
}

// publicMessage returns the detail after "<sentinel>: ", or the sentinel text without its "usecase: " prefix.
func publicMessage(err, sentinel error) string {
	if d, ok := errDetail(err, sentinel); ok {
		return d
	}
	return strings.TrimPrefix(sentinel.Error(), "usecase: ")
}

func errDetail(err, sentinel error) (string, bool) {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	i := strings.Index(msg, marker)
	if i < 0 {
		return "", false
	}
	d := strings.TrimSpace(msg[i+len(marker):])
	return d, d != ""
}

// requestOrigin infers scheme://host from proxy headers ("" when unknown).
func requestOrigin(r *http.Request) string {
	proto := strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-Proto"), ",")[0])
	host := strings.TrimSpace(r.Header.Get("X-Forwarded-Host"))
	if host == "" {
		host = strings.TrimSpace(r.Host)
	}
	if proto == "" || host == "" {
		return ""
	}
	return proto + "://" + host
}
