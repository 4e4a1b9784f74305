// internal/adapters/in/http/middleware/user_auth.go
package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
)

// FirebaseAuthClient is the firebase auth client alias, so DI can hand it over unchanged.
type FirebaseAuthClient = fbauth.Client

// VerifiedToken is what the shop needs from a verified ID token.
type VerifiedToken struct {
	UID    string
	Claims map[string]any
}

// TokenVerifier verifies a Firebase ID token.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*VerifiedToken, error)
}

type firebaseVerifier struct {
	client *FirebaseAuthClient
}

// NewFirebaseVerifier adapts *auth.Client to TokenVerifier. A nil client yields nil.
func NewFirebaseVerifier(client *FirebaseAuthClient) TokenVerifier {
	if client == nil {
		return nil
	}
	return &firebaseVerifier{client: client}
}

func (v *firebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*VerifiedToken, error) {
	tok, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return &VerifiedToken{UID: tok.UID, Claims: tok.Claims}, nil
}

type ctxKey struct{ name string }

var (
	ctxKeyUID        = ctxKey{name: "uid"}
	ctxKeyEmail      = ctxKey{name: "email"}
	ctxKeyFullName   = ctxKey{name: "fullName"}
	ctxKeyAdminClaim = ctxKey{name: "adminClaim"}
)

// UserAuthMiddleware verifies "Authorization: Bearer <idToken>" and stores the uid,
// email, display name and admin claim in the request context.
type UserAuthMiddleware struct {
	Verifier TokenVerifier
}

func (m *UserAuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil || m.Verifier == nil {
			writeAuthError(w, http.StatusInternalServerError, "auth is not configured")
			return
		}

		idToken, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "missing or invalid Authorization header")
			return
		}

		tok, err := m.Verifier.VerifyIDToken(r.Context(), idToken)
		if err != nil || tok == nil || strings.TrimSpace(tok.UID) == "" {
			log.Printf("[user_auth] verify failed path=%s err=%v", r.URL.Path, err)
			writeAuthError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUID, strings.TrimSpace(tok.UID))
		if email := claimString(tok.Claims, "email"); email != "" {
			ctx = context.WithValue(ctx, ctxKeyEmail, email)
		}
		if name := claimString(tok.Claims, "name"); name != "" {
			ctx = context.WithValue(ctx, ctxKeyFullName, name)
		}
		if admin, _ := tok.Claims["admin"].(bool); admin {
			ctx = context.WithValue(ctx, ctxKeyAdminClaim, true)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(h string) (string, bool) {
	h = strings.TrimSpace(h)
	if len(h) < len("Bearer ") || !strings.EqualFold(h[:len("Bearer ")], "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[len("Bearer "):])
	return tok, tok != ""
}

func claimString(claims map[string]any, key string) string {
	if claims == nil {
		return ""
	}
	s, _ := claims[key].(string)
	return strings.TrimSpace(s)
}

func writeAuthError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// WithUser returns ctx carrying an authenticated user, as the middleware would.
// Used by tests and internal callers.
func WithUser(ctx context.Context, uid, email, name string, adminClaim bool) context.Context {
	ctx = context.WithValue(ctx, ctxKeyUID, uid)
	if email != "" {
		ctx = context.WithValue(ctx, ctxKeyEmail, email)
	}
	if name != "" {
		ctx = context.WithValue(ctx, ctxKeyFullName, name)
	}
	if adminClaim {
		ctx = context.WithValue(ctx, ctxKeyAdminClaim, true)
	}
	return ctx
}

func CurrentUserUID(r *http.Request) (string, bool) {
	uid, _ := r.Context().Value(ctxKeyUID).(string)
	return uid, uid != ""
}

func CurrentUserUIDAndEmail(r *http.Request) (uid string, email string, ok bool) {
	uid, ok = CurrentUserUID(r)
	if !ok {
		return "", "", false
	}
	email, _ = r.Context().Value(ctxKeyEmail).(string)
	return uid, email, true
}

func CurrentUserName(r *http.Request) string {
	s, _ := r.Context().Value(ctxKeyFullName).(string)
	return s
}

func CurrentUserAdminClaim(r *http.Request) bool {
	v, _ := r.Context().Value(ctxKeyAdminClaim).(bool)
	return v
}
