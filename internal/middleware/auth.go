package middleware

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/AdamBeresnev/bracket-engine/internal/httputil"
	"github.com/alexedwards/scs/v2"
)

const (
	roleKey        = "role"
	fingerprintKey = "admin_token"
	RoleAdmin      = "admin"
)

var ErrBadToken = errors.New("invalid admin token")

// AdminAuth turns the configured admin token into a session. The session keeps a fingerprint
// of the token, so rotating the token locks out old sessions.
type AdminAuth struct {
	sessions    *scs.SessionManager
	fingerprint string
}

func NewAdminAuth(sessions *scs.SessionManager, token string) *AdminAuth {
	a := &AdminAuth{sessions: sessions}
	if token != "" {
		a.fingerprint = fingerprint(token)
	}
	return a
}

func fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Login starts an admin session when token matches. An empty configured token disables login.
func (a *AdminAuth) Login(ctx context.Context, token string) error {
	if a.fingerprint == "" || subtle.ConstantTimeCompare([]byte(fingerprint(token)), []byte(a.fingerprint)) != 1 {
		return ErrBadToken
	}
	if err := a.sessions.RenewToken(ctx); err != nil {
		return err
	}
	a.sessions.Put(ctx, roleKey, RoleAdmin)
	a.sessions.Put(ctx, fingerprintKey, a.fingerprint)
	return nil
}

func (a *AdminAuth) Logout(ctx context.Context) error {
	return a.sessions.Destroy(ctx)
}

// RequireAdmin answers 401 without a session and 403 when the session is not a current admin.
func (a *AdminAuth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := a.sessions.GetString(r.Context(), roleKey)
		if role == "" {
			httputil.Unauthorized(w, "admin session required")
			return
		}

		held := a.sessions.GetString(r.Context(), fingerprintKey)
		if role != RoleAdmin || a.fingerprint == "" || subtle.ConstantTimeCompare([]byte(held), []byte(a.fingerprint)) != 1 {
			httputil.Forbidden(w, "session is not allowed to administer tournaments")
			return
		}

		next.ServeHTTP(w, r)
	})
}
