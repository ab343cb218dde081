// Package auth authenticates API requests with HS256 bearer tokens and
// carries the authenticated user ID through the request context.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/diewo77/go-mairie/httpx"
)

type ctxKey string

const (
	userIDCtxKey = ctxKey("userID")
	claimsCtxKey = ctxKey("claims")
)

// UserVerifier checks that a token's user still exists. A nil verifier
// accepts every valid token. An error means the check itself failed.
type UserVerifier func(ctx context.Context, uid uint) (bool, error)

// Authenticator wires an Issuer and an optional UserVerifier into middleware.
// OnError, when set, is told about verifier failures.
type Authenticator struct {
	Issuer   *Issuer
	Verifier UserVerifier
	OnError  func(r *http.Request, err error)
}

// NewAuthenticator creates an authenticator.
func NewAuthenticator(issuer *Issuer, verifier UserVerifier) *Authenticator {
	return &Authenticator{Issuer: issuer, Verifier: verifier}
}

// WithUserID stores user id in context.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDCtxKey).(uint)
	return id, ok && id != 0
}

// ClaimsFromContext returns the parsed token claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsCtxKey).(*Claims)
	return c, ok
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Middleware attaches the user id to the request context when a valid
// bearer token is present. It never rejects a request.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok, ok := BearerToken(r); ok {
			if claims, err := a.Issuer.Parse(tok); err == nil {
				ctx := WithUserID(r.Context(), claims.UserID)
				ctx = context.WithValue(ctx, claimsCtxKey, claims)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth answers 401 unless the request carries a valid token whose
// user still passes the verifier, and 500 when the verifier fails.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if ok && a.Verifier != nil {
			exists, err := a.Verifier(r.Context(), uid)
			if err != nil {
				if a.OnError != nil {
					a.OnError(r, err)
				}
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
				return
			}
			ok = exists
		}
		if !ok {
			w.Header().Set("WWW-Authenticate", `Bearer realm="mairie"`)
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
