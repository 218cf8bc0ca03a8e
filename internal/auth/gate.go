// Package auth implements the authorization gate in front of protected
// operations: it resolves a bearer token to the account that owns it or
// rejects the request before the operation runs.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-animal-go/internal/account/entity"
	accountrepo "github.com/ovaphlow/pitchfork/service-animal-go/internal/account/repo"
	"github.com/ovaphlow/pitchfork/service-animal-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-animal-go/internal/respond"
)

// AccountLookup resolves a token by exact match.
type AccountLookup interface {
	GetByBearerToken(ctx context.Context, token string) (*entity.Account, error)
}

// Gate resolves bearer tokens. cache may be nil.
type Gate struct {
	accounts AccountLookup
	cache    *TokenCache
	logger   *zap.SugaredLogger
}

func NewGate(accounts AccountLookup, cache *TokenCache, logger *zap.SugaredLogger) *Gate {
	return &Gate{accounts: accounts, cache: cache, logger: logger}
}

// Authorize returns the account owning token. Failures are authentication
// errors coded CodeTokenMissing, CodeTokenInvalid or CodeLookupFailed.
func (g *Gate) Authorize(ctx context.Context, token string) (entity.Account, error) {
	if token == "" {
		return entity.Account{}, apperr.Authentication(apperr.CodeTokenMissing, nil)
	}
	if a, ok := g.cache.Get(token); ok && a.BearerToken == token {
		return a, nil
	}
	a, err := g.accounts.GetByBearerToken(ctx, token)
	if err != nil {
		if errors.Is(err, accountrepo.ErrNotFound) {
			return entity.Account{}, apperr.Authentication(apperr.CodeTokenInvalid, nil)
		}
		return entity.Account{}, apperr.Authentication(apperr.CodeLookupFailed, err)
	}
	g.cache.Set(token, *a)
	return *a, nil
}

// TokenFromRequest returns the Authorization header value, without a
// leading "Bearer " scheme when one is present.
func TokenFromRequest(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) > len("bearer ") && strings.EqualFold(v[:len("bearer ")], "bearer ") {
		v = strings.TrimSpace(v[len("bearer "):])
	}
	return v
}

// ProtectedFunc is a handler that runs only for an authorized account. The
// account is the one resolved from the token, never from request input.
type ProtectedFunc func(w http.ResponseWriter, r *http.Request, account entity.Account)

// LoggedOutResponse is the body for a missing or unknown token.
type LoggedOutResponse struct {
	LoggedOut bool   `json:"loggedOut"`
	Message   string `json:"message"`
}

// Protect authorizes the request before calling fn. On failure the error
// response is written and fn is not called.
func (g *Gate) Protect(fn ProtectedFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := g.Authorize(r.Context(), TokenFromRequest(r))
		if err != nil {
			g.reject(w, r, err)
			return
		}
		fn(w, r, account)
	}
}

func (g *Gate) reject(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.CodeOf(err) == apperr.CodeLookupFailed {
		g.logger.Errorw("token lookup failed", "path", r.URL.Path, "err", err)
		respond.Message(w, http.StatusForbidden, "Access token missing or wrong")
		return
	}
	g.logger.Debugw("request not authorized", "path", r.URL.Path, "code", apperr.CodeOf(err))
	respond.JSON(w, http.StatusUnauthorized, LoggedOutResponse{LoggedOut: true, Message: "Please try logging in again"})
}
