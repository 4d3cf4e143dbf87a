package common

import (
	"context"
	"net/http"
	"strings"

	"github.com/klede-lab/waitlist/internal/model"
	"github.com/klede-lab/waitlist/pkg/authenticator"
	"github.com/klede-lab/waitlist/pkg/xcontext"
)

// AdminVerifier accepts a request carrying either an admin session cookie or
// an admin bearer token.
type AdminVerifier struct {
	tokenEngine authenticator.TokenEngine[model.AccessToken]
}

func NewAdminVerifier(tokenEngine authenticator.TokenEngine[model.AccessToken]) *AdminVerifier {
	return &AdminVerifier{tokenEngine: tokenEngine}
}

func (v *AdminVerifier) Verify(ctx context.Context) bool {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return false
	}

	if token := bearerToken(req); token != "" {
		if claim, err := v.tokenEngine.Verify(token); err == nil && claim.Admin {
			return true
		}
	}

	store := xcontext.SessionStore(ctx)
	if store == nil {
		return false
	}

	session, err := store.Get(req, xcontext.Configs(ctx).Session.Name)
	if err != nil {
		return false
	}

	isAdmin, ok := session.Values[model.AdminSessionKey].(bool)
	return ok && isAdmin
}

func bearerToken(req *http.Request) string {
	auth, token, found := strings.Cut(req.Header.Get("Authorization"), " ")
	if !found || auth != "Bearer" {
		return ""
	}

	return token
}
