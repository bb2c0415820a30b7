package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rolodex-app/rolodex/internal/platform/httpx"
	"github.com/rolodex-app/rolodex/internal/shared"
)

// Gate resolves a bearer token into an authenticated identity. Missing
// credentials, bad or expired tokens and unknown subjects all surface as the
// same 401, so clients cannot tell which step rejected them.
type Gate struct {
	logger *slog.Logger
	tokens *TokenManager
	repo   Repository
}

// NewGate constructs a Gate.
func NewGate(logger *slog.Logger, tokens *TokenManager, repo Repository) *Gate {
	return &Gate{logger: logger, tokens: tokens, repo: repo}
}

// RequireUser is middleware that rejects requests without a valid bearer
// token and puts the resolved identity into the request context.
func (g *Gate) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			unauthorized(w)
			return
		}

		email, err := g.tokens.Decode(token)
		if err != nil {
			unauthorized(w)
			return
		}

		user, err := g.repo.FindByEmail(r.Context(), email)
		if err != nil {
			// Only an unknown subject is a credential failure; a store
			// outage must not masquerade as 401.
			if errors.Is(err, shared.ErrNotFound) {
				unauthorized(w)
				return
			}
			g.logger.Error("resolve identity", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}

		ctx := shared.ContextWithIdentity(r.Context(), &shared.Identity{ID: user.ID, Email: user.Email})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	httpx.RespondError(w, shared.ErrInvalidCredentials)
}
