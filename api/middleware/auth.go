package middleware

import (
	"net/http"

	"github.com/jpvillanueva/oos-backend/api/responses"
	"github.com/jpvillanueva/oos-backend/api/validators"
	"github.com/jpvillanueva/oos-backend/internal/identity"
	"github.com/jpvillanueva/oos-backend/pkg/logger"
)

// Auth resolves the bearer credential against the identity oracle and stashes
// the principal (and the raw token, for forwarding) in the request context.
func Auth(oracle identity.Resolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := validators.BearerToken(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			principal, err := oracle.Me(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithPrincipal(r.Context(), principal.Username, principal.UserRole)
			ctx = WithToken(ctx, token)
			if logg != nil {
				ctx = logg.WithUsername(ctx, principal.Username)
				ctx = logg.WithActorRole(ctx, principal.UserRole)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
