package middleware

import (
	"net/http"

	"github.com/jpvillanueva/oos-backend/api/responses"
	"github.com/jpvillanueva/oos-backend/internal/identity"
	"github.com/jpvillanueva/oos-backend/pkg/logger"
)

// RequireRoles gates an endpoint on a static role allow-list, checked against
// the principal Auth resolved.
func RequireRoles(logg *logger.Logger, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := &identity.Principal{
				Username: UsernameFromContext(r.Context()),
				UserRole: RoleFromContext(r.Context()),
			}
			if err := identity.Authorize(principal, roles...); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
