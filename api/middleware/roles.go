package middleware

import (
	"net/http"
	"slices"

	"github.com/loyafu/storefront-backend/api/responses"
	"github.com/loyafu/storefront-backend/pkg/enums"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
	"github.com/loyafu/storefront-backend/pkg/logger"
)

// RequireRole admits requests whose token role is one of allowed. Place it
// after Auth; a request Auth never saw is treated as unauthenticated.
func RequireRole(logg *logger.Logger, allowed ...enums.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := RoleFromContext(r.Context())
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			role, err := enums.ParseRole(raw)
			if err != nil || !slices.Contains(allowed, role) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeForbidden, "role %s may not access this resource", raw))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
