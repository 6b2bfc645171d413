package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/loyafu/storefront-backend/api/responses"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
	"github.com/loyafu/storefront-backend/pkg/logger"
)

const CartSessionHeader = "X-Cart-Session"

// CartSession resolves the anonymous shopper session. A missing header starts
// a new session; a malformed one is rejected. The id is echoed on every
// response so the storefront can persist it.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(CartSessionHeader))
			if sessionID == "" {
				sessionID = uuid.NewString()
			} else if parsed, err := uuid.Parse(sessionID); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid cart session").
					WithDetails(map[string]any{"header": CartSessionHeader}))
				return
			} else {
				sessionID = parsed.String()
			}

			w.Header().Set(CartSessionHeader, sessionID)
			ctx := WithCartSession(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
