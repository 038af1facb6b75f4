package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/dvi/internal/common"
)

type ctxKey int

const mechanicIDKey ctxKey = iota

// MechanicIDFromContext returns the mechanic authenticated by requireAuth.
func MechanicIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(mechanicIDKey).(int64)
	return id, ok
}

func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || token == "" {
			writeMessage(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		id, err := h.auth.VerifyToken(token)
		if err != nil {
			h.logger.Debug(r.Context(), "token rejected", "err", err)
			writeMessage(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), mechanicIDKey, id)))
	}
}
