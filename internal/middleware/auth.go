package middleware

import (
	"net/http"
	"strings"

	"quadramall/apienvelope/internal/auth"
	"quadramall/apienvelope/internal/common"
	"quadramall/apienvelope/internal/constants"
	"quadramall/apienvelope/internal/logging"
	"quadramall/apienvelope/pkg/envelope"
)

// AuthMiddleware requires a valid bearer token and stores its claims in the context.
func AuthMiddleware(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondError(w, r, envelope.Unauthorized(constants.MsgMissingToken))
				return
			}

			claims, err := tokens.Parse(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				logging.FromContext(r.Context()).Debugw("Token rejected", "error", err.Error())
				common.RespondError(w, r, envelope.Unauthorized(constants.MsgInvalidToken))
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets the request through only if the caller holds one of roles.
// It must run after AuthMiddleware.
func RequireRole(roles ...constants.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())
			if claims == nil {
				common.RespondError(w, r, envelope.Unauthorized(constants.MsgMissingToken))
				return
			}
			if !claims.HasRole(roles...) {
				common.RespondError(w, r, envelope.Forbidden(constants.MsgInsufficientRole))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
