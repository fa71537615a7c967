package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"quadramall/apienvelope/internal/common"
	"quadramall/apienvelope/internal/logging"
	"quadramall/apienvelope/pkg/envelope"
)

// Recoverer turns a panic into a 500 error envelope.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logging.FromContext(r.Context()).Errorw("Panic recovered",
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()),
			)
			common.RespondError(w, r, envelope.Internal(fmt.Errorf("panic: %v", rec)))
		}()

		next.ServeHTTP(w, r)
	})
}
