package httpx

import (
	"net/http"
	"runtime/debug"

	"github.com/slma/membership/pkg/slogx"
)

// RecoverMiddleware is the last-resort handler for panicking requests. It
// returns the standard error envelope; the stack trace is included in the
// body only outside prod.
func RecoverMiddleware(env string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				log := slogx.FromContext(r.Context())
				stack := string(debug.Stack())
				log.Error("panic while serving request",
					"panic", rec,
					"stack", stack,
				)

				body := map[string]any{
					"success": false,
					"message": "Server Error",
				}
				if env != "prod" {
					body["stack"] = stack
				}
				WriteJSON(w, http.StatusInternalServerError, body)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
