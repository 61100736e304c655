package middleware

import (
	"encoding/json"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// Recovery converts handler panics into 500 responses. The stack trace is
// always logged; it is only written to the client in development.
func Recovery(next http.Handler) http.Handler {
	development := os.Getenv("ENV") == "development"

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				stack := debug.Stack()
				log.Error().
					Interface("panic", rec).
					Str("path", r.URL.Path).
					Bytes("stack", stack).
					Msg("handler panicked")

				body := map[string]interface{}{
					"success": false,
					"error":   "internal server error",
				}
				if development {
					body["stack"] = string(stack)
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(body)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
