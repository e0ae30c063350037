package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/phrazzld/secondchance-api/internal/api/shared"
	"github.com/phrazzld/secondchance-api/internal/platform/logger"
	"github.com/phrazzld/secondchance-api/internal/redact"
)

// Recoverer turns a panic in a handler into a 500 JSON response.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
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

			logger.FromContext(r.Context()).Error("handler panicked",
				"panic", redact.String(fmt.Sprint(rec)),
				"stack", redact.String(string(debug.Stack())),
				"path", r.URL.Path,
				"method", r.Method,
				"trace_id", shared.GetTraceID(r.Context()))

			shared.RespondWithError(w, r, http.StatusInternalServerError, "An unexpected error occurred")
		}()

		next.ServeHTTP(w, r)
	})
}
