package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"mall-backend/pkg/utils"
)

// PanicRecovery turns a panicking handler into a 500 instead of tearing
// down the connection. Sits outermost in the middleware chain.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[Panic] %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				utils.Error(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
