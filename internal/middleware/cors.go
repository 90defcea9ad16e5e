package middleware

import (
	"net/http"
)

const (
	corsAllowHeaders = "authorization, x-client-info, apikey, content-type, x-webhook-secret"
	corsAllowMethods = "POST, GET, OPTIONS"
)

// Cors is permissive: the scoring endpoints are called straight from the
// browser client. Pre-flight requests are answered here, before auth.
func Cors() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
			w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
