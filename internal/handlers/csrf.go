package handlers

import (
	"net/http"

	"github.com/gorilla/csrf"
)

// CSRFMiddlewares returns the chain protecting every console form. When the
// console is served over plain HTTP the request is marked as such, which
// keeps the origin check but drops the HTTPS-only referer check.
func CSRFMiddlewares(key []byte, secure bool, trustedOrigins []string) []func(http.Handler) http.Handler {
	var chain []func(http.Handler) http.Handler
	if !secure {
		chain = append(chain, plaintextMiddleware)
	}
	return append(chain, csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.TrustedOrigins(trustedOrigins),
	))
}

func plaintextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
