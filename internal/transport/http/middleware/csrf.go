package middleware

import (
	"log/slog"
	"net/http"

	"github.com/hurby24/Bibliobay-backend/internal/metrics"
	"github.com/hurby24/Bibliobay-backend/internal/pkg/csrf"
	"github.com/hurby24/Bibliobay-backend/internal/transport/http/cookie"
)

// CSRF challenges every unsafe request that carries a signed session cookie. A request
// without a valid X-CSRF-Token is rejected with 401 and handed a fresh token cookie to
// retry with. Requests without a session pass through untouched.
func CSRF(jar *cookie.Jar, secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafe(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			sid := jar.SessionID(r)
			if sid == "" {
				next.ServeHTTP(w, r)
				return
			}
			header := r.Header.Get(cookie.CSRFHeader)
			if header != "" && csrf.Verify(sid, header, secret) {
				next.ServeHTTP(w, r)
				return
			}

			reason := "invalid"
			if header == "" {
				reason = "missing"
			}
			metrics.CSRFRejections.WithLabelValues(reason).Inc()

			tok, err := csrf.Mint(sid, secret)
			if err != nil {
				slog.Error("csrf mint failed", "err", err)
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			jar.SetCSRF(w, tok)
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		})
	}
}

func isSafe(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
