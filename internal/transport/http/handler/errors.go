package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hurby24/Bibliobay-backend/internal/domain"
	"github.com/hurby24/Bibliobay-backend/internal/pkg/validate"
)

var statusBySentinel = []struct {
	err    error
	status int
}{
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrAlreadyLoggedIn, http.StatusBadRequest},
	{domain.ErrAlreadyVerified, http.StatusForbidden},
	{domain.ErrInvalidCredential, http.StatusBadRequest},
	{domain.ErrAttemptsExceeded, http.StatusTooManyRequests},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrBadRequest, http.StatusBadRequest},
}

// httpError maps err onto a status and a message safe to show the caller.
// Errors wrapping no domain sentinel are internal and only logged.
func httpError(err error) (int, string) {
	for _, m := range statusBySentinel {
		if errors.Is(err, m.err) {
			return m.status, publicMessage(err, m.err)
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

// publicMessage keeps the context written right before the sentinel, e.g. "invalid
// captcha: invalid credential" becomes "Invalid captcha".
func publicMessage(err, sentinel error) string {
	msg := sentinel.Error()
	if trimmed := strings.TrimSuffix(err.Error(), ": "+sentinel.Error()); trimmed != err.Error() {
		if i := strings.LastIndex(trimmed, ": "); i >= 0 {
			trimmed = trimmed[i+2:]
		}
		if trimmed != "" {
			msg = trimmed
		}
	}
	return capitalize(msg)
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *validate.Error
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusUnprocessableEntity, MessageEnvelope{
			Code:    http.StatusUnprocessableEntity,
			Message: "Validation failed",
			Details: strings.Join(ve.Fields, ", "),
		})
		return
	}
	status, msg := httpError(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeError(w, status, msg)
}
