package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/hurby24/Bibliobay-backend/internal/application/auth"
	"github.com/hurby24/Bibliobay-backend/internal/pkg/validate"
	"github.com/hurby24/Bibliobay-backend/internal/transport/http/cookie"
	"github.com/hurby24/Bibliobay-backend/internal/transport/http/middleware"
)

const maxBodyBytes = 1 << 20

// AuthHandler serves the /v1/auth endpoints.
type AuthHandler struct {
	svc auth.Service
	jar *cookie.Jar
}

func NewAuthHandler(svc auth.Service, jar *cookie.Jar) *AuthHandler {
	return &AuthHandler{svc: svc, jar: jar}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req auth.EmailAuthRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Signup(r.Context(), req, h.meta(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.setSession(w, res)
	writeJSON(w, http.StatusCreated, res.User)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.EmailAuthRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Login(r.Context(), req, h.meta(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.setSession(w, res)
	writeJSON(w, http.StatusCreated, res.User)
}

func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResendOTP(r.Context(), h.meta(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{
		Code:    http.StatusCreated,
		Message: "New OTP has been created and sent successfully.",
	})
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Verify(r.Context(), req, h.meta(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.setSession(w, res)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), h.meta(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.jar.ClearSession(w)
	h.jar.ClearCSRF(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Current(r.Context(), h.meta(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionEnvelope{Session: toSessionView(res.Session), User: res.User})
}

func (h *AuthHandler) meta(r *http.Request) auth.RequestMeta {
	return auth.RequestMeta{
		SessionID: h.jar.SessionID(r),
		IP:        middleware.RealIP(r),
		UserAgent: r.UserAgent(),
	}
}

// setSession writes the session and CSRF cookies for a freshly minted session.
func (h *AuthHandler) setSession(w http.ResponseWriter, res *auth.Result) {
	h.jar.SetSession(w, res.Session.SessionID, !res.Session.EmailVerified)
	if res.CSRFToken != "" {
		h.jar.SetCSRF(w, res.CSRFToken)
	}
}

// decode reads a JSON body into dst and validates it, writing the error response itself.
func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil {
		msg := "Invalid JSON payload"
		if errors.Is(err, io.EOF) {
			msg = "Request body is required"
		}
		writeError(w, http.StatusBadRequest, msg)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		h.fail(w, r, err)
		return false
	}
	return true
}
