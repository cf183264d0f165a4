package handler

import (
	"net/http"

	"github.com/hurby24/Bibliobay-backend/internal/pkg/token"
)

const stateLength = 32

type oauthProvider interface {
	NewCodeVerifier() string
	AuthCodeURL(state, codeVerifier string) string
}

// OAuthHandler starts and completes Google sign-in.
type OAuthHandler struct {
	*AuthHandler
	provider        oauthProvider
	successRedirect string
}

// NewOAuthHandler builds the Google sign-in handler. With an empty successRedirect the
// callback answers with the user as JSON instead of redirecting.
func NewOAuthHandler(a *AuthHandler, provider oauthProvider, successRedirect string) *OAuthHandler {
	return &OAuthHandler{AuthHandler: a, provider: provider, successRedirect: successRedirect}
}

func (h *OAuthHandler) Start(w http.ResponseWriter, r *http.Request) {
	state, err := token.String(stateLength, token.Alphanumeric)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	verifier := h.provider.NewCodeVerifier()
	h.jar.SetOAuth(w, state, verifier)
	http.Redirect(w, r, h.provider.AuthCodeURL(state, verifier), http.StatusFound)
}

func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	state, verifier, ok := h.jar.OAuth(r)
	h.jar.ClearOAuth(w)
	q := r.URL.Query()
	if !ok || q.Get("state") == "" || q.Get("state") != state {
		writeError(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	if q.Get("error") != "" || q.Get("code") == "" {
		writeError(w, http.StatusBadRequest, "Authorization was not granted")
		return
	}

	res, err := h.svc.OAuthCallback(r.Context(), q.Get("code"), verifier, h.meta(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.setSession(w, res)
	if h.successRedirect != "" {
		http.Redirect(w, r, h.successRedirect, http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, res.User)
}
