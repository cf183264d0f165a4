package google

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/hurby24/Bibliobay-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type mockIDTokens struct{ mock.Mock }

func (m *mockIDTokens) Verify(ctx context.Context, token string) (*Payload, error) {
	args := m.Called(ctx, token)
	if p, _ := args.Get(0).(*Payload); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func testOAuth(tokenURL string, ids idTokenVerifier) *OAuth {
	return &OAuth{
		cfg: &oauth2.Config{
			ClientID:     "client",
			ClientSecret: "secret",
			RedirectURL:  "https://api.bibliobay.net/v1/auth/google/callback",
			Endpoint:     oauth2.Endpoint{AuthURL: "https://accounts.example/auth", TokenURL: tokenURL},
			Scopes:       []string{"openid", "email"},
		},
		idTokens: ids,
	}
}

func TestAuthCodeURL_CarriesStateAndS256Challenge(t *testing.T) {
	o := testOAuth("https://accounts.example/token", nil)
	verifier := o.NewCodeVerifier()

	u, err := url.Parse(o.AuthCodeURL("state-123", verifier))
	require.NoError(t, err)
	q := u.Query()

	sum := sha256.Sum256([]byte(verifier))
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, base64.RawURLEncoding.EncodeToString(sum[:]), q.Get("code_challenge"))
	assert.Equal(t, "client", q.Get("client_id"))
}

func TestExchange_SendsVerifierAndMapsIdentity(t *testing.T) {
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer","expires_in":3600,"id_token":"raw-id-token"}`))
	}))
	defer srv.Close()

	ids := &mockIDTokens{}
	ids.On("Verify", mock.Anything, "raw-id-token").Return(&Payload{
		Sub: "sub-1", Email: "reader@example.com", EmailVerified: true, Name: "Reader",
	}, nil)

	ident, err := testOAuth(srv.URL, ids).Exchange(context.Background(), "the-code", "the-verifier")
	require.NoError(t, err)

	assert.Equal(t, "the-code", form.Get("code"))
	assert.Equal(t, "the-verifier", form.Get("code_verifier"))
	assert.Equal(t, &domain.ExternalIdentity{
		Provider: domain.AuthProviderGoogle, Subject: "sub-1", Email: "reader@example.com",
		EmailVerified: true, Name: "Reader",
	}, ident)
}

func TestExchange_MissingIDToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer"}`))
	}))
	defer srv.Close()

	_, err := testOAuth(srv.URL, &mockIDTokens{}).Exchange(context.Background(), "c", "v")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestExchange_ProviderRejectsCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	_, err := testOAuth(srv.URL, &mockIDTokens{}).Exchange(context.Background(), "c", "v")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}
