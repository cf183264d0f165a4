package google

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hurby24/Bibliobay-backend/internal/domain"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
)

type idTokenVerifier interface {
	Verify(ctx context.Context, token string) (*Payload, error)
}

// OAuth runs the authorization-code flow with PKCE against Google and turns the
// returned ID token into a domain.ExternalIdentity.
type OAuth struct {
	cfg      *oauth2.Config
	idTokens idTokenVerifier
}

func NewOAuth(clientID, clientSecret, redirectURL string) *OAuth {
	return &OAuth{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     googleoauth.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		idTokens: NewVerifier(clientID),
	}
}

// NewCodeVerifier returns a fresh PKCE code verifier.
func (o *OAuth) NewCodeVerifier() string {
	return oauth2.GenerateVerifier()
}

// AuthCodeURL is the consent page URL for state, bound to codeVerifier via S256.
func (o *OAuth) AuthCodeURL(state, codeVerifier string) string {
	return o.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(codeVerifier))
}

func (o *OAuth) Exchange(ctx context.Context, code, codeVerifier string) (*domain.ExternalIdentity, error) {
	tok, err := o.cfg.Exchange(ctx, code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		slog.Warn("google code exchange failed", "err", err)
		return nil, fmt.Errorf("google code exchange failed: %w", domain.ErrUnauthorized)
	}
	raw, _ := tok.Extra("id_token").(string)
	if raw == "" {
		return nil, fmt.Errorf("google token response without id_token: %w", domain.ErrUnauthorized)
	}
	p, err := o.idTokens.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	return &domain.ExternalIdentity{
		Provider:      domain.AuthProviderGoogle,
		Subject:       p.Sub,
		Email:         p.Email,
		EmailVerified: p.EmailVerified,
		Name:          p.Name,
	}, nil
}
