package google

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hurby24/Bibliobay-backend/internal/domain"
	"google.golang.org/api/idtoken"
)

// Payload is the subset of ID token claims sign-in relies on.
type Payload struct {
	Sub           string
	Email         string
	EmailVerified bool
	Name          string
}

type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// Verifier checks Google ID token signatures, expiry and audience.
type Verifier struct {
	clientID string
	validate validateFunc
}

func NewVerifier(clientID string) *Verifier {
	return &Verifier{clientID: clientID, validate: idtoken.Validate}
}

// Verify returns the claims of a valid token issued for our client id.
// Any rejection wraps domain.ErrUnauthorized.
func (v *Verifier) Verify(ctx context.Context, token string) (*Payload, error) {
	p, err := v.validate(ctx, token, v.clientID)
	if err != nil {
		slog.Warn("google id token rejected", "err", err)
		return nil, fmt.Errorf("invalid google token: %w", domain.ErrUnauthorized)
	}
	if p.Subject == "" {
		return nil, fmt.Errorf("google token without subject: %w", domain.ErrUnauthorized)
	}
	return payloadFromClaims(p.Subject, p.Claims), nil
}

func payloadFromClaims(sub string, claims map[string]interface{}) *Payload {
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if name == "" {
		given, _ := claims["given_name"].(string)
		family, _ := claims["family_name"].(string)
		name = strings.TrimSpace(given + " " + family)
	}
	return &Payload{
		Sub:           sub,
		Email:         strings.ToLower(strings.TrimSpace(email)),
		EmailVerified: truthy(claims["email_verified"]),
		Name:          name,
	}
}

// truthy accepts email_verified as a JSON bool or the string form some tokens carry.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true")
	}
	return false
}
