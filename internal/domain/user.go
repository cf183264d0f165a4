package domain

import "time"

const (
	AuthProviderEmail  = "email"
	AuthProviderGoogle = "google"
)

// User is the account record. The auth flows only read it and stamp sign-in and
// email confirmation times on it.
type User struct {
	UserID           string     `json:"id" dynamodbav:"user_id"`
	Username         string     `json:"username" dynamodbav:"username"`
	Email            string     `json:"email" dynamodbav:"email"`
	Bio              string     `json:"bio" dynamodbav:"bio"`
	Avatar           string     `json:"avatar" dynamodbav:"avatar"`
	Banner           *string    `json:"banner" dynamodbav:"banner"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at" dynamodbav:"email_confirmed_at"`
	IsBanned         bool       `json:"is_banned" dynamodbav:"is_banned"`
	Private          bool       `json:"private" dynamodbav:"private"`
	AuthProvider     string     `json:"auth_provider,omitempty" dynamodbav:"auth_provider"`
	GoogleSub        string     `json:"-" dynamodbav:"google_sub,omitempty"`
	LastSignInAt     time.Time  `json:"last_sign_in_at" dynamodbav:"last_sign_in_at"`
	CreatedAt        time.Time  `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// EmailVerified reports whether the user has confirmed their email address.
func (u *User) EmailVerified() bool {
	return u.EmailConfirmedAt != nil
}

// ExternalIdentity is what an OAuth provider asserts about the signed-in account.
type ExternalIdentity struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}
