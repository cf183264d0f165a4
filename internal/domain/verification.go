package domain

import "time"

const (
	OTPLength      = 6
	OTPTTL         = 15 * time.Minute
	OTPMaxAttempts = 3
)

// OTP is the single outstanding email verification code of a user.
// PK: user_id. ExpiresAt doubles as the DynamoDB TTL attribute.
type OTP struct {
	UserID            string    `json:"user_id" dynamodbav:"user_id"`
	Code              string    `json:"-" dynamodbav:"code"`
	Email             string    `json:"email" dynamodbav:"email"`
	ExpiresAt         time.Time `json:"expires_at" dynamodbav:"expires_at,unixtime"`
	AttemptsRemaining int       `json:"attempts_remaining" dynamodbav:"attempts_remaining"`
}

// Expired reports whether the code can no longer be used at now.
func (o *OTP) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

// OTP email modes.
const (
	OTPModeSignup = "Signup"
	OTPModeLogin  = "Login"
)

// OTPMessage is what the email collaborator renders for a code delivery.
type OTPMessage struct {
	Mode   string
	Code   string
	Device string
	Date   time.Time
}
