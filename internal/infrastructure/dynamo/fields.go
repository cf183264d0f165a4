package dynamo

// DynamoDB attribute names shared by key builders, conditions and update expressions.
const (
	fieldUserID            = "user_id"
	fieldSessionID         = "session_id"
	fieldEmail             = "email"
	fieldGoogleSub         = "google_sub"
	fieldExpiresAt         = "expires_at"
	fieldAttemptsRemaining = "attempts_remaining"
	fieldUpdatedAt         = "updated_at"
)

// Secondary indexes on the users table.
const (
	indexEmail     = "email-index"
	indexGoogleSub = "google_sub-index"
)
