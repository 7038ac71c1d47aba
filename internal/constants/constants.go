package constants

const (
	// ContextKeyUserID is the gin context key under which the
	// authenticated user's ID is stored by the auth middleware.
	ContextKeyUserID = "user_id"

	// MinPasswordLength is the minimum accepted password length at registration.
	MinPasswordLength = 8

	// DateLayout is the calendar-date format used on the wire and in exports.
	DateLayout = "2006-01-02"
)
