package constants

// Context keys set by the auth middleware.
const (
	ContextKeyPrincipal = "principal"
)

// Field limits enforced by the services.
const (
	MinUsernameLength    = 3
	MaxUsernameLength    = 50
	MinPasswordLength    = 6
	MaxTitleLength       = 255
	MaxNameLength        = 255
	MaxDescriptionLength = 1000
)

// TopStatisticsLimit bounds the top-N statistics endpoints.
const TopStatisticsLimit = 5
