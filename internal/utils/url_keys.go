package utils

const (
	// TokenKey is the key for the verification token used in routing parameters.
	TokenKey = "token"

	// ProfileIdKey is the key for the verification profile ID used in routing parameters.
	ProfileIdKey = "profileId"

	// UserIdKey is the key for the user ID used in routing parameters.
	UserIdKey = "userId"
)
