package schemas

// CustomError is an error with a stable code and a user-facing message.
// The code is what gets logged; the message is what pages show.
type CustomError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *CustomError) Error() string {
	return e.Code + ": " + e.Message
}

var (
	// BadRequest covers malformed form submissions and invalid parameters.
	BadRequest = &CustomError{
		Code:    "ERR-001",
		Message: "The request is invalid. Please check your input and try again.",
	}
	// UsernameTaken is returned when registering with an existing username.
	UsernameTaken = &CustomError{
		Code:    "ERR-002",
		Message: "The username is already taken. Please try another username.",
	}
	// EmailTaken is returned when registering with an existing email.
	EmailTaken = &CustomError{
		Code:    "ERR-003",
		Message: "The email is already registered. Please use another email.",
	}
	// UserNotFound covers lookups of unknown users or profiles.
	UserNotFound = &CustomError{
		Code:    "ERR-004",
		Message: "User not found.",
	}
	// InvalidToken is returned for verification links that match no profile.
	InvalidToken = &CustomError{
		Code:    "ERR-005",
		Message: "Invalid verification link.",
	}
	// TokenExpired is returned for verification links past their window.
	TokenExpired = &CustomError{
		Code:    "ERR-006",
		Message: "Verification link has expired. Please request a new verification email.",
	}
	// InvalidCredentials deliberately does not say which field was wrong.
	InvalidCredentials = &CustomError{
		Code:    "ERR-007",
		Message: "Invalid username or password.",
	}
	// EmailNotVerified blocks login until the address is verified.
	EmailNotVerified = &CustomError{
		Code:    "ERR-008",
		Message: "Please verify your email address before logging in.",
	}
	// EmptyPost rejects posts without any content.
	EmptyPost = &CustomError{
		Code:    "ERR-009",
		Message: "Post cannot be empty.",
	}
	// PostTooLong rejects posts over the message limit.
	PostTooLong = &CustomError{
		Code:    "ERR-010",
		Message: "Post is too long. The maximum length is 500 characters.",
	}
	// EmailNotSent reports a failed verification email delivery. The
	// triggering account mutation is never rolled back because of it.
	EmailNotSent = &CustomError{
		Code:    "ERR-011",
		Message: "Verification email could not be sent. Please try again later.",
	}
	// DatabaseError covers unexpected datastore failures.
	DatabaseError = &CustomError{
		Code:    "ERR-012",
		Message: "Something went wrong on our side. Please try again later.",
	}
	// InternalServerError covers everything else unexpected.
	InternalServerError = &CustomError{
		Code:    "ERR-013",
		Message: "Something went wrong on our side. Please try again later.",
	}
	// Unauthorized is returned for requests that require a logged-in user.
	Unauthorized = &CustomError{
		Code:    "ERR-014",
		Message: "Please log in to continue.",
	}
	// EmailUnreachable rejects registrations whose email domain accepts
	// no mail.
	EmailUnreachable = &CustomError{
		Code:    "ERR-015",
		Message: "The email address appears to be unreachable. Please check it and try again.",
	}
)
