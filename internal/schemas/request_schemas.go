// Package schemas defines the form structures for the application's POST endpoints.
package schemas

// RegistrationForm is the registration form submission.
// Username is required, at most 20 characters and restricted to [a-zA-Z0-9.-_]
// Email is required and must be a valid address
// FirstName and LastName are optional display names
// Password is required, at least 8 characters with upper, lower, digit and symbol
type RegistrationForm struct {
	Username  string `form:"username" validate:"required,max=20,username_validation"`
	Email     string `form:"email" validate:"required,email"`
	FirstName string `form:"first_name" validate:"max=30"`
	LastName  string `form:"last_name" validate:"max=30"`
	Password  string `form:"password" validate:"required,min=8,password_validation"`
}

// LoginForm is the login form submission.
type LoginForm struct {
	Username string `form:"username" validate:"required,max=20"`
	Password string `form:"password" validate:"required"`
}

// CreatePostForm is the post creation form submission. The handler
// additionally rejects messages that are empty after trimming.
type CreatePostForm struct {
	Message string `form:"message" validate:"max=500"`
}
