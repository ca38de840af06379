package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"microblog/internal/managers"
	"microblog/internal/schemas"
	"microblog/internal/utils"
)

type UserHdl interface {
	ShowRegister(c *gin.Context)
	Register(c *gin.Context)
	ShowLogin(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	VerifyEmail(c *gin.Context)
	ResendVerification(c *gin.Context)
}

type UserHandler struct {
	DatabaseManager managers.DatabaseMgr
	MailManager     managers.MailMgr
	SessionManager  managers.SessionMgr
	Validator       *utils.Validator
	BaseURL         string
}

func NewUserHandler(databaseManager *managers.DatabaseMgr, mailManager *managers.MailMgr, sessionManager *managers.SessionMgr, baseURL string) UserHdl {
	return &UserHandler{
		DatabaseManager: *databaseManager,
		MailManager:     *mailManager,
		SessionManager:  *sessionManager,
		Validator:       utils.GetValidator(),
		BaseURL:         baseURL,
	}
}

// ShowRegister renders the registration form.
func (handler *UserHandler) ShowRegister(c *gin.Context) {
	renderPage(c, handler.SessionManager, http.StatusOK, "register.html", gin.H{})
}

// Register creates a new, inactive user account and sends a verification
// email. The account is committed before the email goes out, so a failed
// delivery never loses the registration.
func (handler *UserHandler) Register(c *gin.Context) {
	registrationForm := &schemas.RegistrationForm{}
	if bindErr := c.ShouldBind(registrationForm); bindErr != nil {
		utils.FlashAndRedirect(c, handler.SessionManager, "error", schemas.BadRequest.Message, "/register")
		return
	}

	if validationErr := handler.Validator.Validate.Struct(registrationForm); validationErr != nil {
		utils.FlashAndRedirect(c, handler.SessionManager, "error", validationMessage(validationErr), "/register")
		return
	}

	if !handler.Validator.VerifyEmail(registrationForm.Email) {
		utils.FlashAndRedirect(c, handler.SessionManager, "error", schemas.EmailUnreachable.Message, "/register")
		return
	}

	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() {
		utils.RollbackTransaction(c, tx, err)
	}()

	ctx := c.Request.Context()

	taken, err := checkUsernameEmailTaken(ctx, tx, registrationForm.Username, registrationForm.Email)
	if err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return
	}
	if taken != nil {
		err = taken
		utils.FlashAndRedirect(c, handler.SessionManager, "error", taken.Message, "/register")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registrationForm.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.InternalServerError, err)
		return
	}

	user := &schemas.User{
		ID:        uuid.New(),
		Username:  registrationForm.Username,
		Email:     registrationForm.Email,
		FirstName: registrationForm.FirstName,
		LastName:  registrationForm.LastName,
	}

	queryString := "INSERT INTO social_schema.users (user_id, username, email, first_name, last_name, password, is_active, created_at) VALUES ($1, $2, $3, $4, $5, $6, false, $7)"
	if _, err = tx.Exec(ctx, queryString, user.ID, user.Username, user.Email, user.FirstName, user.LastName, hashedPassword, time.Now()); err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return
	}

	profile, err := getOrCreateProfile(ctx, tx, user.ID, false)
	if err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return
	}

	token, err := rotateVerificationToken(ctx, tx, profile.ID, time.Now())
	if err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	// The account exists from here on. A failed email only changes the
	// message the user sees.
	if mailErr := handler.sendVerificationMail(user, token); mailErr != nil {
		utils.LogErrorWithTrace(c, "Failed to send verification email", mailErr)
		utils.FlashAndRedirect(c, handler.SessionManager, "warning",
			"Your account was created, but the verification email could not be sent. You can request a new one below.",
			"/login?resend="+profile.ID.String())
		return
	}

	utils.FlashAndRedirect(c, handler.SessionManager, "success",
		"Your account was created. Please check your email to verify your address.", "/login")
}

// ShowLogin renders the login form. When a resend query parameter carries
// a profile id, the page offers a link to request a new verification email.
func (handler *UserHandler) ShowLogin(c *gin.Context) {
	data := gin.H{}
	if profileId := c.Query("resend"); profileId != "" {
		if _, parseErr := uuid.Parse(profileId); parseErr == nil {
			data["ResendProfileID"] = profileId
		}
	}

	renderPage(c, handler.SessionManager, http.StatusOK, "login.html", data)
}

// Login authenticates a user. Verification is checked before the password,
// so an unverified account learns it must verify even when the submitted
// credentials are wrong.
func (handler *UserHandler) Login(c *gin.Context) {
	loginForm := &schemas.LoginForm{}
	if bindErr := c.ShouldBind(loginForm); bindErr != nil {
		utils.FlashAndRedirect(c, handler.SessionManager, "error", schemas.BadRequest.Message, "/login")
		return
	}

	if validationErr := handler.Validator.Validate.Struct(loginForm); validationErr != nil {
		utils.FlashAndRedirect(c, handler.SessionManager, "error", schemas.InvalidCredentials.Message, "/login")
		return
	}

	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() {
		utils.RollbackTransaction(c, tx, err)
	}()

	ctx := c.Request.Context()

	user := &schemas.User{}
	queryString := "SELECT user_id, username, email, first_name, last_name, password, is_active FROM social_schema.users WHERE username = $1"
	err = tx.QueryRow(ctx, queryString, loginForm.Username).
		Scan(&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName, &user.Password, &user.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		utils.FlashAndRedirect(c, handler.SessionManager, "error", schemas.InvalidCredentials.Message, "/login")
		return
	} else if err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return
	}

	// Accounts that predate email verification get a profile on first
	// login, already verified. They were trusted before the feature
	// existed and stay trusted.
	profile, err := getOrCreateProfile(ctx, tx, user.ID, true)
	if err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return
	}

	if !profile.IsEmailVerified {
		if err = utils.CommitTransaction(c, tx); err != nil {
			return
		}
		utils.FlashAndRedirect(c, handler.SessionManager, "warning", schemas.EmailNotVerified.Message,
			"/login?resend="+profile.ID.String())
		return
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginForm.Password)); err != nil {
		utils.FlashAndRedirect(c, handler.SessionManager, "error", schemas.InvalidCredentials.Message, "/login")
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	// Swap the anonymous session for a fresh authenticated one.
	if oldSession := utils.SessionFromContext(c); oldSession != nil {
		if destroyErr := handler.SessionManager.Destroy(ctx, oldSession); destroyErr != nil {
			utils.LogWithTrace(c, "warn", "Failed to destroy anonymous session: "+destroyErr.Error())
		}
	}

	session, cookieValue, err := handler.SessionManager.Start(ctx)
	if err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.InternalServerError, err)
		return
	}

	session.UserID = user.ID.String()
	session.Username = user.Username
	session.AddFlash("success", "Welcome back, "+user.DisplayName()+"!")
	if err = handler.SessionManager.Save(ctx, session); err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.InternalServerError, err)
		return
	}

	utils.SetSessionCookie(c, cookieValue)
	c.Redirect(http.StatusFound, "/")
}

// Logout destroys the authenticated session and hands the visitor a fresh
// anonymous one carrying the goodbye message.
func (handler *UserHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	if session := utils.SessionFromContext(c); session != nil {
		if err := handler.SessionManager.Destroy(ctx, session); err != nil {
			utils.LogWithTrace(c, "warn", "Failed to destroy session on logout: "+err.Error())
		}
	}

	session, cookieValue, err := handler.SessionManager.Start(ctx)
	if err != nil {
		utils.ClearSessionCookie(c)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	session.AddFlash("info", "You have been logged out.")
	if err := handler.SessionManager.Save(ctx, session); err != nil {
		utils.LogWithTrace(c, "warn", "Failed to save session on logout: "+err.Error())
	}

	utils.SetSessionCookie(c, cookieValue)
	c.Redirect(http.StatusFound, "/login")
}

// VerifyEmail handles verification links. Unknown tokens bounce to the
// registration page, expired tokens get a page offering a resend, and a
// valid token activates the account and verifies the profile atomically.
func (handler *UserHandler) VerifyEmail(c *gin.Context) {
	token, parseErr := uuid.Parse(c.Param(utils.TokenKey))
	if parseErr != nil {
		utils.FlashAndRedirect(c, handler.SessionManager, "error", schemas.InvalidToken.Message, "/register")
		return
	}

	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() {
		utils.RollbackTransaction(c, tx, err)
	}()

	ctx := c.Request.Context()

	profile := &schemas.UserProfile{}
	queryString := "SELECT profile_id, user_id, is_email_verified, token_issued_at FROM social_schema.user_profiles WHERE verification_token = $1"
	err = tx.QueryRow(ctx, queryString, token).
		Scan(&profile.ID, &profile.UserID, &profile.IsEmailVerified, &profile.TokenIssuedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		utils.FlashAndRedirect(c, handler.SessionManager, "error", schemas.InvalidToken.Message, "/register")
		return
	} else if err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return
	}

	if profile.IsEmailVerified {
		if err = utils.CommitTransaction(c, tx); err != nil {
			return
		}
		utils.FlashAndRedirect(c, handler.SessionManager, "info",
			"Your email is already verified. You can log in.", "/login")
		return
	}

	if profile.TokenExpired(time.Now()) {
		if err = utils.CommitTransaction(c, tx); err != nil {
			return
		}
		renderPage(c, handler.SessionManager, http.StatusOK, "verification_expired.html", gin.H{
			"ProfileID": profile.ID.String(),
		})
		return
	}

	if _, err = tx.Exec(ctx, "UPDATE social_schema.users SET is_active = true WHERE user_id = $1", profile.UserID); err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return
	}

	if _, err = tx.Exec(ctx, "UPDATE social_schema.user_profiles SET is_email_verified = true WHERE profile_id = $1", profile.ID); err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	utils.FlashAndRedirect(c, handler.SessionManager, "success",
		"Your email has been verified. You can log in now.", "/login")
}

// ResendVerification rotates the profile's verification token and sends a
// fresh email. The previous token stops working immediately.
func (handler *UserHandler) ResendVerification(c *gin.Context) {
	profileId, parseErr := uuid.Parse(c.Param(utils.ProfileIdKey))
	if parseErr != nil {
		utils.FlashAndRedirect(c, handler.SessionManager, "error", schemas.UserNotFound.Message, "/register")
		return
	}

	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() {
		utils.RollbackTransaction(c, tx, err)
	}()

	ctx := c.Request.Context()

	user := &schemas.User{}
	var isEmailVerified bool
	queryString := "SELECT p.is_email_verified, u.user_id, u.username, u.email, u.first_name, u.last_name FROM social_schema.user_profiles p JOIN social_schema.users u ON u.user_id = p.user_id WHERE p.profile_id = $1"
	err = tx.QueryRow(ctx, queryString, profileId).
		Scan(&isEmailVerified, &user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName)
	if errors.Is(err, pgx.ErrNoRows) {
		utils.FlashAndRedirect(c, handler.SessionManager, "error", schemas.UserNotFound.Message, "/register")
		return
	} else if err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return
	}

	if isEmailVerified {
		if err = utils.CommitTransaction(c, tx); err != nil {
			return
		}
		utils.FlashAndRedirect(c, handler.SessionManager, "info",
			"Your email is already verified. You can log in.", "/login")
		return
	}

	token, err := rotateVerificationToken(ctx, tx, profileId, time.Now())
	if err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	if mailErr := handler.sendVerificationMail(user, token); mailErr != nil {
		utils.LogErrorWithTrace(c, "Failed to send verification email", mailErr)
		utils.FlashAndRedirect(c, handler.SessionManager, "warning", schemas.EmailNotSent.Message,
			"/login?resend="+profileId.String())
		return
	}

	utils.FlashAndRedirect(c, handler.SessionManager, "success",
		"A new verification email is on its way. Please check your inbox.", "/login")
}

func (handler *UserHandler) sendVerificationMail(user *schemas.User, token uuid.UUID) error {
	verificationURL := handler.BaseURL + "/verify-email/" + token.String()
	return handler.MailManager.SendVerificationMail(user.Email, user.Username, user.FirstName, user.LastName, verificationURL)
}

// checkUsernameEmailTaken reports which of the two unique fields collides
// with an existing account, username taking precedence.
func checkUsernameEmailTaken(ctx context.Context, tx pgx.Tx, username, email string) (*schemas.CustomError, error) {
	rows, err := tx.Query(ctx, "SELECT username, email FROM social_schema.users WHERE username = $1 OR email = $2", username, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var taken *schemas.CustomError
	for rows.Next() {
		var foundUsername, foundEmail string
		if err := rows.Scan(&foundUsername, &foundEmail); err != nil {
			return nil, err
		}

		if foundUsername == username {
			return schemas.UsernameTaken, nil
		}
		if foundEmail == email {
			taken = schemas.EmailTaken
		}
	}

	return taken, rows.Err()
}

// getOrCreateProfile fetches the user's profile, creating it when missing.
// The upsert makes concurrent first requests for the same user converge on
// a single row.
func getOrCreateProfile(ctx context.Context, tx pgx.Tx, userId uuid.UUID, verifiedDefault bool) (*schemas.UserProfile, error) {
	profile := &schemas.UserProfile{}
	queryString := "INSERT INTO social_schema.user_profiles (profile_id, user_id, is_email_verified, verification_token, token_issued_at) VALUES ($1, $2, $3, $4, NULL) ON CONFLICT (user_id) DO UPDATE SET user_id = excluded.user_id RETURNING profile_id, user_id, is_email_verified, verification_token, token_issued_at"
	if err := tx.QueryRow(ctx, queryString, uuid.New(), userId, verifiedDefault, uuid.New()).
		Scan(&profile.ID, &profile.UserID, &profile.IsEmailVerified, &profile.Token, &profile.TokenIssuedAt); err != nil {
		return nil, err
	}

	return profile, nil
}

// rotateVerificationToken issues a fresh token with a fresh issuance time.
func rotateVerificationToken(ctx context.Context, tx pgx.Tx, profileId uuid.UUID, now time.Time) (uuid.UUID, error) {
	token := uuid.New()
	if _, err := tx.Exec(ctx, "UPDATE social_schema.user_profiles SET verification_token = $1, token_issued_at = $2 WHERE profile_id = $3", token, now, profileId); err != nil {
		return uuid.Nil, err
	}

	return token, nil
}

// validationMessage maps the first validation failure to a user-facing hint.
func validationMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return schemas.BadRequest.Message
	}

	switch validationErrs[0].Field() {
	case "Username":
		return "Username is required, at most 20 characters, using only letters, digits, dots, dashes and underscores."
	case "Email":
		return "Please enter a valid email address."
	case "Password":
		return "Password must be at least 8 characters with an upper case letter, a lower case letter, a digit and a special character."
	case "FirstName", "LastName":
		return "Names may be at most 30 characters long."
	}

	return schemas.BadRequest.Message
}
