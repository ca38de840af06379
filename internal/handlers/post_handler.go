package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/microcosm-cc/bluemonday"

	"microblog/internal/managers"
	"microblog/internal/schemas"
	"microblog/internal/utils"
)

type PostHdl interface {
	Home(c *gin.Context)
	CreatePost(c *gin.Context)
	Timeline(c *gin.Context)
}

type PostHandler struct {
	DatabaseManager managers.DatabaseMgr
	SessionManager  managers.SessionMgr
	Validator       *utils.Validator
}

// messagePolicy strips all markup from post messages before storing them.
var messagePolicy = bluemonday.StrictPolicy()

func NewPostHandler(databaseManager *managers.DatabaseMgr, sessionManager *managers.SessionMgr) PostHdl {
	return &PostHandler{
		DatabaseManager: *databaseManager,
		SessionManager:  *sessionManager,
		Validator:       utils.GetValidator(),
	}
}

// Home renders the feed: every user with their post count, ordered by
// username, plus the ten most recent posts system-wide.
func (handler *PostHandler) Home(c *gin.Context) {
	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() {
		utils.RollbackTransaction(c, tx, err)
	}()

	ctx := c.Request.Context()

	queryString := "SELECT u.user_id, u.username, u.first_name, u.last_name, COUNT(p.post_id) FROM social_schema.users u LEFT JOIN social_schema.posts p ON p.author_id = u.user_id GROUP BY u.user_id, u.username, u.first_name, u.last_name ORDER BY u.username"
	rows, err := tx.Query(ctx, queryString)
	if err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return
	}

	users, err := scanUserRows(rows)
	if err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return
	}

	queryString = "SELECT p.post_id, p.author_id, u.username, p.message, p.created_at FROM social_schema.posts p JOIN social_schema.users u ON u.user_id = p.author_id ORDER BY p.created_at DESC, p.post_id DESC LIMIT 10"
	rows, err = tx.Query(ctx, queryString)
	if err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return
	}

	posts, err := scanPostViews(rows)
	if err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	renderPage(c, handler.SessionManager, http.StatusOK, "home.html", gin.H{
		"Users": users,
		"Posts": posts,
	})
}

// CreatePost publishes a post for the logged-in user. Whitespace-only
// submissions are rejected before anything touches the database.
func (handler *PostHandler) CreatePost(c *gin.Context) {
	session := utils.SessionFromContext(c)
	if session == nil || !session.LoggedIn() {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	authorId, parseErr := uuid.Parse(session.UserID)
	if parseErr != nil {
		utils.RenderError(c, http.StatusUnauthorized, schemas.Unauthorized, parseErr)
		return
	}

	createPostForm := &schemas.CreatePostForm{}
	if bindErr := c.ShouldBind(createPostForm); bindErr != nil {
		utils.FlashAndRedirect(c, handler.SessionManager, "error", schemas.BadRequest.Message, "/")
		return
	}

	createPostForm.Message = strings.TrimSpace(createPostForm.Message)
	if createPostForm.Message == "" {
		utils.FlashAndRedirect(c, handler.SessionManager, "error", schemas.EmptyPost.Message, "/")
		return
	}

	if validationErr := handler.Validator.Validate.Struct(createPostForm); validationErr != nil {
		utils.FlashAndRedirect(c, handler.SessionManager, "error", schemas.PostTooLong.Message, "/")
		return
	}

	message := messagePolicy.Sanitize(createPostForm.Message)
	if strings.TrimSpace(message) == "" {
		utils.FlashAndRedirect(c, handler.SessionManager, "error", schemas.EmptyPost.Message, "/")
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

	queryString := "INSERT INTO social_schema.posts (post_id, author_id, message, created_at) VALUES ($1, $2, $3, $4)"
	if _, err = tx.Exec(c.Request.Context(), queryString, uuid.New(), authorId, message, time.Now()); err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	utils.FlashAndRedirect(c, handler.SessionManager, "success", "Your post has been published.", "/")
}

// Timeline renders every post of one user, newest first.
func (handler *PostHandler) Timeline(c *gin.Context) {
	userId, parseErr := uuid.Parse(c.Param(utils.UserIdKey))
	if parseErr != nil {
		utils.RenderError(c, http.StatusNotFound, schemas.UserNotFound, parseErr)
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
	queryString := "SELECT user_id, username, first_name, last_name FROM social_schema.users WHERE user_id = $1"
	err = tx.QueryRow(ctx, queryString, userId).Scan(&user.ID, &user.Username, &user.FirstName, &user.LastName)
	if errors.Is(err, pgx.ErrNoRows) {
		utils.RenderError(c, http.StatusNotFound, schemas.UserNotFound, err)
		return
	} else if err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return
	}

	queryString = "SELECT p.post_id, p.author_id, u.username, p.message, p.created_at FROM social_schema.posts p JOIN social_schema.users u ON u.user_id = p.author_id WHERE p.author_id = $1 ORDER BY p.created_at DESC, p.post_id DESC"
	rows, err := tx.Query(ctx, queryString, userId)
	if err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return
	}

	posts, err := scanPostViews(rows)
	if err != nil {
		utils.RenderError(c, http.StatusInternalServerError, schemas.DatabaseError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	profileName := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if profileName == "" {
		profileName = user.Username
	}

	session := utils.SessionFromContext(c)

	renderPage(c, handler.SessionManager, http.StatusOK, "timeline.html", gin.H{
		"Timeline": schemas.TimelineView{
			ProfileUserID:   user.ID.String(),
			ProfileUsername: user.Username,
			ProfileName:     profileName,
			Posts:           posts,
			IsOwnProfile:    session != nil && session.UserID == user.ID.String(),
		},
	})
}

func scanUserRows(rows pgx.Rows) ([]schemas.UserRowView, error) {
	defer rows.Close()

	var users []schemas.UserRowView
	for rows.Next() {
		var userId uuid.UUID
		var username, firstName, lastName string
		var postCount int
		if err := rows.Scan(&userId, &username, &firstName, &lastName, &postCount); err != nil {
			return nil, err
		}

		users = append(users, schemas.UserRowView{
			UserID:    userId.String(),
			Username:  username,
			FirstName: firstName,
			LastName:  lastName,
			PostCount: postCount,
		})
	}

	return users, rows.Err()
}

func scanPostViews(rows pgx.Rows) ([]schemas.PostView, error) {
	defer rows.Close()

	var posts []schemas.PostView
	for rows.Next() {
		var postId, authorId uuid.UUID
		var username, message string
		var createdAt time.Time
		if err := rows.Scan(&postId, &authorId, &username, &message, &createdAt); err != nil {
			return nil, err
		}

		posts = append(posts, schemas.PostView{
			PostID:         postId.String(),
			AuthorID:       authorId.String(),
			AuthorUsername: username,
			Message:        message,
			CreatedAt:      createdAt.Format("Jan 2, 2006 at 15:04"),
		})
	}

	return posts, rows.Err()
}
