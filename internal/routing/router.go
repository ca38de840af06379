package routing

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"microblog/internal/handlers"
	"microblog/internal/managers"
	"microblog/internal/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

// InitRouter assembles the gin engine: common middleware, embedded HTML
// templates and all routes.
func InitRouter(databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, sessionMgr managers.SessionMgr, baseURL string) *gin.Engine {
	router := gin.New()
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	setupCommonMiddleware(router, sessionMgr)
	setupRoutes(router, databaseMgr, mailMgr, sessionMgr, baseURL)

	return router
}

func setupCommonMiddleware(router *gin.Engine, sessionMgr managers.SessionMgr) {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.InjectTrace())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"http://localhost:8080"},
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Accept", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	router.Use(middleware.SanitizePath())
	router.Use(middleware.LogRequest())
	router.Use(middleware.TrackMetrics())
	router.Use(middleware.LoadSession(sessionMgr))
}

func setupRoutes(router *gin.Engine, databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, sessionMgr managers.SessionMgr, baseURL string) {
	router.GET("/health", func(c *gin.Context) {
		if err := databaseMgr.GetPool().Ping(c.Request.Context()); err != nil {
			c.String(http.StatusInternalServerError, "Database not responding")
			return
		}
		c.Status(http.StatusOK)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	userHdl := handlers.NewUserHandler(&databaseMgr, &mailMgr, &sessionMgr, baseURL)
	router.GET("/register", userHdl.ShowRegister)
	router.POST("/register", userHdl.Register)
	router.GET("/login", userHdl.ShowLogin)
	router.POST("/login", userHdl.Login)
	router.GET("/logout", userHdl.Logout)
	router.GET("/verify-email/:token", userHdl.VerifyEmail)
	router.GET("/resend-verification/:profileId", userHdl.ResendVerification)

	postHdl := handlers.NewPostHandler(&databaseMgr, &sessionMgr)
	router.GET("/posts/timeline/:userId", postHdl.Timeline)

	authRouter := router.Group("/")
	authRouter.Use(middleware.RequireAuth())
	{
		authRouter.GET("", postHdl.Home)
		authRouter.POST("posts/create", postHdl.CreatePost)
	}
}
