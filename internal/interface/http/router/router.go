// Package router assembles the gin engine of the booknotes API.
package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/xiebiao/booknotes/docs" // registers the swagger document
	"github.com/xiebiao/booknotes/internal/interface/http/handler"
	"github.com/xiebiao/booknotes/internal/interface/http/middleware"
	"github.com/xiebiao/booknotes/pkg/response"
)

// Handlers groups every HTTP handler
type Handlers struct {
	Books    *handler.BookHandler
	Reviews  *handler.ReviewHandler
	Notes    *handler.NoteHandler
	Views    *handler.ViewHandler
	Sessions *handler.SessionHandler
}

// New builds the engine. mode is the gin mode (debug, release or test).
// Forwarded client addresses are only honoured from trustedProxies; with
// none, the client IP is the connection's remote address.
func New(mode string, trustedProxies []string, logger *zap.Logger, sessions *middleware.SessionMiddleware, signInLimiter *middleware.IPRateLimiter, h Handlers) (*gin.Engine, error) {
	gin.SetMode(mode)

	r := gin.New()
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(logger),
		middleware.Metrics(),
		middleware.Tracing(),
	)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.Use(sessions.Resolve())
	{
		books := v1.Group("/books")
		{
			books.GET("", h.Books.ListBooks)
			books.GET("/:id", h.Books.GetBook)
			books.POST("", sessions.RequireEditor(), h.Books.CreateBook)
			books.PUT("/:id", sessions.RequireEditor(), h.Books.UpdateBook)
			books.DELETE("/:id", sessions.RequireEditor(), h.Books.DeleteBook)

			books.GET("/:id/review", h.Reviews.GetReview)
			books.POST("/:id/review", h.Reviews.CreateReview)

			books.GET("/:id/notes", h.Notes.ListNotes)
			books.POST("/:id/notes", h.Notes.CreateNote)
		}

		v1.PUT("/reviews/:id", h.Reviews.UpdateReview)
		v1.DELETE("/reviews/:id", h.Reviews.DeleteReview)

		v1.PUT("/notes/:id", h.Notes.UpdateNote)
		v1.DELETE("/notes/:id", h.Notes.DeleteNote)

		views := v1.Group("/views")
		{
			views.GET("/home", h.Views.Home)
			views.GET("/top-rated", h.Views.TopRated)
			views.GET("/most-recent", h.Views.MostRecent)
			views.GET("/books/:id", h.Views.Detail)
			views.GET("/reviews", h.Views.SearchReviews)
		}

		session := v1.Group("/session")
		{
			session.POST("", h.Sessions.CreateSession)
			session.GET("", h.Sessions.GetSession)
			session.DELETE("", h.Sessions.SignOut)
			session.POST("/sign-in", signInLimiter.Middleware(), h.Sessions.SignIn)
		}
	}

	return r, nil
}
