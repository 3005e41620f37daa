package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/romangod6/blog-api/internal/storage"
	"go.uber.org/zap"
)

type Options struct {
	Port              int
	AllowedOrigins    []string
	LegacyStatusCodes bool
	Logger            *zap.SugaredLogger
	Metrics           Recorder
}

type Server struct {
	router *gin.Engine
	port   int
	server *http.Server
}

func NewServer(store storage.Store, opts Options) *Server {
	handler := NewHandler(store, opts)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(handler.logger))
	router.Use(RequestMetrics(handler.recorder))

	// Setup CORS
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !allowsAny(origins),
		MaxAge:           12 * time.Hour,
	}))

	router.NoRoute(handler.NoRoute)

	// Setup routes
	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)

		api.GET("/articles", handler.ListArticles)
		api.POST("/article/new", handler.CreateArticle)
		api.GET("/article/:id", handler.GetArticle)
		api.GET("/article/:id/comments", handler.GetArticleComments)

		api.POST("/comment/new", handler.CreateComment)
		api.GET("/comment/:id", handler.GetComment)
		api.GET("/comment/:id/responses", handler.GetCommentResponses)
	}

	return &Server{
		router: router,
		port:   opts.Port,
	}
}

// Handler exposes the router, mainly for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         listenAddr(s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func allowsAny(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func listenAddr(port int) string {
	return ":" + strconv.Itoa(port)
}
