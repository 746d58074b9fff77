package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dtroode/todo-server/internal/api/http/handler"
	"github.com/dtroode/todo-server/internal/api/http/middleware"
	"github.com/dtroode/todo-server/internal/api/http/response"
	"github.com/dtroode/todo-server/internal/logger"
	"github.com/dtroode/todo-server/internal/model"
)

// AuthService is everything the router needs from the auth service.
type AuthService interface {
	handler.AuthService
	middleware.SubjectResolver
}

// Options configures the HTTP surface.
type Options struct {
	CORSOrigins []string
	// Development exposes error details and the revocation diagnostics route.
	Development bool
}

// Router builds the gin engine for the to-do API.
type Router struct {
	authService    AuthService
	tokenService   middleware.TokenService
	registry       handler.RevocationRegistry
	contextManager model.ContextManager
	opts           Options
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
func New(
	authService AuthService,
	tokenService middleware.TokenService,
	registry handler.RevocationRegistry,
	contextManager model.ContextManager,
	opts Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		tokenService:   tokenService,
		registry:       registry,
		contextManager: contextManager,
		opts:           opts,
		logger:         logger,
	}
}

// Register wires middleware and routes into a new gin engine. The gin mode is
// left to the caller.
func (r *Router) Register() *gin.Engine {
	errorWriter := response.NewErrorWriter(r.logger, r.opts.Development)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.authService, r.contextManager, errorWriter, r.logger)

	engine := gin.New()
	engine.Use(
		middleware.Recovery(errorWriter, r.logger),
		middleware.NewLogging(r.logger).Handle(),
		middleware.CORS(middleware.DefaultCORSConfig(r.opts.CORSOrigins)),
	)

	engine.GET("/", handler.Status)

	authHandler := handler.NewAuth(r.authService, r.contextManager, errorWriter, r.logger)
	auth := engine.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/user/:id", authenticate.Lightweight(), authHandler.GetUser)
	auth.GET("/me", authenticate.Full(), authHandler.Me)

	if r.opts.Development {
		revocationHandler := handler.NewRevocation(r.registry)
		auth.GET("/revocations/stats", authenticate.Full(), revocationHandler.Stats)
	}

	return engine
}
