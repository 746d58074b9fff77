package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/todo-server/internal/api/http/middleware"
	"github.com/dtroode/todo-server/internal/api/http/response"
	"github.com/dtroode/todo-server/internal/apierrors"
	"github.com/dtroode/todo-server/internal/logger"
	"github.com/dtroode/todo-server/internal/model"
	"github.com/dtroode/todo-server/internal/validation"
)

// AuthService defines account and session operations.
type AuthService interface {
	Signup(ctx context.Context, params model.SignupParams) (model.Session, error)
	Signin(ctx context.Context, email, password string) (model.Session, error)
	Logout(ctx context.Context, token string) (model.LogoutResult, error)
	GetUser(ctx context.Context, id uuid.UUID) (model.PublicUser, error)
}

type registerRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,maxbytes=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Name            string `json:"name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Message string           `json:"message"`
	ID      uuid.UUID        `json:"id"`
	Email   string           `json:"email"`
	Name    string           `json:"name"`
	Token   string           `json:"token"`
	User    model.PublicUser `json:"user"`
}

type userResponse struct {
	User model.PublicUser `json:"user"`
}

type logoutResponse struct {
	Message          string `json:"message"`
	TokenInvalidated bool   `json:"tokenInvalidated"`
	Note             string `json:"note"`
}

// Auth handles the /auth endpoints.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	errorWriter    *response.ErrorWriter
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(
	authService AuthService,
	contextManager model.ContextManager,
	errorWriter *response.ErrorWriter,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		errorWriter:    errorWriter,
		logger:         logger,
	}
}

// Register creates an account and signs the new user in.
func (h *Auth) Register(c *gin.Context) {
	var req registerRequest
	if !h.bind(c, &req) {
		return
	}

	h.logger.Debug("Auth handler: processing registration request",
		"email", req.Email)

	session, err := h.authService.Signup(c.Request.Context(), model.SignupParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newSessionResponse("user created successfully", session))
}

// Login checks credentials and issues a new token.
func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	if !h.bind(c, &req) {
		return
	}

	h.logger.Debug("Auth handler: processing login request",
		"email", req.Email)

	session, err := h.authService.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSessionResponse("authentication successful", session))
}

// GetUser returns the public profile of the user with the path id.
func (h *Auth) GetUser(c *gin.Context) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		h.handleError(c, apierrors.NewErrInvalidUserID(raw))
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, userResponse{User: user})
}

// Logout revokes the bearer token. The token is not verified, so expired
// tokens can still be logged out.
func (h *Auth) Logout(c *gin.Context) {
	token, ok := middleware.BearerToken(c.Request)
	if !ok {
		h.handleError(c, apierrors.NewErrMissingLogoutToken())
		return
	}

	result, err := h.authService.Logout(c.Request.Context(), token)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, logoutResponse{
		Message:          "logout successful",
		TokenInvalidated: result.Invalidated,
		Note:             "token invalidated, remove it from local storage",
	})
}

// Me returns the user resolved by the full session gate.
func (h *Auth) Me(c *gin.Context) {
	principal, ok := h.contextManager.GetPrincipalFromContext(c.Request.Context())
	if !ok || principal.User == nil {
		h.handleError(c, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	c.JSON(http.StatusOK, userResponse{User: *principal.User})
}

func (h *Auth) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.handleError(c, apierrors.NewErrMalformedBody(err))
		return false
	}
	if err := validation.Validate(req); err != nil {
		h.handleError(c, err)
		return false
	}
	return true
}

func newSessionResponse(message string, session model.Session) sessionResponse {
	return sessionResponse{
		Message: message,
		ID:      session.User.ID,
		Email:   session.User.Email,
		Name:    session.User.Name,
		Token:   session.Token,
		User:    session.User,
	}
}
