package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/todo-server/internal/api/http/response"
	"github.com/dtroode/todo-server/internal/apierrors"
	"github.com/dtroode/todo-server/internal/logger"
	"github.com/dtroode/todo-server/internal/model"
)

// TokenService checks bearer tokens against the revocation registry and the verifier.
type TokenService interface {
	CheckToken(ctx context.Context, token string) (uuid.UUID, error)
}

// SubjectResolver loads the user a verified token belongs to.
type SubjectResolver interface {
	ResolveSubject(ctx context.Context, id uuid.UUID) (model.PublicUser, error)
}

// Authenticate is the session gate. Full resolves the token subject against
// the credential store; Lightweight stops after token verification.
type Authenticate struct {
	tokenService    TokenService
	subjectResolver SubjectResolver
	contextManager  model.ContextManager
	errorWriter     *response.ErrorWriter
	logger          *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(
	tokenService TokenService,
	subjectResolver SubjectResolver,
	contextManager model.ContextManager,
	errorWriter *response.ErrorWriter,
	logger *logger.Logger,
) *Authenticate {
	return &Authenticate{
		tokenService:    tokenService,
		subjectResolver: subjectResolver,
		contextManager:  contextManager,
		errorWriter:     errorWriter,
		logger:          logger,
	}
}

// Full admits requests whose token is present, not revoked, valid and whose
// subject still exists. The principal carries the public user.
func (m *Authenticate) Full() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, userID, err := m.checkRequest(c)
		if err != nil {
			m.errorWriter.Abort(c, err)
			return
		}

		user, err := m.subjectResolver.ResolveSubject(c.Request.Context(), userID)
		if err != nil {
			m.logger.Info("Authenticate middleware: subject rejected",
				"user_id", userID,
				"error", err.Error())
			m.errorWriter.Abort(c, err)
			return
		}

		m.admit(c, model.Principal{UserID: userID, User: &user, Token: token})
	}
}

// Lightweight admits requests whose token is present, not revoked and valid.
func (m *Authenticate) Lightweight() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, userID, err := m.checkRequest(c)
		if err != nil {
			m.errorWriter.Abort(c, err)
			return
		}

		m.admit(c, model.Principal{UserID: userID, Token: token})
	}
}

func (m *Authenticate) admit(c *gin.Context, principal model.Principal) {
	ctx := m.contextManager.SetPrincipalToContext(c.Request.Context(), principal)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

func (m *Authenticate) checkRequest(c *gin.Context) (string, uuid.UUID, error) {
	token, ok := BearerToken(c.Request)
	if !ok {
		return "", uuid.Nil, apierrors.NewErrMissingAuthorizationToken()
	}

	userID, err := m.tokenService.CheckToken(c.Request.Context(), token)
	switch {
	case err == nil:
		return token, userID, nil
	case errors.Is(err, model.ErrRevokedToken):
		return "", uuid.Nil, apierrors.NewErrRevokedAuthorizationToken()
	case errors.Is(err, model.ErrExpiredToken):
		return "", uuid.Nil, apierrors.NewErrExpiredAuthorizationToken()
	case errors.Is(err, model.ErrMalformedToken):
		return "", uuid.Nil, apierrors.NewErrMalformedAuthorizationToken()
	default:
		return "", uuid.Nil, err
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
