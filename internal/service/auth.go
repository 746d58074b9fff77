package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/todo-server/internal/apierrors"
	"github.com/dtroode/todo-server/internal/logger"
	"github.com/dtroode/todo-server/internal/model"
	"github.com/dtroode/todo-server/internal/password"
)

type Auth struct {
	userStore      model.UserStore
	hasher         model.PasswordHasher
	tokenService   *TokenService
	normalizeEmail bool
	now            func() time.Time
	logger         *logger.Logger
}

// AuthOption configures Auth.
type AuthOption func(*Auth)

// WithEmailNormalization makes signup and signin compare emails
// case-insensitively by lower-casing and trimming them.
func WithEmailNormalization(enabled bool) AuthOption {
	return func(a *Auth) { a.normalizeEmail = enabled }
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenService *TokenService,
	logger *logger.Logger,
	opts ...AuthOption,
) *Auth {
	a := &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenService: tokenService,
		now:          time.Now,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Auth) Signup(ctx context.Context, params model.SignupParams) (model.Session, error) {
	email := a.canonicalEmail(params.Email)

	a.logger.Debug("Auth service: starting user registration",
		"email", email)

	_, err := a.userStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: user already exists",
			"email", email)
		return model.Session{}, apierrors.NewErrEmailIsTaken(email)
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := a.now()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         params.Name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		a.logger.Info("Auth service: user registered concurrently",
			"email", email)
		return model.Session{}, apierrors.NewErrEmailIsTaken(email)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: user registration completed successfully",
		"email", email,
		"user_id", user.ID)

	return model.Session{User: user.Public(), Token: token}, nil
}

// Signin always issues a new token; previous tokens stay valid until logout or expiry.
func (a *Auth) Signin(ctx context.Context, email, pwd string) (model.Session, error) {
	email = a.canonicalEmail(email)

	a.logger.Debug("Auth service: starting user login",
		"email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, apierrors.NewErrUnknownUser(email)
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := a.hasher.Verify(pwd, user.PasswordHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			a.logger.Info("Auth service: invalid password",
				"email", email)
			return model.Session{}, apierrors.NewErrInvalidCredentials()
		}
		return model.Session{}, fmt.Errorf("failed to verify password: %w", err)
	}

	token, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: login completed successfully",
		"email", email,
		"user_id", user.ID)

	return model.Session{User: user.Public(), Token: token}, nil
}

func (a *Auth) Logout(ctx context.Context, token string) (model.LogoutResult, error) {
	expiresAt, err := a.tokenService.Revoke(ctx, token)
	if errors.Is(err, model.ErrUnparsableToken) {
		a.logger.Info("Auth service: logout with unparsable token",
			"error", err.Error())
		return model.LogoutResult{}, apierrors.NewErrUnparsableToken()
	}
	if err != nil {
		return model.LogoutResult{}, fmt.Errorf("failed to revoke token: %w", err)
	}

	a.logger.Info("Auth service: token invalidated",
		"expires_at", expiresAt)

	return model.LogoutResult{Invalidated: true, ExpiresAt: expiresAt}, nil
}

func (a *Auth) GetUser(ctx context.Context, id uuid.UUID) (model.PublicUser, error) {
	user, err := a.userStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.PublicUser{}, apierrors.NewErrUserNotFound(id.String())
	}
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user.Public(), nil
}

// ResolveSubject loads the owner of a verified token. A missing user means
// the account was removed while the token was still valid.
func (a *Auth) ResolveSubject(ctx context.Context, id uuid.UUID) (model.PublicUser, error) {
	user, err := a.userStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.PublicUser{}, apierrors.NewErrUnknownSubject()
	}
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("failed to resolve token subject: %w", err)
	}

	return user.Public(), nil
}

func (a *Auth) canonicalEmail(email string) string {
	if !a.normalizeEmail {
		return email
	}
	return strings.ToLower(strings.TrimSpace(email))
}
