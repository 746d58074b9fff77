package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/todo-server/internal/logger"
	"github.com/dtroode/todo-server/internal/model"
)

// TokenService composes the TokenManager and the RevocationRegistry. It is the
// only place that decides whether a presented bearer token is usable.
type TokenService struct {
	manager  model.TokenManager
	registry model.RevocationRegistry
	logger   *logger.Logger
}

func NewTokenService(manager model.TokenManager, registry model.RevocationRegistry, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, registry: registry, logger: logger}
}

// Issue mints a fresh token for userID.
func (s *TokenService) Issue(_ context.Context, userID uuid.UUID) (string, error) {
	token, err := s.manager.Issue(userID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// CheckToken rejects revoked tokens first, then verifies signature and expiry.
// It returns model.ErrRevokedToken, model.ErrMalformedToken or model.ErrExpiredToken.
func (s *TokenService) CheckToken(_ context.Context, token string) (uuid.UUID, error) {
	if s.registry.IsRevoked(token) {
		return uuid.Nil, model.ErrRevokedToken
	}

	claims, err := s.manager.Verify(token)
	if err != nil {
		return uuid.Nil, err
	}

	return claims.UserID, nil
}

// Revoke blacklists token until its own expiry. The signature is not checked:
// expired or foreign tokens are accepted as long as they decode.
func (s *TokenService) Revoke(_ context.Context, token string) (time.Time, error) {
	claims, err := s.manager.DecodeUnverified(token)
	if err != nil {
		return time.Time{}, err
	}

	s.registry.Revoke(token, claims.ExpiresAt)

	return claims.ExpiresAt, nil
}
