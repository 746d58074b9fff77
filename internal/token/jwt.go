package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/todo-server/internal/model"
)

// DefaultTTL is the lifetime of an issued token.
const DefaultTTL = 30 * 24 * time.Hour

// Claims represents JWT claims with the user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

var _ model.TokenManager = (*JWT)(nil)

// Option configures JWT.
type Option func(*JWT)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(j *JWT) {
		if ttl > 0 {
			j.ttl = ttl
		}
	}
}

// WithClock sets the time source used for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) { j.now = now }
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string, opts ...Option) *JWT {
	j := &JWT{secretKey: []byte(secretKey), ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Issue creates a token for userID expiring after the configured TTL.
// Each token gets a random ID, so two tokens issued within the same second differ.
func (j *JWT) Issue(userID uuid.UUID) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks signature and expiry and returns the token claims.
func (j *JWT) Verify(tokenString string) (model.TokenClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.TokenClaims{}, fmt.Errorf("%w: %v", model.ErrExpiredToken, err)
		}
		return model.TokenClaims{}, fmt.Errorf("%w: %v", model.ErrMalformedToken, err)
	}
	if !token.Valid {
		return model.TokenClaims{}, model.ErrMalformedToken
	}
	if claims.UserID == uuid.Nil {
		return model.TokenClaims{}, fmt.Errorf("%w: missing user id", model.ErrMalformedToken)
	}

	return model.TokenClaims{UserID: claims.UserID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// unverifiedClaims accepts any user_id shape so that foreign or legacy
// tokens can still be revoked.
type unverifiedClaims struct {
	jwt.RegisteredClaims
	UserID any `json:"user_id"`
}

// DecodeUnverified extracts claims without checking the signature or expiry.
// It fails only when the token is structurally invalid or has no expiry.
// UserID is uuid.Nil when the user_id claim is absent or not a UUID string.
func (j *JWT) DecodeUnverified(tokenString string) (model.TokenClaims, error) {
	claims := &unverifiedClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return model.TokenClaims{}, fmt.Errorf("%w: %v", model.ErrUnparsableToken, err)
	}
	if claims.ExpiresAt == nil {
		return model.TokenClaims{}, fmt.Errorf("%w: missing exp claim", model.ErrUnparsableToken)
	}

	var userID uuid.UUID
	if raw, ok := claims.UserID.(string); ok {
		if parsed, err := uuid.Parse(raw); err == nil {
			userID = parsed
		}
	}

	return model.TokenClaims{UserID: userID, ExpiresAt: claims.ExpiresAt.Time}, nil
}
