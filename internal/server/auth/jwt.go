// Package auth implements the credential primitives of the service: bcrypt
// password hashing, the password strength policy and signed JWTs.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind discriminates access tokens from refresh tokens.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// Claims is the signed claim set. Subject carries the user's email.
type Claims struct {
	jwt.RegisteredClaims
	Kind TokenKind `json:"type"`
}

// TokenConfig is the immutable configuration of a TokenService.
type TokenConfig struct {
	Secret     []byte
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenService issues and verifies stateless access and refresh tokens.
// There is no revocation: a token is valid until it expires.
type TokenService struct {
	cfg    TokenConfig
	method jwt.SigningMethod
	now    func() time.Time
}

// NewTokenService validates cfg. Only HMAC algorithms are accepted because
// the key is a shared secret.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}

	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	cfg.Secret = secret

	return &TokenService{cfg: cfg, method: method, now: time.Now}, nil
}

func (s *TokenService) IssueAccess(subject string) (string, error) {
	return s.issue(subject, AccessToken, s.cfg.AccessTTL)
}

func (s *TokenService) IssueRefresh(subject string) (string, error) {
	return s.issue(subject, RefreshToken, s.cfg.RefreshTTL)
}

func (s *TokenService) issue(subject string, kind TokenKind, ttl time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(s.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		Kind: kind,
	})

	signed, err := token.SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Verify checks signature, expiry and kind, and returns the subject.
//
// Errors: common.ErrTokenExpired, common.ErrWrongTokenKind, or
// common.ErrInvalidToken for everything else.
func (s *TokenService) Verify(tokenString string, expected TokenKind) (string, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.cfg.Secret, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if claims.Kind != expected {
		return "", common.ErrWrongTokenKind
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}

	return claims.Subject, nil
}
