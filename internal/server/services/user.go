// Package services contains server-side business logic. UserService
// implements registration, login, token refresh and logout, and is the single
// authorization gate every protected endpoint passes through.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
)

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FullName        *string
}

// LoginResult bundles the token pair with the authenticated user.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// UserService orchestrates the User Store, the password hasher and the
// token service.
//
// Tokens are stateless: Logout changes nothing on the server and Refresh does
// not rotate the refresh token. A leaked token stays usable until it expires.
type UserService struct {
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenService
	logger      logging.Logger
}

func NewUserService(m repomanager.RepositoryManager, hasher *auth.PasswordHasher, tokens *auth.TokenService, logger logging.Logger) *UserService {
	return &UserService{
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger.With("module", "user_service"),
	}
}

// NormalizeEmail is applied to every email before it reaches the store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an active user. The uniqueness pre-check is only a fast
// path; the store's unique constraint decides concurrent races.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Password != in.ConfirmPassword {
		return nil, common.ErrPasswordMismatch
	}
	if err := auth.ValidatePasswordStrength(in.Password); err != nil {
		return nil, err
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, common.ErrPasswordTooLong
	}

	email := NormalizeEmail(in.Email)
	repo := s.repomanager.Users(s.repomanager.Conn())

	_, err := repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrEmailTaken
	case !errors.Is(err, common.ErrorNotFound):
		s.logger.Error(ctx, "lookup before register failed", "error", err)
		return nil, common.ErrorInternal
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, common.ErrPasswordTooLong) {
			return nil, err
		}
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	user, err := repo.Insert(ctx, email, digest, in.FullName)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.ErrEmailTaken
		}
		s.logger.Error(ctx, "user insert failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login checks credentials and mints an access/refresh pair. An unknown email
// and a wrong password produce the same error and take comparable time.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.repomanager.Conn())

	user, err := repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyDummy(password)
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "lookup on login failed", "error", err)
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		return nil, common.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, common.ErrInactiveAccount
	}

	access, err := s.tokens.IssueAccess(user.Email)
	if err != nil {
		s.logger.Error(ctx, "issue access token failed", "error", err)
		return nil, common.ErrorInternal
	}
	refresh, err := s.tokens.IssueRefresh(user.Email)
	if err != nil {
		s.logger.Error(ctx, "issue refresh token failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token itself stays valid until it expires.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	user, err := s.resolve(ctx, refreshToken, auth.RefreshToken)
	if err != nil {
		return "", err
	}

	access, err := s.tokens.IssueAccess(user.Email)
	if err != nil {
		s.logger.Error(ctx, "issue access token failed", "error", err)
		return "", common.ErrorInternal
	}
	return access, nil
}

// Authorize is the gate for protected endpoints: it accepts only a valid
// access token whose subject is an existing, active user.
func (s *UserService) Authorize(ctx context.Context, accessToken string) (*models.User, error) {
	return s.resolve(ctx, accessToken, auth.AccessToken)
}

// Logout is a no-op on the server; clients discard their tokens.
func (s *UserService) Logout(ctx context.Context, user *models.User) error {
	s.logger.Info(ctx, "user logged out", "user_id", user.ID)
	return nil
}

// SetActive flips the activity flag of the user with the given email.
// Deactivation takes effect immediately, even for tokens already issued.
func (s *UserService) SetActive(ctx context.Context, email string, active bool) (*models.User, error) {
	var user *models.User

	err := dbx.WithTx(ctx, s.repomanager.Conn(), nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		found, err := repo.FindByEmail(ctx, NormalizeEmail(email))
		if err != nil {
			return err
		}
		user, err = repo.SetActive(ctx, found.ID, active)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "set active failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user activity changed", "user_id", user.ID, "active", active)
	return user, nil
}

// resolve verifies token as the expected kind and loads its active subject.
// Every failure collapses into common.ErrorUnauthorized; the cause is logged.
func (s *UserService) resolve(ctx context.Context, token string, kind auth.TokenKind) (*models.User, error) {
	email, err := s.tokens.Verify(token, kind)
	if err != nil {
		s.logger.Warn(ctx, "token rejected", "kind", string(kind), "reason", err.Error())
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.repomanager.Conn()).FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "lookup of token subject failed", "error", err)
			return nil, common.ErrorInternal
		}
		s.logger.Warn(ctx, "token subject not found", "kind", string(kind))
		return nil, common.ErrorUnauthorized
	}
	if !user.IsActive {
		s.logger.Warn(ctx, "token subject inactive", "kind", string(kind), "user_id", user.ID)
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}
