package httpapi

import (
	"errors"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

type validatable interface {
	Validate() error
}

// parseBody decodes a JSON body into req and validates it. Failures are
// written as 422 and reported through ok=false.
func parseBody(c *fiber.Ctx, req validatable) (ok bool, err error) {
	if err := c.BodyParser(req); err != nil {
		return false, writeError(c, fiber.StatusUnprocessableEntity, detailInvalidBody)
	}
	if err := req.Validate(); err != nil {
		return false, writeError(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	return true, nil
}

func (s *HTTPServer) Register(c *fiber.Ctx) error {

	var req RegisterRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	_, err := s.users.Register(c.UserContext(), services.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FullName:        req.FullName,
	})
	if err != nil {
		return s.writeServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(MessageResponse{Message: "User registered successfully"})
}

func (s *HTTPServer) Login(c *fiber.Ctx) error {

	var req LoginRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	result, err := s.users.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return s.writeServiceError(c, err)
	}

	return c.JSON(LoginResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		TokenType:    tokenTypeBearer,
		User:         result.User.Public(),
	})
}

// Refresh takes the refresh token from the Authorization header.
func (s *HTTPServer) Refresh(c *fiber.Ctx) error {

	token, ok := bearerToken(c)
	if !ok {
		return unauthorized(c, detailBadRefreshToken)
	}

	access, err := s.users.Refresh(c.UserContext(), token)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return unauthorized(c, detailBadRefreshToken)
		}
		return s.writeServiceError(c, err)
	}

	return c.JSON(RefreshResponse{AccessToken: access, TokenType: tokenTypeBearer})
}

func (s *HTTPServer) Logout(c *fiber.Ctx) error {

	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c, detailBadCredentials)
	}

	if err := s.users.Logout(c.UserContext(), user); err != nil {
		return s.writeServiceError(c, err)
	}

	return c.JSON(MessageResponse{Message: "Successfully logged out"})
}

func (s *HTTPServer) Me(c *fiber.Ctx) error {

	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c, detailBadCredentials)
	}

	return c.JSON(user.Public())
}

func (s *HTTPServer) Root(c *fiber.Ctx) error {
	return c.JSON(MessageResponse{Message: "Authentication API is running"})
}

func (s *HTTPServer) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "healthy"})
}
