package httpapi

import (
	"errors"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/gofiber/fiber/v2"
)

const (
	detailPasswordMismatch   = "Passwords do not match"
	detailWeakPassword       = "Password must be at least 8 characters long and contain uppercase, lowercase, number, and special character"
	detailPasswordTooLong    = "Password must be at most 72 bytes long"
	detailEmailTaken         = "Email already registered"
	detailInvalidCredentials = "Incorrect email or password"
	detailInactiveUser       = "Inactive user"
	detailBadRefreshToken    = "Could not validate refresh token"
	detailBadCredentials     = "Could not validate credentials"
	detailInvalidBody        = "Invalid request body"
	detailInternal           = "Internal server error"
)

type ErrorResponse struct {
	Detail string `json:"detail"`
}

func writeError(c *fiber.Ctx, status int, detail string) error {
	return c.Status(status).JSON(ErrorResponse{Detail: detail})
}

// unauthorized writes a 401 with the bearer challenge header.
func unauthorized(c *fiber.Ctx, detail string) error {
	c.Set(fiber.HeaderWWWAuthenticate, common.BearerScheme)
	return writeError(c, fiber.StatusUnauthorized, detail)
}

// writeServiceError maps service sentinels to a status and a stable detail.
// Anything unrecognised is logged and reported as a 500.
func (s *HTTPServer) writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, common.ErrPasswordMismatch):
		return writeError(c, fiber.StatusBadRequest, detailPasswordMismatch)
	case errors.Is(err, common.ErrWeakPassword):
		return writeError(c, fiber.StatusBadRequest, detailWeakPassword)
	case errors.Is(err, common.ErrPasswordTooLong):
		return writeError(c, fiber.StatusBadRequest, detailPasswordTooLong)
	case errors.Is(err, common.ErrEmailTaken):
		return writeError(c, fiber.StatusBadRequest, detailEmailTaken)
	case errors.Is(err, common.ErrInvalidCredentials):
		return unauthorized(c, detailInvalidCredentials)
	case errors.Is(err, common.ErrInactiveAccount):
		return writeError(c, fiber.StatusBadRequest, detailInactiveUser)
	case errors.Is(err, common.ErrorUnauthorized):
		return unauthorized(c, detailBadCredentials)
	}

	s.logger.Error(c.UserContext(), "request failed", "path", c.Path(), "error", err)
	return writeError(c, fiber.StatusInternalServerError, detailInternal)
}

// errorHandler handles errors that escape the handlers, such as unknown
// routes, recovered panics and body parser failures.
func (s *HTTPServer) errorHandler(c *fiber.Ctx, err error) error {
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return writeError(c, ferr.Code, ferr.Message)
	}

	s.logger.Error(c.UserContext(), "unhandled error", "path", c.Path(), "error", err)
	return writeError(c, fiber.StatusInternalServerError, detailInternal)
}
