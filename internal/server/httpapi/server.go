// Package httpapi exposes the authentication service over HTTP using fiber.
package httpapi

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const shutdownTimeout = 10 * time.Second

// AuthService is the part of services.UserService the HTTP layer needs.
type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, user *models.User) error
	Authorize(ctx context.Context, accessToken string) (*models.User, error)
}

type HTTPServer struct {
	address string
	users   AuthService
	logger  logging.Logger
	app     *fiber.App
}

func NewHTTPServer(address string, corsOrigins []string, l logging.Logger, us AuthService) *HTTPServer {
	s := &HTTPServer{
		address: address,
		users:   us,
		logger:  l.With("module", "http_server"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "authkeeper",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	app.Use(s.requestLogger)
	app.Use(recover.New())
	app.Use(cors.New(corsConfig(corsOrigins)))

	s.routes(app)
	s.app = app

	return s
}

func (s *HTTPServer) routes(app *fiber.App) {
	app.Get("/", s.Root)
	app.Get("/health", s.Health)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", s.Register)
	authGroup.Post("/login", s.Login)
	authGroup.Post("/refresh", s.Refresh)
	authGroup.Post("/logout", s.accessTokenMiddleware, s.Logout)

	app.Get("/users/me", s.accessTokenMiddleware, s.Me)
}

// corsConfig allows credentials only for an explicit origin list; browsers
// refuse credentialed responses for a wildcard origin.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Authorization,Content-Type",
	}

	if len(origins) == 0 {
		return cfg
	}
	for _, o := range origins {
		if o == "*" {
			return cfg
		}
	}

	cfg.AllowOrigins = strings.Join(origins, ",")
	cfg.AllowCredentials = true
	return cfg
}

// App exposes the underlying fiber app, mostly for tests.
func (s *HTTPServer) App() *fiber.App {
	return s.app
}

func (s *HTTPServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	return s.app.Listener(listen)
}
