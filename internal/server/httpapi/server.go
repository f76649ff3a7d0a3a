// Package httpapi exposes the service flows over HTTP/JSON. Route layout:
// public auth endpoints under /api/auth, bearer-protected password endpoints
// under /api/passwords, and a /healthz probe. Error bodies are {"detail": ...}.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/safepass/server/internal/logging"
	"github.com/safepass/server/internal/server/auth"
	"github.com/safepass/server/internal/server/models"
	"github.com/safepass/server/internal/server/services"
)

// requestTimeout bounds every storage-touching request so a stalled
// database surfaces as 503 instead of a hung connection.
const requestTimeout = 5 * time.Second

const shutdownTimeout = 10 * time.Second

// UserService is the slice of the user flows the handlers need.
type UserService interface {
	Register(ctx context.Context, username, password string) (*services.RegisterResult, error)
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
	Recover(ctx context.Context, username, recoveryKey, newPassword string) error
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// EntryService is the slice of the entry flows the handlers need.
type EntryService interface {
	List(ctx context.Context, userID string) ([]*models.Entry, error)
	Create(ctx context.Context, userID string, entry *models.Entry) (*models.Entry, error)
	Update(ctx context.Context, userID, entryID string, update *models.Entry) (*models.Entry, error)
	Delete(ctx context.Context, userID, entryID string) error
	Import(ctx context.Context, userID, filename string, data []byte) (int, error)
	Export(ctx context.Context, userID, formatName string) (*services.ExportFile, error)
}

type HTTPServer struct {
	address string
	logger  logging.Logger
	users   UserService
	entries EntryService
	echo    *echo.Echo
}

func NewHTTPServer(address string, l logging.Logger, us UserService, es EntryService) *HTTPServer {
	s := &HTTPServer{
		address: address,
		logger:  l.With("module", "http_server"),
		users:   us,
		entries: es,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	s.registerRoutes(e)
	s.echo = e

	return s
}

func (s *HTTPServer) registerRoutes(e *echo.Echo) {
	e.GET("/healthz", s.health)

	authGroup := e.Group("/api/auth")
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)
	authGroup.POST("/recover", s.recoverPassword)

	passwords := e.Group("/api/passwords", s.bearerAuth)
	passwords.GET("", s.listEntries)
	passwords.POST("", s.createEntry)
	passwords.PUT("/:passwordId", s.updateEntry)
	passwords.DELETE("/:passwordId", s.deleteEntry)
	passwords.POST("/import", s.importEntries)
	passwords.GET("/export", s.exportEntries)
}

func (s *HTTPServer) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *HTTPServer) health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// requestContext derives the per-request deadline from the incoming request.
func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}
