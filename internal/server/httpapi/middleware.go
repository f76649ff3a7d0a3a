package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/safepass/server/internal/common"
)

const bearerPrefix = "Bearer "

// userIDContextKey is where bearerAuth leaves the authenticated account id
// for the protected handlers.
const userIDContextKey = "user_id"

// bearerAuth guards the password routes. An expired token is reported
// distinctly from an otherwise invalid one so clients can trigger a re-login
// instead of treating the session as corrupt.
func (s *HTTPServer) bearerAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return unauthorized(c, "Missing or invalid authorization header")
		}

		claims, err := s.users.ValidateToken(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				return unauthorized(c, "Token expired")
			}
			return unauthorized(c, "Invalid token")
		}

		c.Set(userIDContextKey, claims.UserID)
		return next(c)
	}
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"error":   "Unauthorized",
		"message": msg,
	})
}

func authedUserID(c echo.Context) string {
	id, _ := c.Get(userIDContextKey).(string)
	return id
}
