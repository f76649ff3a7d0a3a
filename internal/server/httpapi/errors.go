package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/safepass/server/internal/common"
)

// detail writes the {"detail": ...} error body used by every endpoint.
func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"detail": msg})
}

// serviceError handles the failure classes shared by all handlers: a
// transient store outage maps to 503, anything else to 500. Business errors
// are mapped by the individual handlers before reaching here.
func (s *HTTPServer) serviceError(c echo.Context, err error) error {
	if errors.Is(err, common.ErrorStoreUnavailable) {
		return detail(c, http.StatusServiceUnavailable, "Storage temporarily unavailable")
	}
	return detail(c, http.StatusInternalServerError, "Internal server error")
}
