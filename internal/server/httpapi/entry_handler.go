package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/safepass/server/internal/common"
	"github.com/safepass/server/internal/server/models"
)

// entryRequest carries the client-controlled fields of an entry; identity
// and timestamps are always assigned server-side.
type entryRequest struct {
	Title             string `json:"title"`
	Email             string `json:"email"`
	Username          string `json:"username"`
	EncryptedPassword string `json:"encrypted_password"`
	URL               string `json:"url"`
	Notes             string `json:"notes"`
}

func (r *entryRequest) toModel() *models.Entry {
	return &models.Entry{
		Title:             r.Title,
		Email:             r.Email,
		Username:          r.Username,
		EncryptedPassword: r.EncryptedPassword,
		URL:               r.URL,
		Notes:             r.Notes,
	}
}

func (s *HTTPServer) listEntries(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	items, err := s.entries.List(ctx, authedUserID(c))
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return s.serviceError(c, err)
	}

	if items == nil {
		items = []*models.Entry{}
	}
	return c.JSON(http.StatusOK, items)
}

func (s *HTTPServer) createEntry(c echo.Context) error {
	var req entryRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	entry, err := s.entries.Create(ctx, authedUserID(c), req.toModel())
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return s.serviceError(c, err)
	}

	return c.JSON(http.StatusOK, entry)
}

func (s *HTTPServer) updateEntry(c echo.Context) error {
	var req entryRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	entry, err := s.entries.Update(ctx, authedUserID(c), c.Param("passwordId"), req.toModel())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return detail(c, http.StatusNotFound, "Password entry not found")
		}
		s.logger.Error(ctx, err.Error())
		return s.serviceError(c, err)
	}

	return c.JSON(http.StatusOK, entry)
}

func (s *HTTPServer) deleteEntry(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := s.entries.Delete(ctx, authedUserID(c), c.Param("passwordId")); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return detail(c, http.StatusNotFound, "Password entry not found")
		}
		s.logger.Error(ctx, err.Error())
		return s.serviceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password deleted successfully"})
}
