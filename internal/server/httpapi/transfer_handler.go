package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/safepass/server/internal/common"
)

func (s *HTTPServer) importEntries(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return detail(c, http.StatusBadRequest, "No file uploaded")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return detail(c, http.StatusBadRequest, "No file uploaded")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return detail(c, http.StatusBadRequest, fmt.Sprintf("Error importing file: %s", err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	count, err := s.entries.Import(ctx, authedUserID(c), fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, common.ErrorUnsupportedFormat) {
			return detail(c, http.StatusBadRequest, "Unsupported file format")
		}
		s.logger.Error(ctx, err.Error())
		return s.serviceError(c, err)
	}

	s.logger.Info(ctx, "Imported entries", "count", count)

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Successfully imported %d passwords", count),
	})
}

func (s *HTTPServer) exportEntries(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	file, err := s.entries.Export(ctx, authedUserID(c), c.QueryParam("format"))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUnsupportedFormat):
			return detail(c, http.StatusBadRequest, "Unsupported export format")
		case errors.Is(err, common.ErrorNotFound):
			return detail(c, http.StatusNotFound, "No passwords to export")
		}
		s.logger.Error(ctx, err.Error())
		return s.serviceError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+file.Filename)
	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}
