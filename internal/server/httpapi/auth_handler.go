package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/safepass/server/internal/common"
)

type registerRequest struct {
	MasterUsername string `json:"master_username"`
	MasterPassword string `json:"master_password"`
}

type registerResponse struct {
	Token          string `json:"token"`
	UserID         string `json:"user_id"`
	MasterUsername string `json:"master_username"`
	RecoveryKey    string `json:"recovery_key"`
}

func (s *HTTPServer) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.MasterUsername == "" || req.MasterPassword == "" {
		return detail(c, http.StatusBadRequest, "master_username and master_password are required")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	s.logger.Info(ctx, "Registration request")

	result, err := s.users.Register(ctx, req.MasterUsername, req.MasterPassword)
	if err != nil {
		if errors.Is(err, common.ErrorUsernameTaken) {
			return detail(c, http.StatusBadRequest, "Username already exists")
		}
		s.logger.Error(ctx, err.Error())
		return s.serviceError(c, err)
	}

	s.logger.Info(ctx, "Registered", "username", result.Username)

	// the only response that ever carries the plaintext recovery key
	return c.JSON(http.StatusOK, registerResponse{
		Token:          result.Token,
		UserID:         result.UserID,
		MasterUsername: result.Username,
		RecoveryKey:    result.RecoveryKey,
	})
}

type loginRequest struct {
	MasterUsername string `json:"master_username"`
	MasterPassword string `json:"master_password"`
}

type loginResponse struct {
	Token          string `json:"token"`
	UserID         string `json:"user_id"`
	MasterUsername string `json:"master_username"`
}

func (s *HTTPServer) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := s.users.Login(ctx, req.MasterUsername, req.MasterPassword)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			return detail(c, http.StatusUnauthorized, "Invalid username or password")
		}
		s.logger.Error(ctx, err.Error())
		return s.serviceError(c, err)
	}

	s.logger.Info(ctx, "Logged in", "username", result.Username)

	return c.JSON(http.StatusOK, loginResponse{
		Token:          result.Token,
		UserID:         result.UserID,
		MasterUsername: result.Username,
	})
}

type recoverRequest struct {
	MasterUsername    string `json:"master_username"`
	RecoveryKey       string `json:"recovery_key"`
	NewMasterPassword string `json:"new_master_password"`
}

func (s *HTTPServer) recoverPassword(c echo.Context) error {
	var req recoverRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	err := s.users.Recover(ctx, req.MasterUsername, req.RecoveryKey, req.NewMasterPassword)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return detail(c, http.StatusNotFound, "User not found")
		case errors.Is(err, common.ErrorInvalidRecoveryKey):
			return detail(c, http.StatusUnauthorized, "Invalid recovery key")
		}
		s.logger.Error(ctx, err.Error())
		return s.serviceError(c, err)
	}

	s.logger.Info(ctx, "Password reset", "username", req.MasterUsername)

	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset successfully"})
}
