package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/supdesk/supdesk/internal/application/constant"
	"github.com/supdesk/supdesk/internal/domain/models"
	"github.com/supdesk/supdesk/internal/infra/appctx"
	"github.com/supdesk/supdesk/internal/infra/ports/http/dto"
	"github.com/supdesk/supdesk/internal/usecase"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

// Login authenticates a user or the admin and enters the chat. An unknown
// username registers a new room on the fly.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	token, identity, err := h.authUsecase.Login(c.Request().Context(), req.Username, req.Password)
	if errors.Is(err, usecase.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}
	if err != nil {
		slog.Error("login failed", slog.String(constant.UserName, req.Username), slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not log in"})
	}

	return c.JSON(http.StatusOK, loginResponse(token, identity))
}

// AdminToken issues a token for the admin identity only.
func (h *AuthHandler) AdminToken(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	token, err := h.authUsecase.AdminToken(c.Request().Context(), req.Username, req.Password)
	if errors.Is(err, usecase.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "incorrect username or password"})
	}
	if err != nil {
		slog.Error("admin token failed", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create token"})
	}

	return c.JSON(http.StatusOK, dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *AuthHandler) GetMe(c echo.Context) error {
	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing identity in context"})
	}

	return c.JSON(http.StatusOK, loginResponse("", identity))
}

func loginResponse(token string, identity models.Identity) dto.LoginResponse {
	roomID := ""
	if identity.Role == models.RoleUser && identity.RoomID != nil {
		roomID = *identity.RoomID
	}

	return dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		RoomID:      roomID,
		Username:    identity.Username,
		Role:        identity.Role.String(),
	}
}
