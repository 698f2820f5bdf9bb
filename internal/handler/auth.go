package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ElvisLo030/RA-bot/internal/model"
	"github.com/ElvisLo030/RA-bot/internal/service"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login exchanges the dashboard credentials for a session token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	token, expiresIn, err := h.authSvc.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(401).JSON(fiber.Map{"error": "invalid credentials"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "internal error"})
	}

	return c.JSON(model.TokenResponse{AccessToken: token, ExpiresIn: expiresIn})
}
