package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/medcare/middleware"
	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/services"
	"go.uber.org/zap"
)

type AuthUseCase interface {
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
	Register(ctx context.Context, in services.UserInput) (*models.User, error)
	Me(ctx context.Context, id uint) (*models.User, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

type AuthHandler struct {
	auth AuthUseCase
	log  *zap.Logger
}

func NewAuthHandler(auth AuthUseCase, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

// Login handles user authentication
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return badBody(c, err)
	}

	res, err := h.auth.Login(c.UserContext(), input.Username, input.Password)
	if err != nil {
		return respondError(c, h.log, err, "Failed to log in")
	}
	return c.JSON(res)
}

// Register creates a user. Only admins reach this route.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input services.UserInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}
	user, err := h.auth.Register(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.log, err, "Failed to create user")
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.auth.Me(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, err, "Failed to load profile")
	}
	return c.JSON(user)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	jti, _ := c.Locals(middleware.LocalTokenID).(string)
	expiresAt, _ := c.Locals(middleware.LocalExpiresAt).(time.Time)
	if jti != "" {
		if err := h.auth.Logout(c.UserContext(), jti, expiresAt); err != nil {
			return respondError(c, h.log, err, "Failed to log out")
		}
	}
	return c.JSON(fiber.Map{"message": "Successfully logged out"})
}

// Refresh exchanges a refresh token for a new access token
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	type RefreshInput struct {
		RefreshToken string `json:"refreshToken"`
	}
	input := new(RefreshInput)
	if err := c.BodyParser(input); err != nil {
		return badBody(c, err)
	}
	token, err := h.auth.Refresh(c.UserContext(), input.RefreshToken)
	if err != nil {
		return respondError(c, h.log, err, "Failed to refresh token")
	}
	return c.JSON(fiber.Map{"token": token})
}
