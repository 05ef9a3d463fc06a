package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-reservation/internal/api/dto"
	"github.com/spec-kit/event-reservation/internal/auth"
	"github.com/spec-kit/event-reservation/internal/service"
	apperrors "github.com/spec-kit/event-reservation/pkg/util"
)

// AuthHandler exposes sign-up, sign-in and session endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// SignUp handles POST /signup.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	user, err := h.auth.SignUp(c.UserContext(), service.SignUpInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SignUpResponse{UserID: user.ID})
}

// SignIn handles POST /signin.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	result, err := h.auth.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt})
}

// SignOut handles POST /signout.
func (h *AuthHandler) SignOut(c *fiber.Ctx, principal auth.Principal) error {
	if err := h.auth.SignOut(c.UserContext(), principal); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CurrentUser handles GET /user.
func (h *AuthHandler) CurrentUser(c *fiber.Ctx, principal auth.Principal) error {
	user, err := h.auth.CurrentUser(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(dto.CurrentUserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	})
}

func invalidPayload() error {
	return apperrors.NewValidationError("invalid payload", nil)
}
