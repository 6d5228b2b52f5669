package handlers

import (
	"marketplace/internal/models"
	"marketplace/internal/services/auth"
	"marketplace/internal/utils/response"
	"marketplace/internal/utils/validation"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginUser handles user authentication and returns a JWT access token
func (h *AuthHandler) LoginUser(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}

	v := validation.New()
	v.Required(input.Email, "email")
	v.Required(input.Password, "password")
	if err := v.Err(); err != nil {
		return response.FromError(c, err)
	}

	user, token, err := h.authService.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return response.FromError(c, err)
	}

	return c.JSON(fiber.Map{
		"access_token": token,
		"user": fiber.Map{
			"id":          user.ID,
			"email":       user.Email,
			"role":        user.Role,
			"permissions": models.GetDefaultPermissions(user.Role),
		},
	})
}
