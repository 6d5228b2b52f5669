package utils

import (
	"errors"

	"marketplace/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetUserClaims extracts the user claims from the Fiber context.
// It returns an error if the claims are missing or of an invalid type.
func GetUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	v := c.Locals("claims")
	if v == nil {
		return nil, errors.New("claims not found in context")
	}

	claims, ok := v.(*models.UserClaims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}
	return claims, nil
}

// ActorFrom returns the caller identity, or the anonymous actor on public routes.
func ActorFrom(c *fiber.Ctx) models.Actor {
	claims, err := GetUserClaims(c)
	if err != nil {
		return models.Actor{}
	}
	return claims.Actor()
}
