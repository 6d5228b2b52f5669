package handlers

import (
	"strconv"

	apperrors "marketplace/internal/errors"

	"github.com/gofiber/fiber/v2"
)

var ErrInvalidBody = apperrors.Validation("INVALID_BODY", "Invalid request format")

// paramID parses a positive numeric route parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("INVALID_ID", "invalid "+name)
	}
	return uint(id), nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return ErrInvalidBody
	}
	return nil
}
