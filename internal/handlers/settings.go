package handlers

import (
	"marketplace/internal/services/settings"
	"marketplace/internal/utils"
	"marketplace/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	settingsService settings.Service
}

func NewSettingsHandler(settingsService settings.Service) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) GetFeeSettings(c *fiber.Ctx) error {
	fs, err := h.settingsService.FeeSettings(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Fee settings retrieved successfully", fs)
}

func (h *SettingsHandler) UpdateFeeSettings(c *fiber.Ctx) error {
	var input settings.UpdateInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	fs, err := h.settingsService.UpdateFeeSettings(c.UserContext(), utils.ActorFrom(c).UserID, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Fee settings updated", fs)
}
