package handlers

import (
	"log"

	"marketplace/internal/services/checkout"
	"marketplace/internal/utils"
	"marketplace/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	checkoutService checkout.Service
}

func NewCheckoutHandler(checkoutService checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

func (h *CheckoutHandler) Quote(c *fiber.Ctx) error {
	var req checkout.QuoteRequest
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}
	quote, err := h.checkoutService.Quote(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Quote calculated", quote)
}

func (h *CheckoutHandler) CreateCheckout(c *fiber.Ctx) error {
	var req checkout.QuoteRequest
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}
	actor := utils.ActorFrom(c)
	res, err := h.checkoutService.CreateCheckout(c.UserContext(), actor.UserID, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Checkout session created", res)
}

func (h *CheckoutHandler) GetOrder(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	order, err := h.checkoutService.GetOrder(c.UserContext(), utils.ActorFrom(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Order retrieved successfully", order)
}

func (h *CheckoutHandler) RequestRefund(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var input struct {
		Type string `json:"type"`
	}
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	order, err := h.checkoutService.RequestRefund(c.UserContext(), utils.ActorFrom(c).UserID, id, input.Type)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Refund requested", order)
}

func (h *CheckoutHandler) ProcessRefund(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	order, err := h.checkoutService.ProcessRefund(c.UserContext(), utils.ActorFrom(c).UserID, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Refund processed successfully", order)
}

func (h *CheckoutHandler) ReleasePayouts(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	res, err := h.checkoutService.ReleasePayouts(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Payouts released", res)
}

// StripeWebhook acknowledges processor events. Only signature and storage
// failures are reported back so the processor retries them.
func (h *CheckoutHandler) StripeWebhook(c *fiber.Ctx) error {
	err := h.checkoutService.HandleWebhook(c.UserContext(), c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		log.Printf("⚠️ Stripe webhook rejected: %v", err)
		return response.FromError(c, err)
	}
	return c.JSON(fiber.Map{"received": true})
}
