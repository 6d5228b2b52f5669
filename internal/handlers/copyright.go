package handlers

import (
	"net/url"
	"strconv"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"
	"marketplace/internal/repositories"
	"marketplace/internal/services/copyright"
	"marketplace/internal/utils"
	"marketplace/internal/utils/pagination"
	"marketplace/internal/utils/response"
	"marketplace/internal/utils/validation"

	"github.com/gofiber/fiber/v2"
)

type CopyrightHandler struct {
	copyrightService *copyright.Service
}

func NewCopyrightHandler(copyrightService *copyright.Service) *CopyrightHandler {
	return &CopyrightHandler{copyrightService: copyrightService}
}

// FileComplaint accepts takedown notices from anyone, signed in or not.
func (h *CopyrightHandler) FileComplaint(c *fiber.Ctx) error {
	var input copyright.ComplaintInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}

	v := validation.New()
	v.Check(input.ListingID > 0, "listing_id", "is required")
	v.Required(input.ComplainantName, "complainant_name")
	v.Email(input.ComplainantEmail, "complainant_email")
	v.Required(input.CopyrightedWork, "copyrighted_work")
	v.Required(input.Description, "description")
	v.Required(input.Signature, "signature")
	v.Check(input.GoodFaithStatement, "good_faith_statement", "must be accepted")
	if err := v.Err(); err != nil {
		return response.FromError(c, err)
	}

	complaint, err := h.copyrightService.FileComplaint(c.UserContext(), utils.ActorFrom(c), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Complaint filed successfully", complaint)
}

func (h *CopyrightHandler) GetComplaint(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	complaint, err := h.copyrightService.GetComplaint(c.UserContext(), utils.ActorFrom(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Complaint retrieved successfully", complaint)
}

func (h *CopyrightHandler) FileCounterNotice(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var input copyright.CounterNoticeInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	notice, err := h.copyrightService.FileCounterNotice(c.UserContext(), utils.ActorFrom(c), id, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Counter-notice filed successfully", notice)
}

func (h *CopyrightHandler) CreateListing(c *fiber.Ctx) error {
	var input copyright.ListingInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	res, err := h.copyrightService.CreateListing(c.UserContext(), utils.ActorFrom(c), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Listing created", res)
}

func (h *CopyrightHandler) ScanListing(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	res, err := h.copyrightService.ScanListing(c.UserContext(), utils.ActorFrom(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing scanned", res)
}

func (h *CopyrightHandler) MyStrikes(c *fiber.Ctx) error {
	actor := utils.ActorFrom(c)
	return h.strikesFor(c, actor, actor.UserID)
}

func (h *CopyrightHandler) SellerStrikes(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	return h.strikesFor(c, utils.ActorFrom(c), id)
}

func (h *CopyrightHandler) strikesFor(c *fiber.Ctx, actor models.Actor, sellerID uint) error {
	strikes, err := h.copyrightService.ListStrikes(c.UserContext(), actor, sellerID)
	if err != nil {
		return response.FromError(c, err)
	}
	active, err := h.copyrightService.ActiveStrikeCount(c.UserContext(), actor, sellerID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Strikes retrieved successfully", fiber.Map{
		"active":  active,
		"strikes": strikes,
	})
}

func (h *CopyrightHandler) AppealStrike(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var input struct {
		Reason string `json:"reason"`
	}
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	strike, err := h.copyrightService.AppealStrike(c.UserContext(), utils.ActorFrom(c), id, input.Reason)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Appeal submitted", strike)
}

// Admin endpoints

func (h *CopyrightHandler) ListComplaints(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	filter := repositories.ComplaintFilter{
		Status: c.Query("status"),
		Limit:  p.Limit,
		Offset: p.Offset,
	}
	if raw := c.Query("seller_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.FromError(c, apperrors.Validation("INVALID_ID", "invalid seller_id"))
		}
		filter.SellerID = uint(id)
	}

	complaints, total, err := h.copyrightService.ListComplaints(c.UserContext(), utils.ActorFrom(c), filter)
	if err != nil {
		return response.FromError(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, complaints))
}

func (h *CopyrightHandler) ResolveComplaint(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var input copyright.ResolveInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	complaint, err := h.copyrightService.ResolveComplaint(c.UserContext(), utils.ActorFrom(c), id, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Complaint resolved", complaint)
}

func (h *CopyrightHandler) ReviewCounterNotice(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var input copyright.ReviewInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	notice, err := h.copyrightService.ReviewCounterNotice(c.UserContext(), utils.ActorFrom(c), id, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Counter-notice reviewed", notice)
}

func (h *CopyrightHandler) ListingAction(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var input copyright.ListingActionInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	listing, err := h.copyrightService.ApplyListingAction(c.UserContext(), utils.ActorFrom(c), id, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing updated", listing)
}

func (h *CopyrightHandler) IssueStrike(c *fiber.Ctx) error {
	var input copyright.StrikeInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	strike, err := h.copyrightService.IssueStrike(c.UserContext(), utils.ActorFrom(c), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Strike issued", strike)
}

func (h *CopyrightHandler) ReviewAppeal(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var input struct {
		Uphold bool `json:"uphold"`
	}
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	strike, err := h.copyrightService.ReviewAppeal(c.UserContext(), utils.ActorFrom(c), id, input.Uphold)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Appeal reviewed", strike)
}

func (h *CopyrightHandler) SuspendSeller(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var input copyright.SuspendInput
	if err := parseBody(c, &input); err != nil {
		return response.FromError(c, err)
	}
	res, err := h.copyrightService.SuspendSeller(c.UserContext(), utils.ActorFrom(c), id, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Seller suspended", res)
}

func (h *CopyrightHandler) ListBannedWords(c *fiber.Ctx) error {
	list, err := h.copyrightService.ListBannedWords(c.UserContext(), utils.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Banned words retrieved successfully", list)
}

func (h *CopyrightHandler) UpsertBannedWord(c *fiber.Ctx) error {
	var word models.BannedWord
	if err := parseBody(c, &word); err != nil {
		return response.FromError(c, err)
	}
	version, err := h.copyrightService.UpsertBannedWord(c.UserContext(), utils.ActorFrom(c), word)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Banned word saved", fiber.Map{"version": version})
}

func (h *CopyrightHandler) DeleteBannedWord(c *fiber.Ctx) error {
	term, err := url.PathUnescape(c.Params("term"))
	if err != nil {
		return response.FromError(c, apperrors.Validation("INVALID_TERM", "invalid term"))
	}
	version, err := h.copyrightService.DeleteBannedWord(c.UserContext(), utils.ActorFrom(c), term)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Banned word deleted", fiber.Map{"version": version})
}
