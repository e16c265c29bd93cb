package handler

import (
	"strconv"

	"go-pos-ledger/internal/model"
	"go-pos-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DraftHandler struct {
	service service.StagingService
}

func NewDraftHandler(s service.StagingService) *DraftHandler {
	return &DraftHandler{service: s}
}

func (h *DraftHandler) OpenDraft(c *fiber.Ctx) error {
	draft, err := h.service.OpenDraft()
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Draft opened", "data": draft})
}

func (h *DraftHandler) GetPayments(c *fiber.Ctx) error {
	draft, err := h.service.StagedPayments(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}

func (h *DraftHandler) StagePayment(c *fiber.Ctx) error {
	var payment model.PaymentMethod
	if err := c.BodyParser(&payment); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	draft, err := h.service.StagePayment(c.Params("id"), payment)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Payment staged", "data": draft})
}

func (h *DraftHandler) RemovePayment(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid payment index"})
	}
	draft, err := h.service.RemoveStagedPayment(c.Params("id"), index)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment removed", "data": draft})
}

func (h *DraftHandler) DiscardDraft(c *fiber.Ctx) error {
	if err := h.service.DiscardDraft(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Draft discarded"})
}
