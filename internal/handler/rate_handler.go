package handler

import (
	"go-pos-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type RateHandler struct {
	service service.RateService
}

func NewRateHandler(s service.RateService) *RateHandler {
	return &RateHandler{service: s}
}

type rateRequest struct {
	Rate decimal.Decimal `json:"rate"`
}

func (h *RateHandler) GetRate(c *fiber.Ctx) error {
	rate, err := h.service.CurrentRate()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"rate": rate})
}

func (h *RateHandler) SetRate(c *fiber.Ctx) error {
	var req rateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	rate, err := h.service.SetRate(req.Rate, getOperator(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Rate updated", "rate": rate})
}
