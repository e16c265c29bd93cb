package handler

import (
	"errors"

	"go-pos-ledger/internal/model"
	"go-pos-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

type statusRequest struct {
	Status model.SaleStatus `json:"status"`
}

type lineRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	return c.JSON(h.service.ListSales())
}

func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}
	sale, err := h.service.GetSale(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale)
}

// GetInvoice returns the printable invoice of a sale, as JSON or, with
// ?format=text, as a plain-text receipt.
func (h *SaleHandler) GetInvoice(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}
	inv, err := h.service.Invoice(id)
	if err != nil {
		return respondError(c, err)
	}
	if c.Query("format") == "text" {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return inv.WriteText(c)
	}
	return c.JSON(inv)
}

// BuildLine prices a product row from the current inventory.
func (h *SaleHandler) BuildLine(c *fiber.Ctx) error {
	var req lineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	line, err := h.service.BuildLine(req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(line)
}

// Quote prices a checkout without committing it. An underpaid checkout still
// returns its quote next to the error so the page can show the remaining debt.
func (h *SaleHandler) Quote(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	quote, err := h.service.Quote(&req)
	if err != nil {
		if quote != nil && errors.Is(err, service.ErrIncompletePayment) {
			status, body := errorBody(err)
			body["data"] = quote
			return c.Status(status).JSON(body)
		}
		return respondError(c, err)
	}
	return c.JSON(quote)
}

func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.service.Finalize(&req, getOperator(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Sale created", "data": sale})
}

func (h *SaleHandler) AddPayment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}
	var payment model.PaymentMethod
	if err := c.BodyParser(&payment); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.service.AddPayment(id, payment, getOperator(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment added", "data": sale})
}

func (h *SaleHandler) SetStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.service.SetStatus(id, req.Status, getOperator(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Sale status updated", "data": sale})
}
