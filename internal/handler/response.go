package handler

import (
	"errors"
	"strconv"

	"go-pos-ledger/internal/logger"
	"go-pos-ledger/internal/middleware"
	"go-pos-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrNotFound, 404, "not_found"},
	{service.ErrIncompleteClientInfo, 400, "incomplete_client_info"},
	{service.ErrInvalidProductLine, 400, "invalid_product_line"},
	{service.ErrIncompletePayment, 400, "incomplete_payment"},
	{service.ErrIncompleteChangeInfo, 400, "incomplete_change_info"},
	{service.ErrPreconditionViolation, 400, "precondition_violation"},
	{service.ErrValidation, 400, "validation_failed"},
	{service.ErrInsufficientInventory, 409, "insufficient_inventory"},
	{service.ErrInvalidTransition, 409, "invalid_transition"},
	{service.ErrChangeSettlementRequired, 409, "change_settlement_required"},
}

// errorBody maps a service error onto a status and the JSON error body.
func errorBody(err error) (int, fiber.Map) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			body := fiber.Map{"error": err.Error(), "code": e.code}
			var saleErr *service.SaleError
			if errors.As(err, &saleErr) && saleErr.Line >= 0 {
				body["line"] = saleErr.Line + 1
			}
			return e.status, body
		}
	}
	return 500, fiber.Map{"error": "Internal Server Error"}
}

func respondError(c *fiber.Ctx, err error) error {
	status, body := errorBody(err)
	if status == 500 {
		log := logger.WithComponent("http")
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(status).JSON(body)
}

// Helper untuk ambil nama operator dari context (set by operator middleware)
func getOperator(c *fiber.Ctx) string {
	return middleware.GetOperator(c)
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
