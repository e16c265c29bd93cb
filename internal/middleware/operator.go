package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// OperatorHeader names the person working the till. There is no
	// authentication; the value is only used for attribution.
	OperatorHeader  = "X-Operator"
	DefaultOperator = "system"
	operatorKey     = "operator"
)

// Operator stores the request's operator name in the context for downstream handlers
func Operator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := strings.TrimSpace(c.Get(OperatorHeader))
		if name == "" {
			name = DefaultOperator
		}
		if len(name) > 64 {
			return c.Status(400).JSON(fiber.Map{"error": "Operator name too long"})
		}
		c.Locals(operatorKey, name)
		return c.Next()
	}
}

// GetOperator returns the operator set by Operator, or the default when the
// middleware did not run.
func GetOperator(c *fiber.Ctx) string {
	if name, ok := c.Locals(operatorKey).(string); ok && name != "" {
		return name
	}
	return DefaultOperator
}
