package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Checker-Finance/linxpay/pkg/linxpay"
)

// ErrorResponse is the adapter's own error document.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeResult maps a LinxPay result onto the adapter response. Success and
// APIError bodies pass through with LinxPay's status; transport failures
// become 502.
func writeResult(c *fiber.Ctx, res *linxpay.Result) error {
	switch res.Kind {
	case linxpay.Success:
		return writeBody(c, fiber.StatusOK, res.Body)
	case linxpay.APIError:
		return writeBody(c, res.StatusCode, res.Body)
	default:
		msg := "linxpay unavailable"
		if res.Err != nil {
			msg = res.Err.Error()
		}
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: msg})
	}
}

func writeBody(c *fiber.Ctx, status int, body any) error {
	if body == nil {
		return c.Status(status).JSON(fiber.Map{})
	}
	return c.Status(status).JSON(body)
}
