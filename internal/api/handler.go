package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Checker-Finance/linxpay/internal/metrics"
	"github.com/Checker-Finance/linxpay/pkg/linxpay"
)

// LinxPayService defines the LinxPay operations used by the handler.
type LinxPayService interface {
	Poll(ctx context.Context) (*linxpay.Result, error)
	Redemption(ctx context.Context, fields linxpay.Fields) (*linxpay.Result, error)
}

// LinxPayHandler handles HTTP API requests for LinxPay operations.
type LinxPayHandler struct {
	logger  *zap.Logger
	service LinxPayService
}

// NewLinxPayHandler creates a new LinxPayHandler.
func NewLinxPayHandler(logger *zap.Logger, service LinxPayService) *LinxPayHandler {
	return &LinxPayHandler{
		logger:  logger,
		service: service,
	}
}

// PollHandler proxies the LinxPay availability check.
func (h *LinxPayHandler) PollHandler(c *fiber.Ctx) error {
	res, err := h.service.Poll(c.UserContext())
	if err != nil {
		return h.writeError(c, "poll", err)
	}
	return writeResult(c, res)
}

// RedemptionHandler accepts a JSON redemption payload and forwards it.
func (h *LinxPayHandler) RedemptionHandler(c *fiber.Ctx) error {
	fields, err := decodeFields(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	res, err := h.service.Redemption(c.UserContext(), fields)
	if err != nil {
		return h.writeError(c, "redemption", err)
	}
	if !res.OK() {
		h.logger.Warn("linxpay.redemption.rejected",
			zap.Stringer("kind", res.Kind),
			zap.Int("status", res.StatusCode))
	}
	return writeResult(c, res)
}

func (h *LinxPayHandler) writeError(c *fiber.Ctx, op string, err error) error {
	var ve *linxpay.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: ve.Message, Field: ve.Field})
	}

	var authErr *linxpay.AuthError
	if errors.As(err, &authErr) {
		h.logger.Error("linxpay."+op+".auth_failed", zap.Error(err))
		metrics.IncError("api", "auth")
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: err.Error()})
	}

	h.logger.Error("linxpay."+op+".failed", zap.Error(err))
	metrics.IncError("api", "internal")
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
}

// decodeFields reads a JSON object, keeping numbers as json.Number so amounts
// reach LinxPay exactly as sent.
func decodeFields(body []byte) (linxpay.Fields, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("request body is required")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, errors.New("request body must be a JSON object")
	}
	if fields == nil {
		return nil, errors.New("request body must be a JSON object")
	}
	return linxpay.Fields(fields), nil
}
