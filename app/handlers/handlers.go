// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/theunseenchapter/constructai-sub000/app/dto"
	businessflow "github.com/theunseenchapter/constructai-sub000/business_flow"
	"github.com/theunseenchapter/constructai-sub000/utils"
)

// responder carries the envelope helpers and request context plumbing shared by every handler
type responder struct {
	validator *validator.Validate
	timeout   time.Duration
}

func newResponder(timeout time.Duration) responder {
	if timeout <= 0 {
		timeout = utils.DefaultRequestTimeout
	}
	return responder{validator: validator.New(), timeout: timeout}
}

func (h responder) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h responder) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// validate runs struct validation and writes a 400 envelope on failure. It returns true when the request may proceed.
func (h responder) validate(c fiber.Ctx, req any) (bool, error) {
	err := h.validator.Struct(req)
	if err == nil {
		return true, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false, h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", []string{err.Error()})
	}
	validationErrors := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		validationErrors = append(validationErrors, getValidationErrorMessage(fe))
	}
	return false, h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
}

// BusinessErrorResponse maps a flow error onto an HTTP status and the error envelope
func (h responder) BusinessErrorResponse(c fiber.Ctx, err error, fallback string) error {
	status := businessErrorStatus(err)
	var be *businessflow.BusinessError
	if errors.As(err, &be) {
		var details any
		if status < fiber.StatusInternalServerError {
			details = be.Error()
		}
		return h.ErrorResponse(c, status, be.Message, be.Code, details)
	}
	return h.ErrorResponse(c, status, fallback, "INTERNAL_ERROR", nil)
}

func businessErrorStatus(err error) int {
	switch {
	case businessflow.IsInvalidProjectSpec(err),
		businessflow.IsInvalidPrice(err),
		businessflow.IsMaterialCodeMissing(err),
		businessflow.IsInvalidEstimateID(err),
		businessflow.IsUnsupportedFormat(err):
		return fiber.StatusBadRequest
	case businessflow.IsMaterialNotFound(err),
		businessflow.IsEstimateNotFound(err),
		businessflow.IsPersistenceOff(err):
		return fiber.StatusNotFound
	case businessflow.IsRefreshInProgress(err):
		return fiber.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

func (h responder) createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, requestid.FromContext(c))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, h.timeout)
	if op, ok := c.Locals(utils.OperatorKey).(string); ok {
		ctx = context.WithValue(ctx, utils.OperatorKey, op)
	}
	return ctx, cancel
}

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "min":
		return err.Field() + " must have at least " + err.Param() + " entries"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}
