package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/theunseenchapter/constructai-sub000/app/dto"
	businessflow "github.com/theunseenchapter/constructai-sub000/business_flow"
	"github.com/theunseenchapter/constructai-sub000/pricing"
)

// PricingHandlerInterface defines the contract for material pricing handlers
type PricingHandlerInterface interface {
	CurrentPrices(c fiber.Ctx) error
	Material(c fiber.Ctx) error
	PriceHistory(c fiber.Ctx) error
	UpdatePrice(c fiber.Ctx) error
	Refresh(c fiber.Ctx) error
}

type PricingHandler struct {
	responder
	flow businessflow.PricingFlow
}

func NewPricingHandler(flow businessflow.PricingFlow, timeout time.Duration) PricingHandlerInterface {
	return &PricingHandler{
		responder: newResponder(timeout),
		flow:      flow,
	}
}

// CurrentPrices
// @Summary Current material and labor rates
// @Tags Pricing
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CurrentPricesResponse} "Current prices"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/pricing/current-prices [get]
func (h *PricingHandler) CurrentPrices(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/pricing/current-prices")
	defer cancel()

	result, err := h.flow.CurrentPrices(ctx)
	if err != nil {
		return h.BusinessErrorResponse(c, err, "Failed to load current prices")
	}
	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Material
// @Summary One material rate with its recent history
// @Tags Pricing
// @Produce json
// @Param material_code path string true "Material code"
// @Success 200 {object} dto.APIResponse{data=dto.MaterialResponse} "Material"
// @Failure 404 {object} dto.APIResponse "Unknown material"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/pricing/materials/{material_code} [get]
func (h *PricingHandler) Material(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/pricing/materials/:material_code")
	defer cancel()

	result, err := h.flow.Material(ctx, c.Params("material_code"))
	if err != nil {
		return h.BusinessErrorResponse(c, err, "Failed to load material")
	}
	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// PriceHistory
// @Summary Price history of a material within the last N days
// @Tags Pricing
// @Produce json
// @Param material_code path string true "Material code"
// @Param days query int false "Window in days (default 30, at most 3650)"
// @Success 200 {object} dto.APIResponse{data=dto.PriceHistoryResponse} "History, empty for unknown codes"
// @Failure 400 {object} dto.APIResponse "Malformed days"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/pricing/price-history/{material_code} [get]
func (h *PricingHandler) PriceHistory(c fiber.Ctx) error {
	days := 0
	if raw := c.Query("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "days must be an integer", "INVALID_DAYS", err.Error())
		}
		if v > pricing.MaxHistoryDays {
			return h.ErrorResponse(c, fiber.StatusBadRequest, fmt.Sprintf("days must not exceed %d", pricing.MaxHistoryDays), "INVALID_DAYS", nil)
		}
		days = v
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/pricing/price-history/:material_code")
	defer cancel()

	result, err := h.flow.PriceHistory(ctx, c.Params("material_code"), days)
	if err != nil {
		return h.BusinessErrorResponse(c, err, "Failed to load price history")
	}
	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// UpdatePrice
// @Summary Record a new price for a material
// @Tags Pricing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdatePriceRequest true "Price update"
// @Success 200 {object} dto.APIResponse{data=dto.UpdatePriceResponse} "Price updated"
// @Failure 400 {object} dto.APIResponse "Validation error or non-positive price"
// @Failure 401 {object} dto.APIResponse "Missing or invalid operator token"
// @Failure 404 {object} dto.APIResponse "Unknown material"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/pricing/update-price [post]
func (h *PricingHandler) UpdatePrice(c fiber.Ctx) error {
	var req dto.UpdatePriceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if ok, err := h.validate(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/pricing/update-price")
	defer cancel()

	result, err := h.flow.UpdatePrice(ctx, &req)
	if err != nil {
		return h.BusinessErrorResponse(c, err, "Failed to update price")
	}
	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Refresh
// @Summary Refresh live prices from the market feed in the background
// @Tags Pricing
// @Produce json
// @Security BearerAuth
// @Success 202 {object} dto.APIResponse{data=dto.RefreshPricesResponse} "Refresh started"
// @Failure 401 {object} dto.APIResponse "Missing or invalid operator token"
// @Failure 409 {object} dto.APIResponse "A refresh is already running"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/pricing/refresh [post]
func (h *PricingHandler) Refresh(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/pricing/refresh")
	defer cancel()

	result, err := h.flow.TriggerRefresh(ctx)
	if err != nil {
		return h.BusinessErrorResponse(c, err, "Failed to start price refresh")
	}
	return h.SuccessResponse(c, fiber.StatusAccepted, result.Message, result)
}
