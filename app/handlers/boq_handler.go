package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/theunseenchapter/constructai-sub000/app/dto"
	businessflow "github.com/theunseenchapter/constructai-sub000/business_flow"
)

// BOQHandlerInterface defines the contract for estimation handlers
type BOQHandlerInterface interface {
	Estimate(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Export(c fiber.Ctx) error
}

type BOQHandler struct {
	responder
	flow businessflow.BOQFlow
}

func NewBOQHandler(flow businessflow.BOQFlow, timeout time.Duration) BOQHandlerInterface {
	return &BOQHandler{
		responder: newResponder(timeout),
		flow:      flow,
	}
}

// Estimate BOQ
// @Summary Estimate a bill of quantities
// @Description Plans the rooms, takes off quantities, estimates labor and prices everything with the current rates. Set persist=true to store the estimate for later retrieval and export.
// @Tags BOQ
// @Accept json
// @Produce json
// @Param request body dto.BOQEstimateRequest true "Project specification"
// @Success 200 {object} dto.APIResponse{data=dto.BOQEstimateResponse} "Estimate produced"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid project"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/boq/estimate [post]
func (h *BOQHandler) Estimate(c fiber.Ctx) error {
	var req dto.BOQEstimateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if ok, err := h.validate(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/boq/estimate")
	defer cancel()

	result, err := h.flow.Estimate(ctx, &req)
	if err != nil {
		return h.BusinessErrorResponse(c, err, "Failed to produce estimate")
	}
	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Get BOQ
// @Summary Get a stored estimate
// @Tags BOQ
// @Produce json
// @Param boq_id path string true "Estimate id (UUID)"
// @Success 200 {object} dto.APIResponse{data=dto.BOQEstimateResponse} "Estimate retrieved"
// @Failure 400 {object} dto.APIResponse "Malformed id"
// @Failure 404 {object} dto.APIResponse "Estimate not found or persistence disabled"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/boq/{boq_id} [get]
func (h *BOQHandler) Get(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/boq/:boq_id")
	defer cancel()

	result, err := h.flow.GetEstimate(ctx, c.Params("boq_id"))
	if err != nil {
		return h.BusinessErrorResponse(c, err, "Failed to load estimate")
	}
	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Export BOQ
// @Summary Download a stored estimate
// @Tags BOQ
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce application/pdf
// @Param boq_id path string true "Estimate id (UUID)"
// @Param format query string false "xlsx (default) or pdf"
// @Success 200 {file} file "Rendered estimate"
// @Failure 400 {object} dto.APIResponse "Unsupported format or malformed id"
// @Failure 404 {object} dto.APIResponse "Estimate not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/boq/{boq_id}/export [get]
func (h *BOQHandler) Export(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/boq/:boq_id/export")
	defer cancel()

	file, err := h.flow.Export(ctx, c.Params("boq_id"), c.Query("format"))
	if err != nil {
		return h.BusinessErrorResponse(c, err, "Failed to export estimate")
	}

	c.Set("Content-Type", file.ContentType)
	c.Set("Content-Disposition", "attachment; filename="+file.Filename)
	return c.Send(file.Body)
}
