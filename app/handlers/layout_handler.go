package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/theunseenchapter/constructai-sub000/app/dto"
	businessflow "github.com/theunseenchapter/constructai-sub000/business_flow"
)

type LayoutHandlerInterface interface {
	Plan(c fiber.Ctx) error
}

type LayoutHandler struct {
	responder
	flow businessflow.LayoutFlow
}

func NewLayoutHandler(flow businessflow.LayoutFlow, timeout time.Duration) LayoutHandlerInterface {
	return &LayoutHandler{
		responder: newResponder(timeout),
		flow:      flow,
	}
}

// Plan Layout
// @Summary Plan room dimensions and openings
// @Tags Layout
// @Accept json
// @Produce json
// @Param request body dto.LayoutPlanRequest true "Project specification"
// @Success 200 {object} dto.APIResponse{data=dto.LayoutPlanResponse} "Layout planned"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid project"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/layout/plan [post]
func (h *LayoutHandler) Plan(c fiber.Ctx) error {
	var req dto.LayoutPlanRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if ok, err := h.validate(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/layout/plan")
	defer cancel()

	result, err := h.flow.Plan(ctx, &req)
	if err != nil {
		return h.BusinessErrorResponse(c, err, "Failed to plan layout")
	}
	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}
