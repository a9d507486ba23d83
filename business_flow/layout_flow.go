package businessflow

import (
	"context"

	"github.com/theunseenchapter/constructai-sub000/app/dto"
	"github.com/theunseenchapter/constructai-sub000/estimation"
)

// LayoutFlow exposes the room layout planner on its own
type LayoutFlow interface {
	Plan(ctx context.Context, req *dto.LayoutPlanRequest) (*dto.LayoutPlanResponse, error)
}

type LayoutFlowImpl struct {
	engine *estimation.Engine
}

func NewLayoutFlow(engine *estimation.Engine) LayoutFlow {
	return &LayoutFlowImpl{engine: engine}
}

func (f *LayoutFlowImpl) Plan(ctx context.Context, req *dto.LayoutPlanRequest) (*dto.LayoutPlanResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_PROJECT_SPEC", "Project specification is required", ErrInvalidProjectSpec)
	}

	layout, err := f.engine.Plan(toProjectSpec(req.ProjectSpecRequest))
	if err != nil {
		return nil, NewBusinessError("INVALID_PROJECT_SPEC", "Invalid project specification", joinErr(ErrInvalidProjectSpec, err))
	}

	return &dto.LayoutPlanResponse{
		Message:         "Layout planned successfully",
		TotalArea:       layout.TotalArea,
		UsableArea:      layout.UsableArea,
		CirculationArea: layout.CirculationArea,
		BuildingWidth:   layout.BuildingWidth,
		BuildingLength:  layout.BuildingLength,
		Rooms:           toRoomResponses(layout.Rooms),
		Warnings:        nonNilStrings(layout.Warnings),
	}, nil
}
