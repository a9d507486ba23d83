package businessflow

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theunseenchapter/constructai-sub000/app/dto"
	"github.com/theunseenchapter/constructai-sub000/estimation"
)

func TestLayoutFlowPlan(t *testing.T) {
	logger, _ := test.NewNullLogger()
	flow := NewLayoutFlow(estimation.NewEngine(estimation.DefaultConfig(), logger, time.Now))

	req := &dto.LayoutPlanRequest{ProjectSpecRequest: sampleEstimateRequest(false).ProjectSpecRequest}

	first, err := flow.Plan(context.Background(), req)
	require.NoError(t, err)
	second, err := flow.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.InDelta(t, 1080.0, first.UsableArea, 1e-9)
	assert.GreaterOrEqual(t, first.CirculationArea, 120.0-1e-6)
	require.Len(t, first.Rooms, 6)
	for _, r := range first.Rooms {
		assert.Greater(t, r.Area, 0.0, r.Name)
		assert.LessOrEqual(t, math.Abs(r.Width*r.Length-r.Area), 0.05, r.Name)
	}

	_, err = flow.Plan(context.Background(), &dto.LayoutPlanRequest{})
	assert.True(t, IsInvalidProjectSpec(err))
}

func TestLayoutFlowPlanHonoursZeroCirculation(t *testing.T) {
	logger, _ := test.NewNullLogger()
	flow := NewLayoutFlow(estimation.NewEngine(estimation.DefaultConfig(), logger, time.Now))

	zero := 0.0
	req := &dto.LayoutPlanRequest{ProjectSpecRequest: sampleEstimateRequest(false).ProjectSpecRequest}
	req.CirculationFraction = &zero

	resp, err := flow.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.InDelta(t, 1200.0, resp.UsableArea, 1e-9)
}
