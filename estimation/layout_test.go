package estimation

import (
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlanner(t *testing.T) *Planner {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return NewPlanner(DefaultConfig(), logger)
}

func twoBedroomSpec() ProjectSpec {
	return ProjectSpec{
		TotalArea: 1200,
		RoomCounts: map[RoomType]int{
			RoomTypeBedroom:    2,
			RoomTypeLivingRoom: 1,
			RoomTypeKitchen:    1,
			RoomTypeBathroom:   2,
		},
	}
}

func TestPlanTwoBedroomHouse(t *testing.T) {
	layout, err := newTestPlanner(t).Plan(twoBedroomSpec())
	require.NoError(t, err)

	require.Len(t, layout.Rooms, 6)
	total := 0.0
	for _, r := range layout.Rooms {
		assert.Greater(t, r.Area, 0.0, r.Name)
		total += r.Area
	}
	assert.LessOrEqual(t, total, 1080.0)
	assert.InDelta(t, 1080.0, layout.UsableArea, 1e-9)

	counts := layout.CountByType()
	assert.Equal(t, 2, counts[RoomTypeBedroom])
	assert.Equal(t, 2, counts[RoomTypeBathroom])
	assert.Equal(t, 1, counts[RoomTypeLivingRoom])
	assert.Equal(t, 1, counts[RoomTypeKitchen])
	assert.Empty(t, layout.Warnings)
}

func TestPlanCirculationFraction(t *testing.T) {
	zero, quarter := 0.0, 0.25
	cases := []struct {
		name        string
		circulation *float64
		usable      float64
	}{
		{"unset uses config default", nil, 900},
		{"explicit zero is honoured", &zero, 1000},
		{"explicit value", &quarter, 750},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := ProjectSpec{
				TotalArea:           1000,
				CirculationFraction: tc.circulation,
				RoomCounts:          map[RoomType]int{RoomTypeLivingRoom: 1, RoomTypeBedroom: 1, RoomTypeKitchen: 1},
			}
			layout, err := newTestPlanner(t).Plan(spec)
			require.NoError(t, err)
			assert.InDelta(t, tc.usable, layout.UsableArea, 1e-9)
			assert.LessOrEqual(t, layout.AllocatedArea(), 1000.0+1e-9)
		})
	}
}

func TestPlanWithPartialAllocationOverride(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.MergeYAML([]byte("allocation:\n  small:\n    bedroom: 0.30\n")))

	logger, _ := test.NewNullLogger()
	layout, err := NewPlanner(cfg, logger).Plan(ProjectSpec{
		TotalArea:  1000,
		RoomCounts: map[RoomType]int{RoomTypeLivingRoom: 1, RoomTypeBedroom: 1, RoomTypeKitchen: 1},
	})
	require.NoError(t, err)

	areas := make(map[string]float64, len(layout.Rooms))
	for _, r := range layout.Rooms {
		areas[r.Name] = r.Area
	}
	assert.InDelta(t, 900*0.35, areas["Living Room 1"], 0.01)
	assert.InDelta(t, 900*0.30, areas["Bedroom 1"], 0.01)
	assert.InDelta(t, 900*0.18, areas["Kitchen 1"], 0.01)
}

func TestPlanRoomNamesFollowCanonicalOrder(t *testing.T) {
	layout, err := newTestPlanner(t).Plan(twoBedroomSpec())
	require.NoError(t, err)

	names := make([]string, 0, len(layout.Rooms))
	for _, r := range layout.Rooms {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Living Room 1", "Bedroom 1", "Bedroom 2", "Kitchen 1", "Bathroom 1", "Bathroom 2"}, names)
}

func TestPlanInvariants(t *testing.T) {
	tests := []struct {
		name string
		spec ProjectSpec
	}{
		{
			name: "single room",
			spec: ProjectSpec{TotalArea: 300, RoomCounts: map[RoomType]int{RoomTypeLivingRoom: 1}},
		},
		{
			name: "medium house",
			spec: ProjectSpec{TotalArea: 1800, RoomCounts: map[RoomType]int{
				RoomTypeBedroom: 3, RoomTypeLivingRoom: 1, RoomTypeKitchen: 1, RoomTypeBathroom: 2, RoomTypeDiningRoom: 1,
			}},
		},
		{
			name: "large house every type",
			spec: ProjectSpec{TotalArea: 4000, RoomCounts: map[RoomType]int{
				RoomTypeBedroom: 4, RoomTypeLivingRoom: 1, RoomTypeKitchen: 1, RoomTypeBathroom: 3,
				RoomTypeDiningRoom: 1, RoomTypeStudyRoom: 1, RoomTypeGuestRoom: 1, RoomTypeUtilityRoom: 1,
				RoomTypeStoreRoom: 1, RoomTypeBalcony: 2,
			}},
		},
		{
			name: "cramped plot clamps to minimum",
			spec: ProjectSpec{TotalArea: 400, RoomCounts: map[RoomType]int{
				RoomTypeBedroom: 3, RoomTypeLivingRoom: 1, RoomTypeKitchen: 1, RoomTypeBathroom: 3, RoomTypeStoreRoom: 1,
			}},
		},
		{
			name: "more rooms than minimum area allows",
			spec: ProjectSpec{TotalArea: 200, RoomCounts: map[RoomType]int{RoomTypeBedroom: 6, RoomTypeBathroom: 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := newTestPlanner(t).Plan(tt.spec)
			require.NoError(t, err)
			require.Len(t, layout.Rooms, tt.spec.RoomCount())

			assert.LessOrEqual(t, layout.AllocatedArea(), tt.spec.TotalArea+1e-6)
			floor := math.Min(40, tt.spec.TotalArea/float64(tt.spec.RoomCount()))
			for _, r := range layout.Rooms {
				assert.Greater(t, r.Area, 0.0)
				assert.GreaterOrEqual(t, r.Area, floor-0.01, r.Name)
				assert.InEpsilon(t, r.Area, r.Width*r.Length, 1e-6, r.Name)
				assert.GreaterOrEqual(t, r.Position.X, 0.0)
				assert.GreaterOrEqual(t, r.Position.Y, 0.0)
			}
		})
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	planner := newTestPlanner(t)
	first, err := planner.Plan(twoBedroomSpec())
	require.NoError(t, err)
	second, err := planner.Plan(twoBedroomSpec())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPlanOpeningsDoNotOverlap(t *testing.T) {
	spec := ProjectSpec{TotalArea: 2400, RoomCounts: map[RoomType]int{
		RoomTypeLivingRoom: 1, RoomTypeBedroom: 3, RoomTypeKitchen: 1, RoomTypeBathroom: 2, RoomTypeBalcony: 1,
	}}
	layout, err := newTestPlanner(t).Plan(spec)
	require.NoError(t, err)

	for _, r := range layout.Rooms {
		byWall := map[Wall][]Opening{}
		for _, o := range append(append([]Opening{}, r.Doors...), r.Windows...) {
			byWall[o.Wall] = append(byWall[o.Wall], o)
		}
		for wall, openings := range byWall {
			for i := 0; i < len(openings); i++ {
				for j := i + 1; j < len(openings); j++ {
					a, b := openings[i], openings[j]
					overlap := a.Offset < b.Offset+b.Width && b.Offset < a.Offset+a.Width
					assert.False(t, overlap, "%s: openings overlap on %s wall", r.Name, wall)
				}
			}
		}
	}
}

func TestPlanDefaultOpenings(t *testing.T) {
	layout, err := newTestPlanner(t).Plan(twoBedroomSpec())
	require.NoError(t, err)

	for _, r := range layout.Rooms {
		switch r.Type {
		case RoomTypeBedroom:
			assert.Len(t, r.Doors, 1)
			assert.Len(t, r.Windows, 2)
		case RoomTypeBathroom:
			require.Len(t, r.Windows, 1)
			assert.Equal(t, WindowTypeVentilator, r.Windows[0].Type)
		case RoomTypeLivingRoom:
			require.Len(t, r.Doors, 1)
			assert.Equal(t, string(OpeningStandard), r.Doors[0].Type)
			assert.Equal(t, WallFront, r.Doors[0].Wall)
		}
	}
}

func TestPlanRowPackingWrapsAtBuildingWidth(t *testing.T) {
	spec := twoBedroomSpec()
	spec.BuildingWidth = 30
	layout, err := newTestPlanner(t).Plan(spec)
	require.NoError(t, err)

	for _, r := range layout.Rooms {
		if r.Position.X > 0 {
			assert.LessOrEqual(t, r.Position.X+r.Width, 30.0+1e-6, r.Name)
		}
	}
	assert.Equal(t, 0.0, layout.Rooms[0].Position.Y)
	assert.Greater(t, layout.BuildingLength, 0.0)
}

func TestPlanInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		spec ProjectSpec
	}{
		{"zero area", ProjectSpec{TotalArea: 0, RoomCounts: map[RoomType]int{RoomTypeBedroom: 1}}},
		{"negative area", ProjectSpec{TotalArea: -10, RoomCounts: map[RoomType]int{RoomTypeBedroom: 1}}},
		{"no rooms", ProjectSpec{TotalArea: 1000, RoomCounts: map[RoomType]int{}}},
		{"all zero counts", ProjectSpec{TotalArea: 1000, RoomCounts: map[RoomType]int{RoomTypeBedroom: 0}}},
		{"negative count", ProjectSpec{TotalArea: 1000, RoomCounts: map[RoomType]int{RoomTypeBedroom: -1, RoomTypeKitchen: 1}}},
		{"unknown type", ProjectSpec{TotalArea: 1000, RoomCounts: map[RoomType]int{"garage": 1}}},
		{"negative floors", ProjectSpec{TotalArea: 1000, Floors: -1, RoomCounts: map[RoomType]int{RoomTypeBedroom: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := newTestPlanner(t).Plan(tt.spec)
			assert.Nil(t, layout)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestPlanLogsAtDebug(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	_, err := NewPlanner(DefaultConfig(), logger).Plan(twoBedroomSpec())
	require.NoError(t, err)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "layout planned", hook.LastEntry().Message)
	assert.Equal(t, 6, hook.LastEntry().Data["rooms"])
}
