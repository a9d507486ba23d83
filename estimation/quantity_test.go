package estimation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planTwoBedroom(t *testing.T, mutate func(*ProjectSpec)) (*Layout, ProjectSpec) {
	t.Helper()
	spec := twoBedroomSpec()
	if mutate != nil {
		mutate(&spec)
	}
	layout, err := newTestPlanner(t).Plan(spec)
	require.NoError(t, err)
	return layout, spec
}

func TestComputeQuantitiesBaseline(t *testing.T) {
	layout, spec := planTwoBedroom(t, nil)
	q := NewQuantityCalculator(DefaultConfig()).Compute(layout, spec)

	floorSqm := 1200 * SqftToSqm
	cement, ok := q.Get(MaterialCement)
	require.True(t, ok)
	assert.InDelta(t, floorSqm*8, cement.Quantity, 0.001)
	assert.Equal(t, "bag", cement.Unit)

	steel, ok := q.Get(MaterialSteel)
	require.True(t, ok)
	assert.InDelta(t, floorSqm*80/1000, steel.Quantity, 0.001)

	bricks, ok := q.Get(MaterialBrick)
	require.True(t, ok)
	assert.InDelta(t, q.Measures.BrickWallAreaSqm*55, bricks.Quantity, 0.01)

	doors, ok := q.Get(MaterialDoorStandard)
	require.True(t, ok)
	assert.Equal(t, 6.0, doors.Quantity)
	assert.True(t, doors.Exact)

	vents, ok := q.Get(MaterialVentilator)
	require.True(t, ok)
	assert.Equal(t, 2.0, vents.Quantity)

	plumbing, ok := q.Get(MaterialPlumbingFixture)
	require.True(t, ok)
	assert.Equal(t, 7.0, plumbing.Quantity)

	_, ok = q.Get(MaterialDoorPremium)
	assert.False(t, ok, "zero quantities are omitted")

	assert.Equal(t, 6, q.Measures.TotalRooms)
	assert.Equal(t, 3, q.Measures.WetRooms)
	assert.InDelta(t, q.Measures.BrickWallAreaSqm*2, q.Measures.PlasterAreaSqm, 0.01)
}

func TestComputeQuantitiesScalesWithFloorsAndConstruction(t *testing.T) {
	calc := NewQuantityCalculator(DefaultConfig())
	layout, spec := planTwoBedroom(t, nil)
	base := calc.Compute(layout, spec)

	layout2, spec2 := planTwoBedroom(t, func(s *ProjectSpec) {
		s.Floors = 2
		s.ConstructionType = ConstructionCommercial
	})
	double := calc.Compute(layout2, spec2)

	baseCement, _ := base.Get(MaterialCement)
	doubleCement, _ := double.Get(MaterialCement)
	assert.InDelta(t, baseCement.Quantity*2, doubleCement.Quantity, 0.01)

	doubleSteel, _ := double.Get(MaterialSteel)
	assert.InDelta(t, 1200*SqftToSqm*100*2/1000, doubleSteel.Quantity, 0.001)

	doubleDoors, _ := double.Get(MaterialDoorStandard)
	assert.Equal(t, 12.0, doubleDoors.Quantity)
	assert.Equal(t, 12, double.Measures.TotalRooms)
}

func TestComputeQuantitiesMultipliers(t *testing.T) {
	tests := []struct {
		name   string
		grade  QualityGrade
		loc    Location
		factor float64
	}{
		{"basic rural", QualityBasic, LocationRural, 0.8 * 0.85},
		{"standard suburban", QualityStandard, LocationSuburban, 1.0},
		{"premium urban", QualityPremium, LocationUrban, 1.4 * 1.15},
	}

	calc := NewQuantityCalculator(DefaultConfig())
	layout, spec := planTwoBedroom(t, nil)
	base := calc.Compute(layout, spec)
	baseCement, _ := base.Get(MaterialCement)
	baseDoors, _ := base.Get(MaterialDoorStandard)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := spec
			s.QualityGrade = tt.grade
			s.Location = tt.loc
			q := calc.Compute(layout, s)

			cement, _ := q.Get(MaterialCement)
			assert.InDelta(t, baseCement.Quantity*tt.factor, cement.Quantity, 0.01)

			doors, _ := q.Get(MaterialDoorStandard)
			assert.Equal(t, baseDoors.Quantity, doors.Quantity, "counts are exempt by default")
		})
	}
}

func TestComputeQuantitiesScaledCounts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScaleCountsWithMultipliers = true
	layout, spec := planTwoBedroom(t, func(s *ProjectSpec) { s.QualityGrade = QualityPremium })

	q := NewQuantityCalculator(cfg).Compute(layout, spec)
	doors, ok := q.Get(MaterialDoorStandard)
	require.True(t, ok)
	assert.Equal(t, 9.0, doors.Quantity) // ceil(6 * 1.4)
}

func TestComputeQuantitiesPremiumOpenings(t *testing.T) {
	layout, spec := planTwoBedroom(t, func(s *ProjectSpec) {
		s.DoorGrade = OpeningPremium
		s.WindowGrade = OpeningPremium
	})
	q := NewQuantityCalculator(DefaultConfig()).Compute(layout, spec)

	_, ok := q.Get(MaterialDoorStandard)
	assert.False(t, ok)
	doors, _ := q.Get(MaterialDoorPremium)
	assert.Equal(t, 6.0, doors.Quantity)
	windows, _ := q.Get(MaterialWindowPremium)
	assert.Equal(t, 7.0, windows.Quantity) // living 2, bedrooms 4, kitchen 1
	vents, _ := q.Get(MaterialVentilator)
	assert.Equal(t, 2.0, vents.Quantity)
}

func TestComputeLabor(t *testing.T) {
	q := Quantities{Measures: Measures{
		BrickWallAreaSqm: 100,
		PlasterAreaSqm:   200,
		PaintAreaSqm:     300,
		TotalRooms:       6,
		WiredRooms:       6,
		WetRooms:         3,
	}}
	labor := NewLaborEstimator(DefaultConfig()).Compute(q)

	assert.InDelta(t, 30.0, labor.Get(TradeMason), 1e-9)
	assert.InDelta(t, 30.0, labor.Get(TradeHelper), 1e-9)
	assert.InDelta(t, 12.0, labor.Get(TradeElectrician), 1e-9)
	assert.InDelta(t, 4.5, labor.Get(TradePlumber), 1e-9)
	assert.InDelta(t, 15.0, labor.Get(TradePainter), 1e-9)
	assert.InDelta(t, 9.0, labor.Get(TradeCarpenter), 1e-9)

	trades := make([]Trade, 0, len(labor))
	for _, l := range labor {
		trades = append(trades, l.Trade)
	}
	assert.Equal(t, []Trade{TradeMason, TradeHelper, TradeElectrician, TradePlumber, TradePainter, TradeCarpenter}, trades)
}

func TestComputeLaborOmitsIdleTrades(t *testing.T) {
	labor := NewLaborEstimator(DefaultConfig()).Compute(Quantities{Measures: Measures{TotalRooms: 1, WiredRooms: 1}})
	assert.Len(t, labor, 2)
	assert.Zero(t, labor.Get(TradePlumber))
}

func TestMergeYAMLOverrides(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.MergeYAML([]byte(`
overhead_fraction: 0.15
coefficients:
  cement_bags_per_sqm: 6
  steel_kg_per_sqm_residential: 80
  steel_kg_per_sqm_commercial: 100
  bricks_per_sqm: 55
  sand_cft_per_sqm: 20
  aggregate_cft_per_sqm: 14
  tile_wastage: 1.1
  plaster_faces: 2
quality_multipliers:
  premium: 1.5
`))
	require.NoError(t, err)
	assert.Equal(t, 0.15, cfg.OverheadFraction)
	assert.Equal(t, 6.0, cfg.Coefficients.CementBagsPerSqm)
	assert.Equal(t, 1.5, cfg.QualityMultipliers[QualityPremium])
	assert.Equal(t, 0.8, cfg.QualityMultipliers[QualityBasic])
	assert.Equal(t, 0.10, cfg.CirculationFraction)
}

func TestMergeYAMLMergesNestedEntries(t *testing.T) {
	cases := []struct {
		name  string
		doc   string
		check func(t *testing.T, cfg Config)
	}{
		{
			name: "one share of a tier",
			doc:  "allocation:\n  small:\n    bedroom: 0.30\n",
			check: func(t *testing.T, cfg Config) {
				small := cfg.Allocation[TierSmall]
				assert.Equal(t, 0.30, small[RoomTypeBedroom])
				assert.Equal(t, 0.35, small[RoomTypeLivingRoom])
				assert.Equal(t, 0.18, small[RoomTypeKitchen])
				assert.Len(t, small, len(RoomTypeOrder))
				assert.Equal(t, 0.16, cfg.Allocation[TierMedium][RoomTypeBedroom])
			},
		},
		{
			name: "one field of a room type",
			doc:  "room_defaults:\n  bedroom:\n    doors: 2\n",
			check: func(t *testing.T, cfg Config) {
				bed := cfg.RoomDefaults[RoomTypeBedroom]
				assert.Equal(t, 2, bed.Doors)
				assert.Equal(t, 11.0, bed.BaseWidth)
				assert.Equal(t, "Bedroom", bed.Label)
				assert.Equal(t, 2, bed.Windows)
				assert.Equal(t, DefaultRoomTypeDefaults()[RoomTypeKitchen], cfg.RoomDefaults[RoomTypeKitchen])
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			require.NoError(t, cfg.MergeYAML([]byte(tc.doc)))
			tc.check(t, cfg)
		})
	}
}

func TestMergeYAMLDoesNotMutateSharedTables(t *testing.T) {
	base := DefaultConfig()
	cfg := base
	require.NoError(t, cfg.MergeYAML([]byte("allocation:\n  small:\n    bedroom: 0.30\n")))
	assert.Equal(t, 0.28, base.Allocation[TierSmall][RoomTypeBedroom])
}

func TestMergeYAMLRejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.MergeYAML([]byte("circulation_fraction: 0.7\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
