package estimation

import (
	"math"
)

// QuantityCalculator derives a material take-off from a layout
type QuantityCalculator struct {
	cfg Config
}

// NewQuantityCalculator creates a calculator using cfg
func NewQuantityCalculator(cfg Config) *QuantityCalculator {
	return &QuantityCalculator{cfg: cfg}
}

// Compute returns material quantities for every floor of the project.
// Area-driven quantities are scaled by the quality and location multipliers;
// literal counts are left unscaled unless ScaleCountsWithMultipliers is set.
func (c *QuantityCalculator) Compute(layout *Layout, spec ProjectSpec) Quantities {
	spec = spec.WithDefaults(c.cfg.CirculationFraction)
	floors := float64(spec.Floors)
	coef := c.cfg.Coefficients

	var wallSqft, roomFloorSqft float64
	var electrical, plumbing int
	var wired, wet int
	openings := map[string]int{}
	for _, room := range layout.Rooms {
		wallSqft += room.WallArea()
		roomFloorSqft += room.Area
		d := c.cfg.RoomDefaults[room.Type]
		electrical += d.ElectricalPoints
		plumbing += d.PlumbingPoints
		if d.NeedsWiring {
			wired++
		}
		if d.WetRoom {
			wet++
		}
		for _, door := range room.Doors {
			openings[doorCode(door.Type)]++
		}
		for _, window := range room.Windows {
			openings[windowCode(window.Type)]++
		}
	}

	floorSqm := spec.TotalArea * SqftToSqm
	roomFloorSqm := roomFloorSqft * SqftToSqm
	wallSqm := wallSqft * SqftToSqm
	plasterSqm := wallSqm * coef.PlasterFaces
	paintSqm := plasterSqm + roomFloorSqm

	steelPerSqm := coef.SteelKgPerSqmResidential
	if spec.ConstructionType == ConstructionCommercial {
		steelPerSqm = coef.SteelKgPerSqmCommercial
	}

	scale := c.cfg.multiplier(spec.QualityGrade, spec.Location)
	items := make([]Quantity, 0, 16)
	addArea := func(code, unit string, qty float64) {
		qty = round3(qty * scale)
		if qty > 0 {
			items = append(items, Quantity{Code: code, Quantity: qty, Unit: unit})
		}
	}
	addCount := func(code string, count int) {
		qty := float64(count) * floors
		if c.cfg.ScaleCountsWithMultipliers {
			qty = math.Ceil(qty * scale)
		}
		if qty > 0 {
			items = append(items, Quantity{Code: code, Quantity: qty, Unit: "piece", Exact: true})
		}
	}

	addArea(MaterialCement, "bag", floorSqm*coef.CementBagsPerSqm*floors)
	addArea(MaterialSteel, "ton", floorSqm*steelPerSqm*floors/1000)
	addArea(MaterialBrick, "piece", wallSqm*coef.BricksPerSqm*floors)
	addArea(MaterialSand, "cft", floorSqm*coef.SandCftPerSqm*floors)
	addArea(MaterialAggregate, "cft", floorSqm*coef.AggregateCftPerSqm*floors)
	addArea(MaterialTiles, "sqm", roomFloorSqm*coef.TileWastage*floors)
	addArea(MaterialPlaster, "sqm", plasterSqm*floors)
	addArea(MaterialPaint, "sqm", paintSqm*floors)
	addCount(MaterialElectricalFixture, electrical)
	addCount(MaterialPlumbingFixture, plumbing)
	for _, code := range []string{MaterialDoorStandard, MaterialDoorPremium, MaterialWindowStandard, MaterialWindowPremium, MaterialVentilator} {
		addCount(code, openings[code])
	}

	rooms := len(layout.Rooms) * spec.Floors
	return Quantities{
		Items: items,
		Measures: Measures{
			FloorAreaSqm:     round3(floorSqm * floors),
			RoomFloorAreaSqm: round3(roomFloorSqm * floors),
			BrickWallAreaSqm: round3(wallSqm * floors),
			PlasterAreaSqm:   round3(plasterSqm * floors),
			PaintAreaSqm:     round3(paintSqm * floors),
			Floors:           spec.Floors,
			TotalRooms:       rooms,
			WiredRooms:       wired * spec.Floors,
			WetRooms:         wet * spec.Floors,
		},
	}
}

func doorCode(grade string) string {
	if grade == string(OpeningPremium) {
		return MaterialDoorPremium
	}
	return MaterialDoorStandard
}

func windowCode(typ string) string {
	switch typ {
	case WindowTypeVentilator:
		return MaterialVentilator
	case string(OpeningPremium):
		return MaterialWindowPremium
	default:
		return MaterialWindowStandard
	}
}
