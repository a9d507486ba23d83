package estimation

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

const areaEpsilon = 1e-9

// Planner allocates floor area to rooms and places them on a plan
type Planner struct {
	cfg    Config
	logger *logrus.Logger
}

// NewPlanner creates a planner using cfg
func NewPlanner(cfg Config, logger *logrus.Logger) *Planner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Planner{cfg: cfg, logger: logger}
}

type roomSlot struct {
	roomType RoomType
	index    int
	share    float64
}

// Plan produces the layout of one typical floor for spec.
// The result is fully determined by spec and the planner config.
func (p *Planner) Plan(spec ProjectSpec) (*Layout, error) {
	spec = spec.WithDefaults(p.cfg.CirculationFraction)
	if err := validateSpec(spec); err != nil {
		return nil, err
	}

	roomCount := spec.RoomCount()
	tier := p.cfg.tierFor(roomCount)
	shares := p.cfg.Allocation[tier]
	usable := spec.TotalArea * (1 - spec.Circulation())

	slots := make([]roomSlot, 0, roomCount)
	shareSum := 0.0
	for _, rt := range RoomTypeOrder {
		for i := 1; i <= spec.RoomCounts[rt]; i++ {
			slots = append(slots, roomSlot{roomType: rt, index: i, share: shares[rt]})
			shareSum += shares[rt]
		}
	}
	if shareSum > 1 {
		for i := range slots {
			slots[i].share /= shareSum
		}
	}

	layout := &Layout{TotalArea: spec.TotalArea, UsableArea: usable}
	areas := p.allocate(spec, slots, usable, layout)

	rooms := make([]RoomSpec, 0, len(slots))
	for i, slot := range slots {
		defaults := p.cfg.RoomDefaults[slot.roomType]
		room := RoomSpec{
			Name:       fmt.Sprintf("%s %d", defaults.Label, slot.index),
			Type:       slot.roomType,
			TargetArea: round2(usable * slot.share),
			Area:       areas[i],
			Height:     spec.CeilingHeight,
		}
		room.Width, room.Length = dimensions(room.Area, defaults.BaseWidth)
		layout.Warnings = append(layout.Warnings, p.placeOpenings(&room, defaults, spec)...)
		rooms = append(rooms, room)
	}

	p.place(spec, rooms, layout)
	layout.Rooms = rooms
	layout.CirculationArea = round2(spec.TotalArea - layout.AllocatedArea())

	p.logger.WithFields(logrus.Fields{
		"module":     "estimation",
		"func":       "Plan",
		"rooms":      len(rooms),
		"tier":       tier,
		"total_area": spec.TotalArea,
	}).Debug("layout planned")

	return layout, nil
}

// allocate sizes every slot, clamping small rooms to the viable minimum.
// The sum of the returned areas never exceeds spec.TotalArea.
func (p *Planner) allocate(spec ProjectSpec, slots []roomSlot, usable float64, layout *Layout) []float64 {
	n := float64(len(slots))
	floor := floor2(math.Min(p.cfg.MinRoomArea, spec.TotalArea/n))

	areas := make([]float64, len(slots))
	clamped := make([]bool, len(slots))
	total := 0.0
	for i, slot := range slots {
		areas[i] = usable * slot.share
		if areas[i] < floor {
			areas[i] = floor
			clamped[i] = true
		}
		total += areas[i]
	}

	if total > spec.TotalArea+areaEpsilon {
		excess := total - spec.TotalArea
		pool := 0.0
		for i := range areas {
			if !clamped[i] {
				pool += areas[i] - floor
			}
		}
		if pool > 0 {
			for i := range areas {
				if !clamped[i] {
					areas[i] -= excess * (areas[i] - floor) / pool
				}
			}
		}
	}

	total = 0
	for i := range areas {
		areas[i] = math.Max(floor2(areas[i]), floor)
		total += areas[i]
	}
	if total > usable+areaEpsilon {
		layout.Warnings = append(layout.Warnings, fmt.Sprintf(
			"CIRCULATION_REDUCED: rooms clamped to %.2f sqft borrow %.2f sqft from circulation", floor, total-usable))
	}
	return areas
}

// dimensions derives width and length from area, falling back to a square
// when the area is too small for the canonical width
func dimensions(area, baseWidth float64) (float64, float64) {
	width := baseWidth
	if area < baseWidth*baseWidth {
		width = math.Sqrt(area)
	}
	if width <= 0 {
		return 0, 0
	}
	return width, area / width
}

// place packs rooms left to right, wrapping to a new row at the building width
func (p *Planner) place(spec ProjectSpec, rooms []RoomSpec, layout *Layout) {
	buildingWidth := spec.BuildingWidth
	if buildingWidth <= 0 {
		buildingWidth = math.Ceil(math.Sqrt(spec.TotalArea))
	}

	x, y, rowDepth, maxX := 0.0, 0.0, 0.0, 0.0
	for i := range rooms {
		r := &rooms[i]
		if x > 0 && x+r.Width > buildingWidth+areaEpsilon {
			y += rowDepth
			x, rowDepth = 0, 0
		}
		r.Position = Position{X: round2(x), Y: round2(y)}
		x += r.Width
		rowDepth = math.Max(rowDepth, r.Length)
		maxX = math.Max(maxX, x)
	}

	layout.BuildingWidth = round2(math.Max(buildingWidth, maxX))
	layout.BuildingLength = round2(y + rowDepth)
}

// placeOpenings adds the default doors and windows of a room.
// Openings on one wall are laid out left to right and never overlap.
func (p *Planner) placeOpenings(room *RoomSpec, d RoomTypeDefaults, spec ProjectSpec) []string {
	clearance, gap := p.cfg.CornerClearance, p.cfg.OpeningGap
	wallLength := map[Wall]float64{
		WallFront: room.Width,
		WallSide:  room.Length,
		WallBack:  room.Width,
	}
	cursor := map[Wall]float64{
		WallFront: clearance,
		WallSide:  clearance,
		WallBack:  clearance,
	}

	var warnings []string
	fit := func(kind OpeningKind, typ string, width, height float64, order []Wall) (Opening, bool) {
		for _, wall := range order {
			start := cursor[wall]
			if start+width <= wallLength[wall]-clearance+areaEpsilon {
				cursor[wall] = start + width + gap
				return Opening{Kind: kind, Type: typ, Width: width, Height: height, Wall: wall, Offset: round2(start)}, true
			}
		}
		warnings = append(warnings, fmt.Sprintf("OPENING_DROPPED: %s in %s does not fit any wall", kind, room.Name))
		return Opening{}, false
	}

	for i := 0; i < d.Doors; i++ {
		if o, ok := fit(OpeningDoor, string(spec.DoorGrade), d.DoorWidth, d.DoorHeight, []Wall{WallFront, WallSide, WallBack}); ok {
			room.Doors = append(room.Doors, o)
		}
	}
	windowType := d.WindowType
	if windowType == "" {
		windowType = string(spec.WindowGrade)
	}
	for i := 0; i < d.Windows; i++ {
		if o, ok := fit(OpeningWindow, windowType, d.WindowWidth, d.WindowHeight, []Wall{WallBack, WallSide, WallFront}); ok {
			room.Windows = append(room.Windows, o)
		}
	}
	return warnings
}

func validateSpec(spec ProjectSpec) error {
	if math.IsNaN(spec.TotalArea) || math.IsInf(spec.TotalArea, 0) || spec.TotalArea <= 0 {
		return fmt.Errorf("%w: total area must be positive", ErrInvalidInput)
	}
	for rt, n := range spec.RoomCounts {
		if !rt.IsValid() {
			return fmt.Errorf("%w: unknown room type %q", ErrInvalidInput, rt)
		}
		if n < 0 {
			return fmt.Errorf("%w: room count for %s must not be negative", ErrInvalidInput, rt)
		}
	}
	if spec.RoomCount() == 0 {
		return fmt.Errorf("%w: at least one room is required", ErrInvalidInput)
	}
	if spec.Floors < 1 {
		return fmt.Errorf("%w: floors must be at least 1", ErrInvalidInput)
	}
	if c := spec.Circulation(); math.IsNaN(c) || c < 0 || c >= 0.5 {
		return fmt.Errorf("%w: circulation fraction must be in [0, 0.5)", ErrInvalidInput)
	}
	if spec.CeilingHeight <= 0 {
		return fmt.Errorf("%w: ceiling height must be positive", ErrInvalidInput)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func floor2(v float64) float64 {
	return math.Floor(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
