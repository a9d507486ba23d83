// Package estimation turns a project description into a room layout, material quantities,
// labor effort and a costed bill of quantities
package estimation

import (
	"time"

	"github.com/shopspring/decimal"
)

// SqftToSqm converts square feet to square metres
const SqftToSqm = 0.09290304

// RoomType identifies the purpose of a room
type RoomType string

const (
	RoomTypeBedroom     RoomType = "bedroom"
	RoomTypeLivingRoom  RoomType = "living_room"
	RoomTypeKitchen     RoomType = "kitchen"
	RoomTypeBathroom    RoomType = "bathroom"
	RoomTypeDiningRoom  RoomType = "dining_room"
	RoomTypeStudyRoom   RoomType = "study_room"
	RoomTypeGuestRoom   RoomType = "guest_room"
	RoomTypeUtilityRoom RoomType = "utility_room"
	RoomTypeStoreRoom   RoomType = "store_room"
	RoomTypeBalcony     RoomType = "balcony"
)

// RoomTypeOrder is the canonical processing order for room types.
// Layout, naming and placement all iterate in this order so results are reproducible.
var RoomTypeOrder = []RoomType{
	RoomTypeLivingRoom,
	RoomTypeBedroom,
	RoomTypeKitchen,
	RoomTypeDiningRoom,
	RoomTypeBathroom,
	RoomTypeStudyRoom,
	RoomTypeGuestRoom,
	RoomTypeUtilityRoom,
	RoomTypeStoreRoom,
	RoomTypeBalcony,
}

// IsValid reports whether t is a known room type
func (t RoomType) IsValid() bool {
	for _, known := range RoomTypeOrder {
		if t == known {
			return true
		}
	}
	return false
}

// QualityGrade selects the finish level of the build
type QualityGrade string

const (
	QualityBasic    QualityGrade = "basic"
	QualityStandard QualityGrade = "standard"
	QualityPremium  QualityGrade = "premium"
)

// Location adjusts quantities for the site context
type Location string

const (
	LocationRural    Location = "rural"
	LocationSuburban Location = "suburban"
	LocationUrban    Location = "urban"
)

// ConstructionType selects structural coefficients
type ConstructionType string

const (
	ConstructionResidential ConstructionType = "residential"
	ConstructionCommercial  ConstructionType = "commercial"
)

// OpeningGrade is the door/window specification requested for the project
type OpeningGrade string

const (
	OpeningStandard OpeningGrade = "standard"
	OpeningPremium  OpeningGrade = "premium"
)

// ProjectSpec is the user-facing description of the building to estimate.
// TotalArea is the built-up area of one floor in square feet.
type ProjectSpec struct {
	TotalArea           float64          `json:"total_area"`
	RoomCounts          map[RoomType]int `json:"room_counts"`
	Floors              int              `json:"floors"`
	QualityGrade        QualityGrade     `json:"quality_grade"`
	Location            Location         `json:"location"`
	ConstructionType    ConstructionType `json:"construction_type"`
	CirculationFraction *float64         `json:"circulation_fraction,omitempty"` // nil: config default
	CeilingHeight       float64          `json:"ceiling_height"`
	BuildingWidth       float64          `json:"building_width"`
	DoorGrade           OpeningGrade     `json:"door_grade"`
	WindowGrade         OpeningGrade     `json:"window_grade"`
}

// RoomCount returns the total number of rooms requested
func (p ProjectSpec) RoomCount() int {
	total := 0
	for _, n := range p.RoomCounts {
		if n > 0 {
			total += n
		}
	}
	return total
}

// Circulation returns the requested circulation fraction, 0 when unset
func (p ProjectSpec) Circulation() float64 {
	if p.CirculationFraction == nil {
		return 0
	}
	return *p.CirculationFraction
}

// WithDefaults fills zero-valued optional fields
func (p ProjectSpec) WithDefaults(circulation float64) ProjectSpec {
	if p.Floors == 0 {
		p.Floors = 1
	}
	if p.QualityGrade == "" {
		p.QualityGrade = QualityStandard
	}
	if p.Location == "" {
		p.Location = LocationSuburban
	}
	if p.ConstructionType == "" {
		p.ConstructionType = ConstructionResidential
	}
	if p.CirculationFraction == nil {
		p.CirculationFraction = &circulation
	}
	if p.CeilingHeight == 0 {
		p.CeilingHeight = 10
	}
	if p.DoorGrade == "" {
		p.DoorGrade = OpeningStandard
	}
	if p.WindowGrade == "" {
		p.WindowGrade = OpeningStandard
	}
	return p
}

// OpeningKind distinguishes doors from windows
type OpeningKind string

const (
	OpeningDoor   OpeningKind = "door"
	OpeningWindow OpeningKind = "window"
)

// Wall names the side of a room an opening sits on
type Wall string

const (
	WallFront Wall = "front"
	WallSide  Wall = "side"
	WallBack  Wall = "back"
)

// Opening is a door or window cut into a wall. Offset is measured from the wall's left corner.
type Opening struct {
	Kind   OpeningKind `json:"kind"`
	Type   string      `json:"type"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Wall   Wall        `json:"wall"`
	Offset float64     `json:"offset"`
}

// Area returns the opening area in square feet
func (o Opening) Area() float64 {
	return o.Width * o.Height
}

// Position is the plan-view coordinate of a room's corner
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RoomSpec is one placed room of the layout. All dimensions are in feet.
type RoomSpec struct {
	Name       string    `json:"name"`
	Type       RoomType  `json:"type"`
	TargetArea float64   `json:"target_area"`
	Area       float64   `json:"area"`
	Width      float64   `json:"width"`
	Length     float64   `json:"length"`
	Height     float64   `json:"height"`
	Doors      []Opening `json:"doors"`
	Windows    []Opening `json:"windows"`
	Position   Position  `json:"position"`
}

// Perimeter returns the room perimeter in feet
func (r RoomSpec) Perimeter() float64 {
	return 2 * (r.Width + r.Length)
}

// OpeningArea sums the area of every door and window in the room
func (r RoomSpec) OpeningArea() float64 {
	total := 0.0
	for _, d := range r.Doors {
		total += d.Area()
	}
	for _, w := range r.Windows {
		total += w.Area()
	}
	return total
}

// WallArea returns the net wall surface of the room in square feet
func (r RoomSpec) WallArea() float64 {
	net := r.Perimeter()*r.Height - r.OpeningArea()
	if net < 0 {
		return 0
	}
	return net
}

// Layout is the planner output for one typical floor
type Layout struct {
	Rooms           []RoomSpec `json:"rooms"`
	TotalArea       float64    `json:"total_area"`
	UsableArea      float64    `json:"usable_area"`
	CirculationArea float64    `json:"circulation_area"`
	BuildingWidth   float64    `json:"building_width"`
	BuildingLength  float64    `json:"building_length"`
	Warnings        []string   `json:"warnings"`
}

// AllocatedArea sums the area of every room
func (l Layout) AllocatedArea() float64 {
	total := 0.0
	for _, r := range l.Rooms {
		total += r.Area
	}
	return total
}

// CountByType returns how many rooms of each type the layout holds
func (l Layout) CountByType() map[RoomType]int {
	counts := make(map[RoomType]int)
	for _, r := range l.Rooms {
		counts[r.Type]++
	}
	return counts
}

// Quantity is the estimated amount of one material
type Quantity struct {
	Code     string  `json:"code"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	// Exact marks literal counts (doors, windows, fixtures) that are not scaled by grade or location
	Exact bool `json:"exact"`
}

// Measures carries the geometric totals that labor estimation depends on.
// Areas are in square metres and cover every floor.
type Measures struct {
	FloorAreaSqm     float64 `json:"floor_area_sqm"`
	RoomFloorAreaSqm float64 `json:"room_floor_area_sqm"`
	BrickWallAreaSqm float64 `json:"brick_wall_area_sqm"`
	PlasterAreaSqm   float64 `json:"plaster_area_sqm"`
	PaintAreaSqm     float64 `json:"paint_area_sqm"`
	Floors           int     `json:"floors"`
	TotalRooms       int     `json:"total_rooms"`
	WiredRooms       int     `json:"wired_rooms"`
	WetRooms         int     `json:"wet_rooms"`
}

// Quantities is the ordered material take-off of a project
type Quantities struct {
	Items    []Quantity `json:"items"`
	Measures Measures   `json:"measures"`
}

// Get returns the quantity for code and whether it is present
func (q Quantities) Get(code string) (Quantity, bool) {
	for _, item := range q.Items {
		if item.Code == code {
			return item, true
		}
	}
	return Quantity{}, false
}

// Trade names a labor skill
type Trade string

const (
	TradeMason       Trade = "mason"
	TradeHelper      Trade = "helper"
	TradeElectrician Trade = "electrician"
	TradePlumber     Trade = "plumber"
	TradePainter     Trade = "painter"
	TradeCarpenter   Trade = "carpenter"
)

// LaborLine is the effort of one trade in person-days
type LaborLine struct {
	Trade Trade   `json:"trade"`
	Days  float64 `json:"days"`
}

// LaborDays is the ordered labor estimate
type LaborDays []LaborLine

// Get returns the days for trade, or zero
func (l LaborDays) Get(trade Trade) float64 {
	for _, line := range l {
		if line.Trade == trade {
			return line.Days
		}
	}
	return 0
}

// Rate is the unit price of a material or a day of labor
type Rate struct {
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
	Unit string          `json:"unit"`
}

// LineCategory groups BOQ line items
type LineCategory string

const (
	CategoryMaterial LineCategory = "Material"
	CategoryLabor    LineCategory = "Labor"
	CategoryOverhead LineCategory = "Overhead"
)

// BOQLineItem is one priced row of the bill of quantities
type BOQLineItem struct {
	Category LineCategory    `json:"category"`
	Code     string          `json:"code"`
	ItemName string          `json:"item_name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
}

// BOQResult is the costed bill of quantities
type BOQResult struct {
	MaterialCost     decimal.Decimal `json:"material_cost"`
	LaborCost        decimal.Decimal `json:"labor_cost"`
	OverheadCost     decimal.Decimal `json:"overhead_cost"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	OverheadFraction decimal.Decimal `json:"overhead_fraction"`
	TotalArea        float64         `json:"total_area"`
	CostPerUnitArea  decimal.Decimal `json:"cost_per_unit_area"`
	Items            []BOQLineItem   `json:"items"`
	Warnings         []string        `json:"warnings"`
	CreatedAt        time.Time       `json:"created_at"`
}
