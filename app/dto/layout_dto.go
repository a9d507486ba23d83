package dto

// ProjectSpecRequest describes the building to plan or estimate. Areas are in square feet.
type ProjectSpecRequest struct {
	TotalArea           float64        `json:"total_area" validate:"required,gt=0,lte=1000000"`
	RoomCounts          map[string]int `json:"room_counts" validate:"required,min=1,dive,keys,oneof=bedroom living_room kitchen bathroom dining_room study_room guest_room utility_room store_room balcony,endkeys,gte=0,lte=100"`
	Floors              int            `json:"floors,omitempty" validate:"omitempty,gte=1,lte=100"`
	QualityGrade        string         `json:"quality_grade,omitempty" validate:"omitempty,oneof=basic standard premium"`
	Location            string         `json:"location,omitempty" validate:"omitempty,oneof=rural suburban urban"`
	ConstructionType    string         `json:"construction_type,omitempty" validate:"omitempty,oneof=residential commercial"`
	CirculationFraction *float64       `json:"circulation_fraction,omitempty" validate:"omitempty,gte=0,lt=0.5"`
	CeilingHeight       float64        `json:"ceiling_height,omitempty" validate:"omitempty,gt=0,lte=40"`
	BuildingWidth       float64        `json:"building_width,omitempty" validate:"omitempty,gt=0"`
	DoorGrade           string         `json:"door_grade,omitempty" validate:"omitempty,oneof=standard premium"`
	WindowGrade         string         `json:"window_grade,omitempty" validate:"omitempty,oneof=standard premium"`
}

type LayoutPlanRequest struct {
	ProjectSpecRequest
}

type OpeningResponse struct {
	Kind   string  `json:"kind"`
	Type   string  `json:"type"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Wall   string  `json:"wall"`
	Offset float64 `json:"offset"`
}

type RoomResponse struct {
	Name       string            `json:"name"`
	Type       string            `json:"type"`
	TargetArea float64           `json:"target_area"`
	Area       float64           `json:"area"`
	Width      float64           `json:"width"`
	Length     float64           `json:"length"`
	Height     float64           `json:"height"`
	X          float64           `json:"x"`
	Y          float64           `json:"y"`
	Doors      []OpeningResponse `json:"doors"`
	Windows    []OpeningResponse `json:"windows"`
}

type LayoutPlanResponse struct {
	Message         string         `json:"message"`
	TotalArea       float64        `json:"total_area"`
	UsableArea      float64        `json:"usable_area"`
	CirculationArea float64        `json:"circulation_area"`
	BuildingWidth   float64        `json:"building_width"`
	BuildingLength  float64        `json:"building_length"`
	Rooms           []RoomResponse `json:"rooms"`
	Warnings        []string       `json:"warnings"`
}
