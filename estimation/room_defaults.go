package estimation

// RoomTypeDefaults describes the canonical geometry and fit-out of a room type
type RoomTypeDefaults struct {
	Label            string  `yaml:"label" json:"label"`
	BaseWidth        float64 `yaml:"base_width" json:"base_width"`
	Doors            int     `yaml:"doors" json:"doors"`
	DoorWidth        float64 `yaml:"door_width" json:"door_width"`
	DoorHeight       float64 `yaml:"door_height" json:"door_height"`
	Windows          int     `yaml:"windows" json:"windows"`
	WindowWidth      float64 `yaml:"window_width" json:"window_width"`
	WindowHeight     float64 `yaml:"window_height" json:"window_height"`
	WindowType       string  `yaml:"window_type" json:"window_type"` // empty: project window grade
	ElectricalPoints int     `yaml:"electrical_points" json:"electrical_points"`
	PlumbingPoints   int     `yaml:"plumbing_points" json:"plumbing_points"`
	NeedsWiring      bool    `yaml:"needs_wiring" json:"needs_wiring"`
	WetRoom          bool    `yaml:"wet_room" json:"wet_room"`
}

// DefaultRoomTypeDefaults returns the built-in room table. Dimensions in feet.
func DefaultRoomTypeDefaults() map[RoomType]RoomTypeDefaults {
	return map[RoomType]RoomTypeDefaults{
		RoomTypeLivingRoom: {
			Label: "Living Room", BaseWidth: 16,
			Doors: 1, DoorWidth: 3.5, DoorHeight: 7,
			Windows: 2, WindowWidth: 5, WindowHeight: 4,
			ElectricalPoints: 1, NeedsWiring: true,
		},
		RoomTypeBedroom: {
			Label: "Bedroom", BaseWidth: 11,
			Doors: 1, DoorWidth: 3, DoorHeight: 7,
			Windows: 2, WindowWidth: 4, WindowHeight: 4,
			ElectricalPoints: 1, NeedsWiring: true,
		},
		RoomTypeKitchen: {
			Label: "Kitchen", BaseWidth: 8,
			Doors: 1, DoorWidth: 3, DoorHeight: 7,
			Windows: 1, WindowWidth: 4, WindowHeight: 3,
			ElectricalPoints: 2, PlumbingPoints: 1, NeedsWiring: true, WetRoom: true,
		},
		RoomTypeDiningRoom: {
			Label: "Dining Room", BaseWidth: 11,
			Doors: 1, DoorWidth: 3, DoorHeight: 7,
			Windows: 1, WindowWidth: 4, WindowHeight: 4,
			ElectricalPoints: 1, NeedsWiring: true,
		},
		RoomTypeBathroom: {
			Label: "Bathroom", BaseWidth: 6,
			Doors: 1, DoorWidth: 2.5, DoorHeight: 7,
			Windows: 1, WindowWidth: 2, WindowHeight: 1.5, WindowType: WindowTypeVentilator,
			ElectricalPoints: 2, PlumbingPoints: 3, NeedsWiring: true, WetRoom: true,
		},
		RoomTypeStudyRoom: {
			Label: "Study Room", BaseWidth: 9,
			Doors: 1, DoorWidth: 3, DoorHeight: 7,
			Windows: 1, WindowWidth: 4, WindowHeight: 4,
			ElectricalPoints: 1, NeedsWiring: true,
		},
		RoomTypeGuestRoom: {
			Label: "Guest Room", BaseWidth: 10,
			Doors: 1, DoorWidth: 3, DoorHeight: 7,
			Windows: 1, WindowWidth: 4, WindowHeight: 4,
			ElectricalPoints: 1, NeedsWiring: true,
		},
		RoomTypeUtilityRoom: {
			Label: "Utility Room", BaseWidth: 6,
			Doors: 1, DoorWidth: 2.5, DoorHeight: 7,
			Windows: 1, WindowWidth: 2, WindowHeight: 1.5, WindowType: WindowTypeVentilator,
			ElectricalPoints: 1, PlumbingPoints: 1, NeedsWiring: true, WetRoom: true,
		},
		RoomTypeStoreRoom: {
			Label: "Store Room", BaseWidth: 5,
			Doors: 1, DoorWidth: 2.5, DoorHeight: 7,
			ElectricalPoints: 1, NeedsWiring: true,
		},
		RoomTypeBalcony: {
			Label: "Balcony", BaseWidth: 5,
			Doors: 1, DoorWidth: 3, DoorHeight: 7,
		},
	}
}
