package estimation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Material codes produced by the quantity calculator
const (
	MaterialCement            = "cement_opc_53"
	MaterialSteel             = "steel_tmt_fe500"
	MaterialBrick             = "brick_red_clay"
	MaterialSand              = "sand_river"
	MaterialAggregate         = "aggregate_20mm"
	MaterialTiles             = "tiles_vitrified"
	MaterialPlaster           = "plaster_cement_mortar"
	MaterialPaint             = "paint_emulsion"
	MaterialElectricalFixture = "electrical_fixture_unit"
	MaterialPlumbingFixture   = "plumbing_fixture_unit"
	MaterialDoorStandard      = "door_standard"
	MaterialDoorPremium       = "door_premium"
	MaterialWindowStandard    = "window_standard"
	MaterialWindowPremium     = "window_premium"
	MaterialVentilator        = "ventilator"
)

// WindowTypeVentilator marks small high-level windows used in wet rooms
const WindowTypeVentilator = "ventilator"

// Coefficients are the per-area material heuristics
type Coefficients struct {
	CementBagsPerSqm         float64 `yaml:"cement_bags_per_sqm" json:"cement_bags_per_sqm"`
	SteelKgPerSqmResidential float64 `yaml:"steel_kg_per_sqm_residential" json:"steel_kg_per_sqm_residential"`
	SteelKgPerSqmCommercial  float64 `yaml:"steel_kg_per_sqm_commercial" json:"steel_kg_per_sqm_commercial"`
	BricksPerSqm             float64 `yaml:"bricks_per_sqm" json:"bricks_per_sqm"`
	SandCftPerSqm            float64 `yaml:"sand_cft_per_sqm" json:"sand_cft_per_sqm"`
	AggregateCftPerSqm       float64 `yaml:"aggregate_cft_per_sqm" json:"aggregate_cft_per_sqm"`
	TileWastage              float64 `yaml:"tile_wastage" json:"tile_wastage"`
	PlasterFaces             float64 `yaml:"plaster_faces" json:"plaster_faces"`
}

// LaborCoefficients convert quantities into person-days per trade
type LaborCoefficients struct {
	MasonDaysPerSqm        float64 `yaml:"mason_days_per_sqm" json:"mason_days_per_sqm"`
	HelpersPerMason        float64 `yaml:"helpers_per_mason" json:"helpers_per_mason"`
	ElectricianDaysPerRoom float64 `yaml:"electrician_days_per_room" json:"electrician_days_per_room"`
	PlumberDaysPerWetRoom  float64 `yaml:"plumber_days_per_wet_room" json:"plumber_days_per_wet_room"`
	PainterDaysPerSqm      float64 `yaml:"painter_days_per_sqm" json:"painter_days_per_sqm"`
	CarpenterDaysPerRoom   float64 `yaml:"carpenter_days_per_room" json:"carpenter_days_per_room"`
}

// Tier names of the allocation table
const (
	TierSmall  = "small"
	TierMedium = "medium"
	TierLarge  = "large"
)

// AllocationTable maps a tier to the share of usable area each room instance receives
type AllocationTable map[string]map[RoomType]float64

// Config holds every tunable of the estimation engine
type Config struct {
	Coefficients               Coefficients                  `yaml:"coefficients"`
	Labor                      LaborCoefficients             `yaml:"labor"`
	QualityMultipliers         map[QualityGrade]float64      `yaml:"quality_multipliers"`
	LocationMultipliers        map[Location]float64          `yaml:"location_multipliers"`
	Allocation                 AllocationTable               `yaml:"allocation"`
	SmallTierMaxRooms          int                           `yaml:"small_tier_max_rooms"`
	MediumTierMaxRooms         int                           `yaml:"medium_tier_max_rooms"`
	RoomDefaults               map[RoomType]RoomTypeDefaults `yaml:"room_defaults"`
	MinRoomArea                float64                       `yaml:"min_room_area"`
	CirculationFraction        float64                       `yaml:"circulation_fraction"`
	OverheadFraction           float64                       `yaml:"overhead_fraction"`
	ScaleCountsWithMultipliers bool                          `yaml:"scale_counts_with_multipliers"`
	CornerClearance            float64                       `yaml:"corner_clearance"`
	OpeningGap                 float64                       `yaml:"opening_gap"`
}

// DefaultConfig returns the engine defaults
func DefaultConfig() Config {
	return Config{
		Coefficients: Coefficients{
			CementBagsPerSqm:         8,
			SteelKgPerSqmResidential: 80,
			SteelKgPerSqmCommercial:  100,
			BricksPerSqm:             55,
			SandCftPerSqm:            20,
			AggregateCftPerSqm:       14,
			TileWastage:              1.10,
			PlasterFaces:             2,
		},
		Labor: LaborCoefficients{
			MasonDaysPerSqm:        0.1,
			HelpersPerMason:        1.0,
			ElectricianDaysPerRoom: 2,
			PlumberDaysPerWetRoom:  1.5,
			PainterDaysPerSqm:      0.05,
			CarpenterDaysPerRoom:   1.5,
		},
		QualityMultipliers: map[QualityGrade]float64{
			QualityBasic:    0.8,
			QualityStandard: 1.0,
			QualityPremium:  1.4,
		},
		LocationMultipliers: map[Location]float64{
			LocationRural:    0.85,
			LocationSuburban: 1.0,
			LocationUrban:    1.15,
		},
		Allocation:          DefaultAllocationTable(),
		SmallTierMaxRooms:   4,
		MediumTierMaxRooms:  8,
		RoomDefaults:        DefaultRoomTypeDefaults(),
		MinRoomArea:         40,
		CirculationFraction: 0.10,
		OverheadFraction:    0.10,
		CornerClearance:     1,
		OpeningGap:          1,
	}
}

// DefaultAllocationTable returns per-instance area shares for each tier
func DefaultAllocationTable() AllocationTable {
	return AllocationTable{
		TierSmall: {
			RoomTypeLivingRoom:  0.35,
			RoomTypeBedroom:     0.28,
			RoomTypeKitchen:     0.18,
			RoomTypeDiningRoom:  0.18,
			RoomTypeBathroom:    0.09,
			RoomTypeStudyRoom:   0.20,
			RoomTypeGuestRoom:   0.25,
			RoomTypeUtilityRoom: 0.08,
			RoomTypeStoreRoom:   0.07,
			RoomTypeBalcony:     0.08,
		},
		TierMedium: {
			RoomTypeLivingRoom:  0.22,
			RoomTypeBedroom:     0.16,
			RoomTypeKitchen:     0.12,
			RoomTypeDiningRoom:  0.12,
			RoomTypeBathroom:    0.06,
			RoomTypeStudyRoom:   0.10,
			RoomTypeGuestRoom:   0.13,
			RoomTypeUtilityRoom: 0.05,
			RoomTypeStoreRoom:   0.04,
			RoomTypeBalcony:     0.05,
		},
		TierLarge: {
			RoomTypeLivingRoom:  0.16,
			RoomTypeBedroom:     0.11,
			RoomTypeKitchen:     0.08,
			RoomTypeDiningRoom:  0.08,
			RoomTypeBathroom:    0.04,
			RoomTypeStudyRoom:   0.07,
			RoomTypeGuestRoom:   0.09,
			RoomTypeUtilityRoom: 0.03,
			RoomTypeStoreRoom:   0.025,
			RoomTypeBalcony:     0.03,
		},
	}
}

// nestedOverlay holds the nested tables of an override document so they merge key by key
type nestedOverlay struct {
	Allocation   map[string]map[RoomType]float64 `yaml:"allocation"`
	RoomDefaults map[RoomType]yaml.Node          `yaml:"room_defaults"`
}

// MergeYAML overlays values from a YAML document onto c.
// Keys absent from the document keep their current value, at every nesting level.
func (c *Config) MergeYAML(data []byte) error {
	allocation := c.Allocation.clone()
	roomDefaults := cloneMap(c.RoomDefaults)

	c.QualityMultipliers = cloneMap(c.QualityMultipliers)
	c.LocationMultipliers = cloneMap(c.LocationMultipliers)
	c.Allocation, c.RoomDefaults = nil, nil

	defer func() {
		c.Allocation = allocation
		c.RoomDefaults = roomDefaults
	}()

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse estimation overrides: %w", err)
	}
	var overlay nestedOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse estimation overrides: %w", err)
	}

	for tier, shares := range overlay.Allocation {
		if allocation[tier] == nil {
			allocation[tier] = make(map[RoomType]float64, len(shares))
		}
		for rt, share := range shares {
			allocation[tier][rt] = share
		}
	}
	for rt, node := range overlay.RoomDefaults {
		d := roomDefaults[rt]
		if err := node.Decode(&d); err != nil {
			return fmt.Errorf("failed to parse room defaults for %q: %w", rt, err)
		}
		roomDefaults[rt] = d
	}
	c.Allocation = allocation
	c.RoomDefaults = roomDefaults

	return c.Validate()
}

func (t AllocationTable) clone() AllocationTable {
	out := make(AllocationTable, len(t))
	for tier, shares := range t {
		out[tier] = cloneMap(shares)
	}
	return out
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// LoadConfig returns base merged with the YAML file at path, if any
func LoadConfig(base Config, path string) (Config, error) {
	cfg := base
	if path == "" {
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read estimation overrides %s: %w", path, err)
	}
	if err := cfg.MergeYAML(data); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the engine cannot work with
func (c Config) Validate() error {
	if c.CirculationFraction < 0 || c.CirculationFraction >= 0.5 {
		return fmt.Errorf("%w: circulation fraction must be in [0, 0.5)", ErrInvalidConfig)
	}
	if c.OverheadFraction < 0 || c.OverheadFraction > 1 {
		return fmt.Errorf("%w: overhead fraction must be in [0, 1]", ErrInvalidConfig)
	}
	if c.MinRoomArea <= 0 {
		return fmt.Errorf("%w: min room area must be positive", ErrInvalidConfig)
	}
	if c.SmallTierMaxRooms <= 0 || c.MediumTierMaxRooms < c.SmallTierMaxRooms {
		return fmt.Errorf("%w: tier thresholds must be positive and ascending", ErrInvalidConfig)
	}
	for _, tier := range []string{TierSmall, TierMedium, TierLarge} {
		if _, ok := c.Allocation[tier]; !ok {
			return fmt.Errorf("%w: allocation tier %q missing", ErrInvalidConfig, tier)
		}
	}
	for _, rt := range RoomTypeOrder {
		d, ok := c.RoomDefaults[rt]
		if !ok || d.BaseWidth <= 0 {
			return fmt.Errorf("%w: room defaults for %q missing or without base width", ErrInvalidConfig, rt)
		}
	}
	return nil
}

func (c Config) tierFor(roomCount int) string {
	switch {
	case roomCount <= c.SmallTierMaxRooms:
		return TierSmall
	case roomCount <= c.MediumTierMaxRooms:
		return TierMedium
	default:
		return TierLarge
	}
}

func (c Config) multiplier(grade QualityGrade, loc Location) float64 {
	q, ok := c.QualityMultipliers[grade]
	if !ok {
		q = 1
	}
	l, ok := c.LocationMultipliers[loc]
	if !ok {
		l = 1
	}
	return q * l
}
