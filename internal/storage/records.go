package storage

// Rows of the world schema. Zero ids mean "none" for optional references.

type TerrainRecord struct {
	ID                  int64   `msgpack:"id"`
	Name                string  `msgpack:"name"`
	MovementRate        float64 `msgpack:"movement_rate"`
	StaminaCost         float64 `msgpack:"stamina_cost"`
	HideDifficulty      int     `msgpack:"hide_difficulty"`
	SpotDifficulty      int     `msgpack:"spot_difficulty"`
	InfectionType       int     `msgpack:"infection_type"`
	InfectionVirulence  int     `msgpack:"infection_virulence"`
	InfectionMultiplier float64 `msgpack:"infection_multiplier"`
	OutdoorsType        int     `msgpack:"outdoors_type"`
	WeatherControllerID int64   `msgpack:"weather_controller_id"`
	AtmosphereID        int64   `msgpack:"atmosphere_id"`
	ForagableProfileID  int64   `msgpack:"foragable_profile_id"`
	Model               string  `msgpack:"model"`
	MapColour           string  `msgpack:"map_colour"`
	EditorColour        string  `msgpack:"editor_colour"`
	DefaultTerrain      bool    `msgpack:"default_terrain"`
	CoverIDs            []int64 `msgpack:"cover_ids"`
}

type OverlayPackageRecord struct {
	ID       int64  `msgpack:"id"`
	Revision int    `msgpack:"revision"`
	Name     string `msgpack:"name"`
	Status   int    `msgpack:"status"`
}

type OverlayRecord struct {
	ID                 int64   `msgpack:"id"`
	CellID             int64   `msgpack:"cell_id"`
	PackageID          int64   `msgpack:"package_id"`
	PackageRevision    int     `msgpack:"package_revision"`
	Name               string  `msgpack:"name"`
	Description        string  `msgpack:"description"`
	TerrainID          int64   `msgpack:"terrain_id"`
	OutdoorsType       int     `msgpack:"outdoors_type"`
	HearingProfileID   int64   `msgpack:"hearing_profile_id"`
	AmbientLightFactor float64 `msgpack:"ambient_light_factor"`
	AddedLight         float64 `msgpack:"added_light"`
	AtmosphereID       int64   `msgpack:"atmosphere_id"`
	SafeQuit           bool    `msgpack:"safe_quit"`
	ExitIDs            []int64 `msgpack:"exit_ids"`
}

type YieldRecord struct {
	Type   string  `msgpack:"type"`
	Amount float64 `msgpack:"amount"`
}

type ResourceRecord struct {
	ResourceID int64   `msgpack:"resource_id"`
	Amount     float64 `msgpack:"amount"`
}

type ContentRecord struct {
	ItemID int64 `msgpack:"item_id"`
	Layer  int   `msgpack:"layer"`
}

type CellRecord struct {
	ID                 int64            `msgpack:"id"`
	RoomID             int64            `msgpack:"room_id"`
	CurrentOverlayID   int64            `msgpack:"current_overlay_id"`
	ForagableProfileID int64            `msgpack:"foragable_profile_id"`
	Temporary          bool             `msgpack:"temporary"`
	EffectsXML         string           `msgpack:"effects_xml"`
	Tags               []int64          `msgpack:"tags"`
	Yields             []YieldRecord    `msgpack:"yields"`
	MagicResources     []ResourceRecord `msgpack:"magic_resources"`
	Hooks              []int64          `msgpack:"hooks"`
	Contents           []ContentRecord  `msgpack:"contents"`
}

// CellChanges selects the optional parts of a cell written by SaveCell.
type CellChanges uint8

const (
	CellContentsChanged CellChanges = 1 << iota
	CellResourcesChanged
	CellYieldsChanged
	CellTagsChanged
	CellEffectsChanged
	CellHooksChanged

	CellAllChanged = CellContentsChanged | CellResourcesChanged | CellYieldsChanged |
		CellTagsChanged | CellEffectsChanged | CellHooksChanged
)

type RoomRecord struct {
	ID     int64 `msgpack:"id"`
	ZoneID int64 `msgpack:"zone_id"`
	X      int   `msgpack:"x"`
	Y      int   `msgpack:"y"`
	Z      int   `msgpack:"z"`
}

type TimezoneRecord struct {
	ClockID int64  `msgpack:"clock_id"`
	Name    string `msgpack:"name"`
	Offset  int    `msgpack:"offset"`
}

type ZoneRecord struct {
	ID                    int64            `msgpack:"id"`
	ShardID               int64            `msgpack:"shard_id"`
	Name                  string           `msgpack:"name"`
	Latitude              float64          `msgpack:"latitude"`
	Longitude             float64          `msgpack:"longitude"`
	Elevation             float64          `msgpack:"elevation"`
	AmbientLightPollution float64          `msgpack:"ambient_light_pollution"`
	WeatherControllerID   int64            `msgpack:"weather_controller_id"`
	Timezones             []TimezoneRecord `msgpack:"timezones"`
}

type ShardRecord struct {
	ID                    int64   `msgpack:"id"`
	Name                  string  `msgpack:"name"`
	MinimumTerrestrialLux float64 `msgpack:"minimum_terrestrial_lux"`
}

type AreaRecord struct {
	ID                  int64   `msgpack:"id"`
	Name                string  `msgpack:"name"`
	WeatherControllerID int64   `msgpack:"weather_controller_id"`
	RoomIDs             []int64 `msgpack:"room_ids"`
}

type ExitRecord struct {
	ID          int64 `msgpack:"id"`
	Cell1ID     int64 `msgpack:"cell1_id"`
	Cell2ID     int64 `msgpack:"cell2_id"`
	Direction1  int   `msgpack:"direction1"`
	Direction2  int   `msgpack:"direction2"`
	HasDoor     bool  `msgpack:"has_door"`
	DoorOpen    bool  `msgpack:"door_open"`
	AcceptsFall bool  `msgpack:"accepts_fall"`
}

type FluidRecord struct {
	ID      int64   `msgpack:"id"`
	Name    string  `msgpack:"name"`
	IsGas   bool    `msgpack:"is_gas"`
	Density float64 `msgpack:"density"`
}

type RangedCoverRecord struct {
	ID              int64  `msgpack:"id"`
	Name            string `msgpack:"name"`
	CoverType       int    `msgpack:"cover_type"`
	CoverExtent     int    `msgpack:"cover_extent"`
	MaxSimultaneous int    `msgpack:"max_simultaneous"`
}

type ProfileYieldRecord struct {
	Type         string  `msgpack:"type"`
	Maximum      float64 `msgpack:"maximum"`
	HourlyRegain float64 `msgpack:"hourly_regain"`
}

type ForagableProfileRecord struct {
	ID     int64                `msgpack:"id"`
	Name   string               `msgpack:"name"`
	Yields []ProfileYieldRecord `msgpack:"yields"`
}

type WeatherControllerRecord struct {
	ID            int64   `msgpack:"id"`
	Name          string  `msgpack:"name"`
	Precipitation int     `msgpack:"precipitation"`
	Wind          int     `msgpack:"wind"`
	Temperature   float64 `msgpack:"temperature"`
}

type ClockRecord struct {
	ID          int64  `msgpack:"id"`
	ShardID     int64  `msgpack:"shard_id"`
	Name        string `msgpack:"name"`
	DaysPerYear int    `msgpack:"days_per_year"`
	Year        int    `msgpack:"year"`
	Day         int    `msgpack:"day"`
	Minute      int    `msgpack:"minute"`
}

type CalendarRecord struct {
	ID          int64  `msgpack:"id"`
	ShardID     int64  `msgpack:"shard_id"`
	Name        string `msgpack:"name"`
	DaysPerYear int    `msgpack:"days_per_year"`
}

type CelestialRecord struct {
	ID              int64   `msgpack:"id"`
	ShardID         int64   `msgpack:"shard_id"`
	ClockID         int64   `msgpack:"clock_id"`
	Name            string  `msgpack:"name"`
	PeakIlluminance float64 `msgpack:"peak_illuminance"`
}

type ItemRecord struct {
	ID          int64   `msgpack:"id"`
	Name        string  `msgpack:"name"`
	Weight      float64 `msgpack:"weight"`
	Density     float64 `msgpack:"density"`
	Light       float64 `msgpack:"light"`
	Temperature float64 `msgpack:"temperature"`
	Anchored    bool    `msgpack:"anchored"`
}

// WorldData is every row of the world schema.
type WorldData struct {
	Fluids             []FluidRecord             `msgpack:"fluids"`
	RangedCovers       []RangedCoverRecord       `msgpack:"ranged_covers"`
	ForagableProfiles  []ForagableProfileRecord  `msgpack:"foragable_profiles"`
	WeatherControllers []WeatherControllerRecord `msgpack:"weather_controllers"`
	Terrains           []TerrainRecord           `msgpack:"terrains"`
	Shards             []ShardRecord             `msgpack:"shards"`
	Clocks             []ClockRecord             `msgpack:"clocks"`
	Calendars          []CalendarRecord          `msgpack:"calendars"`
	Celestials         []CelestialRecord         `msgpack:"celestials"`
	Zones              []ZoneRecord              `msgpack:"zones"`
	Rooms              []RoomRecord              `msgpack:"rooms"`
	Cells              []CellRecord              `msgpack:"cells"`
	OverlayPackages    []OverlayPackageRecord    `msgpack:"overlay_packages"`
	Overlays           []OverlayRecord           `msgpack:"overlays"`
	Exits              []ExitRecord              `msgpack:"exits"`
	Areas              []AreaRecord              `msgpack:"areas"`
	Items              []ItemRecord              `msgpack:"items"`
}
