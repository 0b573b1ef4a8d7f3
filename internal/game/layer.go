package game

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RoomLayer is a vertical stratum of a room. Values are ordered by height.
type RoomLayer int

const (
	VeryDeepUnderwater RoomLayer = iota
	DeepUnderwater
	Underwater
	GroundLevel
	OnRooftops
	InTrees
	HighInTrees
	InAir
	HighInAir
)

var layerNames = map[RoomLayer]string{
	VeryDeepUnderwater: "very deep underwater",
	DeepUnderwater:     "deep underwater",
	Underwater:         "underwater",
	GroundLevel:        "ground level",
	OnRooftops:         "on rooftops",
	InTrees:            "in trees",
	HighInTrees:        "high in trees",
	InAir:              "in air",
	HighInAir:          "high in air",
}

var titleCaser = cases.Title(language.English)

func (l RoomLayer) String() string {
	if s, ok := layerNames[l]; ok {
		return s
	}
	return fmt.Sprintf("layer(%d)", int(l))
}

// Title is the display form used in building output.
func (l RoomLayer) Title() string {
	return titleCaser.String(l.String())
}

// ParseRoomLayer accepts names with or without spaces.
func ParseRoomLayer(s string) (RoomLayer, error) {
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	for l, name := range layerNames {
		if strings.ReplaceAll(name, " ", "") == s {
			return l, nil
		}
	}
	return GroundLevel, fmt.Errorf("unknown room layer %q", s)
}

// IsUnderwater is true for the submerged layers.
func (l RoomLayer) IsUnderwater() bool {
	return l <= Underwater
}

// IsInAir is true for layers with nothing underfoot.
func (l RoomLayer) IsInAir() bool {
	return l == InAir || l == HighInAir
}

// IsPerched is true for layers held up by trees or roofs.
func (l RoomLayer) IsPerched() bool {
	return l == OnRooftops || l == InTrees || l == HighInTrees
}

// IsHigherThan compares layers by height.
func (l RoomLayer) IsHigherThan(other RoomLayer) bool {
	return l > other
}

// CellOutdoorsType classifies how exposed a cell is to the elements.
type CellOutdoorsType int

const (
	Indoors CellOutdoorsType = iota
	IndoorsWithWindows
	Outdoors
	IndoorsNoLight
	IndoorsClimateExposed
)

var outdoorsNames = map[CellOutdoorsType]string{
	Indoors:               "indoors",
	IndoorsWithWindows:    "indoorswithwindows",
	Outdoors:              "outdoors",
	IndoorsNoLight:        "indoorsnolight",
	IndoorsClimateExposed: "indoorsclimateexposed",
}

func (o CellOutdoorsType) String() string {
	if s, ok := outdoorsNames[o]; ok {
		return s
	}
	return fmt.Sprintf("outdoors(%d)", int(o))
}

func ParseOutdoorsType(s string) (CellOutdoorsType, error) {
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	for o, name := range outdoorsNames {
		if name == s {
			return o, nil
		}
	}
	return Indoors, fmt.Errorf("unknown outdoors type %q", s)
}
