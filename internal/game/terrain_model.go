package game

import (
	"fmt"
	"strings"
)

// TerrainModelKind is the shape of the layers a terrain offers.
type TerrainModelKind int

const (
	ModelOutdoors TerrainModelKind = iota
	ModelIndoors
	ModelCave
	ModelRooftops
	ModelTrees
	ModelTallTrees
	ModelShallowWater
	ModelDeepWater
	ModelVeryDeepWater
	ModelUnderwater
	ModelDeepUnderwater
	ModelVeryDeepUnderwater
)

type modelInfo struct {
	name   string
	water  bool
	layers []RoomLayer
}

var airLayers = []RoomLayer{InAir, HighInAir}

var models = map[TerrainModelKind]modelInfo{
	ModelOutdoors:           {name: "outdoors", layers: append([]RoomLayer{GroundLevel}, airLayers...)},
	ModelIndoors:            {name: "indoors", layers: []RoomLayer{GroundLevel}},
	ModelCave:               {name: "cave", layers: []RoomLayer{GroundLevel}},
	ModelRooftops:           {name: "rooftops", layers: append([]RoomLayer{GroundLevel, OnRooftops}, airLayers...)},
	ModelTrees:              {name: "trees", layers: append([]RoomLayer{GroundLevel, InTrees}, airLayers...)},
	ModelTallTrees:          {name: "talltrees", layers: append([]RoomLayer{GroundLevel, InTrees, HighInTrees}, airLayers...)},
	ModelShallowWater:       {name: "shallowwater", water: true, layers: append([]RoomLayer{Underwater, GroundLevel}, airLayers...)},
	ModelDeepWater:          {name: "deepwater", water: true, layers: append([]RoomLayer{DeepUnderwater, Underwater, GroundLevel}, airLayers...)},
	ModelVeryDeepWater:      {name: "verydeepwater", water: true, layers: append([]RoomLayer{VeryDeepUnderwater, DeepUnderwater, Underwater, GroundLevel}, airLayers...)},
	ModelUnderwater:         {name: "underwater", water: true, layers: []RoomLayer{Underwater}},
	ModelDeepUnderwater:     {name: "deepunderwater", water: true, layers: []RoomLayer{DeepUnderwater, Underwater}},
	ModelVeryDeepUnderwater: {name: "verydeepunderwater", water: true, layers: []RoomLayer{VeryDeepUnderwater, DeepUnderwater, Underwater}},
}

// TerrainModel is a parsed layer model. Water models carry their liquid.
type TerrainModel struct {
	Kind     TerrainModelKind
	LiquidID int64
}

// IsWater reports whether the model needs a liquid.
func (m TerrainModel) IsWater() bool {
	return models[m.Kind].water
}

// Layers are the valid layers, lowest first.
func (m TerrainModel) Layers() []RoomLayer {
	src := models[m.Kind].layers
	out := make([]RoomLayer, len(src))
	copy(out, src)
	return out
}

// String is the stored text form.
func (m TerrainModel) String() string {
	info := models[m.Kind]
	if info.water {
		return fmt.Sprintf("%s %d", info.name, m.LiquidID)
	}
	return info.name
}

// ParseTerrainModel reads the text form. lookup resolves the liquid token
// of water models and may be nil when only ids are accepted.
func ParseTerrainModel(s string, lookup func(string) (*Fluid, bool)) (TerrainModel, error) {
	ss := NewStringStack(s)
	name := ss.PopLower()
	for kind, info := range models {
		if info.name != name {
			continue
		}
		m := TerrainModel{Kind: kind}
		if !info.water {
			return m, nil
		}
		token := ss.Pop()
		if token == "" {
			return m, NewUserError(fmt.Sprintf("The %s model requires a liquid.", name))
		}
		if lookup != nil {
			f, ok := lookup(token)
			if !ok {
				return m, NewUserError(fmt.Sprintf("There is no liquid identified by %q.", token))
			}
			m.LiquidID = f.ID()
			return m, nil
		}
		id, ok := parseID(token)
		if !ok {
			return m, fmt.Errorf("liquid id %q is not a number", token)
		}
		m.LiquidID = id
		return m, nil
	}
	return TerrainModel{}, NewUserError(fmt.Sprintf("%q is not a valid terrain model. Valid models are %s.", name, strings.Join(ModelNames(), ", ")))
}

// ModelNames lists the model keywords.
func ModelNames() []string {
	names := make([]string, 0, len(models))
	for k := ModelOutdoors; k <= ModelVeryDeepUnderwater; k++ {
		names = append(names, models[k].name)
	}
	return names
}
