package game

import (
	"fmt"
	"sort"
	"strings"
)

// PropertyHolder exposes named values to scripts and the prop command.
type PropertyHolder interface {
	GetProperty(name string) (any, bool)
}

type propertyTable[T any] map[string]func(T) any

func (t propertyTable[T]) get(v T, name string) (any, bool) {
	fn, ok := t[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return fn(v), true
}

func (t propertyTable[T]) names() []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ResolveProperty follows a dotted path such as "room.zone.latitude"
// starting from root.
func ResolveProperty(root PropertyHolder, path string) (any, error) {
	var cur any = root
	for _, part := range strings.Split(path, ".") {
		h, ok := cur.(PropertyHolder)
		if !ok || h == nil {
			return nil, fmt.Errorf("property %q: %v has no properties", part, cur)
		}
		v, ok := h.GetProperty(part)
		if !ok {
			return nil, fmt.Errorf("property %q: %w", part, ErrNotFound)
		}
		cur = v
	}
	return cur, nil
}

// orNil keeps a nil pointer from becoming a non-nil interface value.
func orNil[T any](p *T) any {
	if p == nil {
		return nil
	}
	return p
}

// PropertyNames lists the properties a holder supports.
func PropertyNames(h PropertyHolder) []string {
	switch h.(type) {
	case *Cell:
		return cellProperties.names()
	case *Room:
		return roomProperties.names()
	case *Zone:
		return zoneProperties.names()
	case *Shard:
		return shardProperties.names()
	case *Terrain:
		return terrainProperties.names()
	case *Area:
		return areaProperties.names()
	}
	return nil
}

var cellProperties = propertyTable[*Cell]{
	"id":          func(c *Cell) any { return c.id },
	"name":        func(c *Cell) any { return c.Name() },
	"temporary":   func(c *Cell) any { return c.temporary },
	"room":        func(c *Cell) any { return orNil(c.room) },
	"zone":        func(c *Cell) any { return orNil(c.Zone()) },
	"terrain":     func(c *Cell) any { return c.Terrain() },
	"outdoors":    func(c *Cell) any { return c.OutdoorsType(nil).String() },
	"light":       func(c *Cell) any { return c.CurrentIllumination(GroundLevel) },
	"temperature": func(c *Cell) any { return c.CurrentTemperature(nil) },
	"items":       func(c *Cell) any { return len(c.items) },
	"characters":  func(c *Cell) any { return len(c.characters) },
	"tags":        func(c *Cell) any { return c.Tags() },
	"hooks":       func(c *Cell) any { return c.Hooks() },
	"windlevel": func(c *Cell) any {
		st, _ := c.CurrentWeather(nil)
		return int(st.Wind)
	},
	"rainlevel": func(c *Cell) any {
		st, _ := c.CurrentWeather(nil)
		return st.Precipitation.Intensity()
	},
	"weather": func(c *Cell) any {
		st, _ := c.CurrentWeather(nil)
		return st.Describe()
	},
	"safequit": func(c *Cell) any {
		if o := c.current; o != nil {
			return o.SafeQuit
		}
		return false
	},
	"package": func(c *Cell) any {
		if o := c.current; o != nil {
			return o.pkg.Key().String()
		}
		return ""
	},
}

func (c *Cell) GetProperty(name string) (any, bool) {
	return cellProperties.get(c, name)
}

var roomProperties = propertyTable[*Room]{
	"id":    func(r *Room) any { return r.id },
	"name":  func(r *Room) any { return r.Name() },
	"x":     func(r *Room) any { return r.X },
	"y":     func(r *Room) any { return r.Y },
	"z":     func(r *Room) any { return r.Z },
	"zone":  func(r *Room) any { return orNil(r.zone) },
	"cells": func(r *Room) any { return len(r.cells) },
	"areas": func(r *Room) any { return len(r.areas) },
	"items": func(r *Room) any { return len(r.contents.items) },
}

func (r *Room) GetProperty(name string) (any, bool) {
	return roomProperties.get(r, name)
}

var zoneProperties = propertyTable[*Zone]{
	"id":         func(z *Zone) any { return z.id },
	"name":       func(z *Zone) any { return z.name },
	"shard":      func(z *Zone) any { return orNil(z.shard) },
	"latitude":   func(z *Zone) any { return z.Geography.Latitude },
	"longitude":  func(z *Zone) any { return z.Geography.Longitude },
	"elevation":  func(z *Zone) any { return z.Geography.Elevation },
	"pollution":  func(z *Zone) any { return z.AmbientLightPollution },
	"light":      func(z *Zone) any { return z.lightLevel },
	"rooms":      func(z *Zone) any { return len(z.rooms) },
	"characters": func(z *Zone) any { return len(z.contents.characters) },
	"timeofday": func(z *Zone) any {
		t, _ := z.CurrentTimeOfDay()
		return t.String()
	},
	"season": func(z *Zone) any {
		s, _ := z.CurrentSeason()
		return s.String()
	},
	"weather": func(z *Zone) any {
		if z.WeatherController == nil {
			return ""
		}
		return z.WeatherController.Name()
	},
}

func (z *Zone) GetProperty(name string) (any, bool) {
	return zoneProperties.get(z, name)
}

var shardProperties = propertyTable[*Shard]{
	"id":         func(s *Shard) any { return s.id },
	"name":       func(s *Shard) any { return s.name },
	"zones":      func(s *Shard) any { return len(s.zones) },
	"clocks":     func(s *Shard) any { return len(s.clocks) },
	"celestials": func(s *Shard) any { return len(s.celestials) },
	"minimumlux": func(s *Shard) any { return s.minimumLux() },
}

func (s *Shard) GetProperty(name string) (any, bool) {
	return shardProperties.get(s, name)
}

var terrainProperties = propertyTable[*Terrain]{
	"id":             func(t *Terrain) any { return t.id },
	"name":           func(t *Terrain) any { return t.name },
	"movementrate":   func(t *Terrain) any { return t.MovementRate },
	"staminacost":    func(t *Terrain) any { return t.StaminaCost },
	"hidedifficulty": func(t *Terrain) any { return t.HideDifficulty.String() },
	"spotdifficulty": func(t *Terrain) any { return t.SpotDifficulty.String() },
	"outdoors":       func(t *Terrain) any { return t.OutdoorsType.String() },
	"model":          func(t *Terrain) any { return t.Model.String() },
	"default":        func(t *Terrain) any { return t.DefaultTerrain },
	"mapcolour":      func(t *Terrain) any { return t.MapColour },
	"layers": func(t *Terrain) any {
		ls := t.Layers()
		out := make([]string, len(ls))
		for i, l := range ls {
			out[i] = l.String()
		}
		return out
	},
	"atmosphere": func(t *Terrain) any {
		if t.Atmosphere == nil {
			return ""
		}
		return t.Atmosphere.Name()
	},
}

func (t *Terrain) GetProperty(name string) (any, bool) {
	return terrainProperties.get(t, name)
}

var areaProperties = propertyTable[*Area]{
	"id":    func(a *Area) any { return a.id },
	"name":  func(a *Area) any { return a.name },
	"rooms": func(a *Area) any { return len(a.rooms) },
	"cells": func(a *Area) any { return len(a.Cells()) },
	"zones": func(a *Area) any { return len(a.Zones()) },
	"timeofday": func(a *Area) any {
		t, _ := a.CurrentTimeOfDay()
		return t.String()
	},
}

func (a *Area) GetProperty(name string) (any, bool) {
	return areaProperties.get(a, name)
}
