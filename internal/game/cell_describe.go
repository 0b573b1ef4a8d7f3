package game

import (
	"fmt"
	"strings"

	"github.com/futuremud/futuremud/internal/display"
)

// DescriptionType selects how much of a cell HowSeen renders.
type DescriptionType int

const (
	DescShort DescriptionType = iota
	DescLong
	DescFull
)

// HowSeen renders the cell as the voyeur perceives it.
func (c *Cell) HowSeen(voyeur any, t DescriptionType) string {
	o := c.GetOverlayFor(voyeur)
	if o == nil {
		return c.Name()
	}
	switch t {
	case DescShort:
		return display.Colourize(o.Name)
	case DescLong:
		return display.Colourize(fmt.Sprintf("%s (%s)", o.Name, c.TerrainFor(voyeur).Name()))
	}

	var b strings.Builder
	b.WriteString(display.Highlight(display.Colourize(o.Name), display.Bold))
	b.WriteString("\n")
	if a, ok := TryGetCapability[Administrator](voyeur); ok && a.IsAdministrator() {
		b.WriteString(c.adminLine(voyeur, o))
		b.WriteString("\n")
	}
	b.WriteString(display.Wrap(c.RenderDescription(voyeur, o.Description)))
	b.WriteString("\n")
	b.WriteString(c.describeExits(voyeur, o))
	return b.String()
}

func (c *Cell) adminLine(voyeur any, o *CellOverlay) string {
	terrain := c.TerrainFor(voyeur)
	terrainName := terrain.Name()
	if terrain.OutdoorsType != o.OutdoorsType {
		terrainName = display.Highlight(terrainName, display.Red)
	}
	safe := "no"
	if o.SafeQuit {
		safe = "yes"
	}
	coords := "unplaced"
	if c.room != nil {
		coords = fmt.Sprintf("%d,%d,%d", c.room.X, c.room.Y, c.room.Z)
	}
	line := fmt.Sprintf("[Cell #%d | Terrain: %s | Safe Quit: %s | Package: %s r%d (%s) | Coords: %s]",
		c.id, terrainName, safe, o.pkg.Name(), o.pkg.Revision(), o.pkg.Status(), coords)
	return display.Highlight(line, display.Grey)
}

func (c *Cell) describeExits(voyeur any, o *CellOverlay) string {
	var names []string
	for _, e := range c.world.Exits.ExitsFor(c) {
		if !o.ExitVisible(e.ID()) {
			continue
		}
		name := e.DirectionFrom(c).String()
		if e.HasDoor && !e.DoorOpen {
			name = "(" + name + ")"
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return display.Highlight("Obvious exits: none", display.Cyan)
	}
	return display.Highlight("Obvious exits: "+strings.Join(names, ", "), display.Cyan)
}

// RenderDescription expands environment blocks, macros and colour tags.
func (c *Cell) RenderDescription(voyeur any, desc string) string {
	text := renderMarkup(c.world.markup.parse(desc), c.environmentFor(voyeur))
	text = c.substituteMacros(voyeur, text)
	return display.Colourize(text)
}

func (c *Cell) environmentFor(voyeur any) envContext {
	env := envContext{tuning: c.world.tuning}
	if z := c.Zone(); z != nil {
		if tod, ok := z.CurrentTimeOfDay(); ok {
			env.timeOfDay, env.hasTime = tod, true
		}
		if s, ok := z.CurrentSeason(); ok {
			env.season, env.hasSeason = s, true
		}
	}
	env.weather, env.hasWeather = c.CurrentWeather(voyeur)
	if occ, ok := voyeur.(Occupant); ok {
		env.lux = c.IlluminationFor(occ)
	} else {
		env.lux = c.CurrentIllumination(GroundLevel)
	}
	return env
}

func (c *Cell) substituteMacros(voyeur any, text string) string {
	if strings.Contains(text, "@shop") {
		name := "the shop"
		if c.world.shops != nil {
			if n, ok := c.world.shops.ShopName(c.id); ok {
				name = n
			}
		}
		text = strings.ReplaceAll(text, "@shop", name)
	}
	if strings.Contains(text, "@language") || strings.Contains(text, "@script") {
		language, script := "an unknown language", "an unknown script"
		if l, ok := TryGetCapability[Linguist](voyeur); ok {
			if v := l.CurrentLanguage(); v != "" {
				language = v
			}
			if v := l.CurrentScript(); v != "" {
				script = v
			}
		}
		text = strings.ReplaceAll(text, "@language", language)
		text = strings.ReplaceAll(text, "@script", script)
	}
	return text
}
