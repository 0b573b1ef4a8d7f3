package game

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/futuremud/futuremud/internal/celestial"
)

const cellBuildingHelp = `You can use the following options with this command:

	tag <id> - toggles a tag
	yield <type> <amount> - sets a foragable yield
	magic <resource> <amount> - sets a magic resource, 0 removes it
	hook <id> - installs or removes a hook`

// BuildingCommand edits the properties a cell keeps across overlays.
func (c *Cell) BuildingCommand(w *World, ss *StringStack) (string, error) {
	switch ss.PopLower() {
	case "tag":
		id, ok := parseID(ss.Pop())
		if !ok {
			return "", NewUserError("Which tag id do you want to toggle?")
		}
		if c.ToggleTag(id) {
			return fmt.Sprintf("This cell is now tagged with tag #%d.", id), nil
		}
		return fmt.Sprintf("This cell is no longer tagged with tag #%d.", id), nil
	case "yield":
		kind := strings.ToLower(ss.Pop())
		amount, err := strconv.ParseFloat(ss.Pop(), 64)
		if kind == "" || err != nil || amount < 0 {
			return "", NewUserError("You must specify a yield type and a non-negative amount.")
		}
		c.SetYield(kind, amount)
		return fmt.Sprintf("This cell now has %.2f of the %s yield.", amount, kind), nil
	case "magic", "resource":
		id, ok := parseID(ss.Pop())
		amount, err := strconv.ParseFloat(ss.Pop(), 64)
		if !ok || err != nil {
			return "", NewUserError("You must specify a magic resource id and an amount.")
		}
		c.SetMagicResource(id, amount)
		if amount <= 0 {
			return fmt.Sprintf("This cell no longer has magic resource #%d.", id), nil
		}
		return fmt.Sprintf("This cell now has %.2f of magic resource #%d.", amount, id), nil
	case "hook":
		id, ok := parseID(ss.Pop())
		if !ok {
			return "", NewUserError("Which hook id do you want to install or remove?")
		}
		if c.RemoveHook(id) {
			return fmt.Sprintf("You remove hook #%d from this cell.", id), nil
		}
		c.InstallHook(id)
		return fmt.Sprintf("You install hook #%d in this cell.", id), nil
	default:
		return "", NewUserError(cellBuildingHelp)
	}
}

const roomBuildingHelp = `You can use the following options with this command:

	zone <zone> - moves the room to another zone
	coords <x> <y> <z> - sets the room coordinates
	recalculate - lays out the zone's coordinates from this room`

// BuildingCommand edits the room's placement.
func (r *Room) BuildingCommand(w *World, ss *StringStack) (string, error) {
	switch ss.PopLower() {
	case "zone":
		arg := ss.RemainingArgument()
		z, ok := w.Zones.GetByIDOrName(arg)
		if !ok {
			return "", NewUserError(fmt.Sprintf("There is no zone identified by %q.", arg))
		}
		if r.zone != nil && z.shard != r.zone.shard {
			return "", NewUserError("Rooms cannot be moved to a zone in another shard.")
		}
		r.SetNewZone(z)
		return fmt.Sprintf("Room #%d is now in the %s zone.", r.id, z.Name()), nil
	case "coords", "coordinates":
		var xyz [3]int
		for i := range xyz {
			v, err := strconv.Atoi(ss.Pop())
			if err != nil {
				return "", NewUserError("You must specify whole number x, y and z coordinates.")
			}
			xyz[i] = v
		}
		r.SetCoordinates(xyz[0], xyz[1], xyz[2])
		return fmt.Sprintf("Room #%d is now at %d,%d,%d.", r.id, r.X, r.Y, r.Z), nil
	case "recalculate", "recalc":
		if r.zone == nil {
			return "", NewUserError("This room is not in a zone.")
		}
		n := r.zone.CalculateCoordinates(r)
		return fmt.Sprintf("You lay out %d rooms of the %s zone from here.", n, r.zone.Name()), nil
	default:
		return "", NewUserError(roomBuildingHelp)
	}
}

const areaBuildingHelp = `You can use the following options with this command:

	name <name> - renames the area
	add <room> - adds a room
	remove <room> - removes a room
	weather <controller>|none - sets a weather controller override`

func (a *Area) BuildingCommand(w *World, ss *StringStack) (string, error) {
	switch verb := ss.PopLower(); verb {
	case "name":
		name := ss.RemainingArgument()
		if name == "" {
			return "", NewUserError("What name do you want to give to this area?")
		}
		a.SetName(name)
		return fmt.Sprintf("The area is now called %s.", name), nil
	case "add", "remove":
		id, ok := parseID(ss.Pop())
		room, found := w.Rooms.Get(id)
		if !ok || !found {
			return "", NewUserError("There is no such room.")
		}
		if verb == "add" {
			if !a.AddRoom(room) {
				return "", NewUserError(fmt.Sprintf("Room #%d is already part of %s.", id, a.name))
			}
			return fmt.Sprintf("Room #%d is now part of %s.", id, a.name), nil
		}
		if !a.RemoveRoom(room) {
			return "", NewUserError(fmt.Sprintf("Room #%d is not part of %s.", id, a.name))
		}
		return fmt.Sprintf("Room #%d is no longer part of %s.", id, a.name), nil
	case "weather":
		wc, err := parseWeatherController(w, ss.RemainingArgument())
		if err != nil {
			return "", err
		}
		a.SetWeatherController(wc)
		if wc == nil {
			return fmt.Sprintf("%s no longer overrides the weather.", a.name), nil
		}
		return fmt.Sprintf("%s now takes its weather from %s.", a.name, wc.Name()), nil
	default:
		return "", NewUserError(areaBuildingHelp)
	}
}

const zoneBuildingHelp = `You can use the following options with this command:

	name <name> - renames the zone
	latitude <degrees> - sets the latitude
	longitude <degrees> - sets the longitude
	elevation <metres> - sets the elevation
	pollution <lux> - sets the ambient light pollution
	weather <controller>|none - sets the weather controller
	timezone <clock> <offset minutes> [<name>] - sets the local time of a clock`

func (z *Zone) BuildingCommand(w *World, ss *StringStack) (string, error) {
	switch ss.PopLower() {
	case "name":
		name := ss.RemainingArgument()
		if name == "" {
			return "", NewUserError("What name do you want to give to this zone?")
		}
		z.SetName(name)
		return fmt.Sprintf("The zone is now called %s.", name), nil
	case "latitude", "lat":
		return z.buildingAngle(ss, &z.Geography.Latitude, 90, "latitude")
	case "longitude", "long":
		return z.buildingAngle(ss, &z.Geography.Longitude, 180, "longitude")
	case "elevation":
		v, err := strconv.ParseFloat(ss.Pop(), 64)
		if err != nil {
			return "", NewUserError("You must enter an elevation in metres.")
		}
		z.Geography.Elevation = v
		z.markChanged()
		return fmt.Sprintf("The %s zone is now %.0f metres above sea level.", z.name, v), nil
	case "pollution", "light":
		v, err := strconv.ParseFloat(ss.Pop(), 64)
		if err != nil || v < 0 {
			return "", NewUserError("You must enter a non-negative amount of lux.")
		}
		z.AmbientLightPollution = v
		z.RecalculateLightLevel()
		z.markChanged()
		return fmt.Sprintf("The %s zone now has %.3f lux of ambient light pollution.", z.name, v), nil
	case "weather":
		wc, err := parseWeatherController(w, ss.RemainingArgument())
		if err != nil {
			return "", err
		}
		z.SetWeatherController(wc)
		if wc == nil {
			return fmt.Sprintf("The %s zone no longer has any weather.", z.name), nil
		}
		return fmt.Sprintf("The %s zone now takes its weather from %s.", z.name, wc.Name()), nil
	case "timezone", "tz":
		return z.buildingTimezone(ss)
	default:
		return "", NewUserError(zoneBuildingHelp)
	}
}

func (z *Zone) buildingAngle(ss *StringStack, target *float64, limit float64, what string) (string, error) {
	deg, err := strconv.ParseFloat(ss.Pop(), 64)
	if err != nil || math.Abs(deg) > limit {
		return "", NewUserError(fmt.Sprintf("You must enter a %s between -%.0f and %.0f degrees.", what, limit, limit))
	}
	*target = deg * math.Pi / 180
	z.RecalculateLightLevel()
	z.markChanged()
	return fmt.Sprintf("The %s zone now has a %s of %.4f degrees.", z.name, what, deg), nil
}

func (z *Zone) buildingTimezone(ss *StringStack) (string, error) {
	if z.shard == nil {
		return "", NewUserError("This zone is not in a shard.")
	}
	arg := ss.Pop()
	var clock *celestial.Clock
	for _, c := range z.shard.clocks {
		if strings.EqualFold(c.Name(), arg) || strconv.FormatInt(c.ID(), 10) == arg {
			clock = c
			break
		}
	}
	if clock == nil {
		return "", NewUserError(fmt.Sprintf("There is no clock identified by %q in this shard.", arg))
	}
	offset, err := strconv.Atoi(ss.Pop())
	if err != nil {
		return "", NewUserError("You must enter the timezone offset in whole minutes.")
	}
	name := ss.RemainingArgument()
	if name == "" {
		name = fmt.Sprintf("UTC%+d", offset/60)
	}
	z.SetTimezone(clock.ID(), celestial.Timezone{Name: name, Offset: offset})
	return fmt.Sprintf("The %s zone now keeps %s time (%s, %+d minutes).", z.name, clock.Name(), name, offset), nil
}

const shardBuildingHelp = `You can use the following options with this command:

	name <name> - renames the shard
	lux <minimum> - sets the minimum terrestrial lux of the sky`

func (s *Shard) BuildingCommand(w *World, ss *StringStack) (string, error) {
	switch ss.PopLower() {
	case "name":
		name := ss.RemainingArgument()
		if name == "" {
			return "", NewUserError("What name do you want to give to this shard?")
		}
		s.SetName(name)
		return fmt.Sprintf("The shard is now called %s.", name), nil
	case "lux", "minlux":
		v, err := strconv.ParseFloat(ss.Pop(), 64)
		if err != nil || v < 0 {
			return "", NewUserError("You must enter a non-negative amount of lux. Use 0 for the default.")
		}
		s.MinimumTerrestrialLux = v
		s.markChanged()
		return fmt.Sprintf("The sky of %s is now never darker than %s.", s.name, s.DescribeSky(0)), nil
	default:
		return "", NewUserError(shardBuildingHelp)
	}
}

func parseWeatherController(w *World, arg string) (WeatherController, error) {
	switch {
	case arg == "":
		return nil, NewUserError("Which weather controller do you want to use? Use none to remove it.")
	case strings.EqualFold(arg, "none"):
		return nil, nil
	}
	wc, ok := w.WeatherControllers.GetByIDOrName(arg)
	if !ok {
		return nil, NewUserError(fmt.Sprintf("There is no weather controller identified by %q.", arg))
	}
	return wc, nil
}
