package game

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const terrainBuildingHelp = `You can use the following options with this command:

	name <name> - renames the terrain
	atmosphere <fluid>|none - sets the atmosphere
	movement <multiplier> - sets the movement speed multiplier
	stamina <cost> - sets the stamina cost of moving
	hide <difficulty> - sets the minimum hide difficulty
	spot <difficulty> - sets the minimum spot difficulty
	forage <profile>|none - sets the foragable profile
	weather <controller>|none - sets a weather controller override
	cover <cover> - toggles a ranged cover
	infection <type> <virulence> <multiplier> - sets the infection risk
	outdoors <type> - sets the default outdoors type
	mapcolour <colour> - sets the map colour
	editorcolour <colour> - sets the editor colour
	model <model> [<liquid>] - sets the layer model
	default - makes this the default terrain`

// BuildingCommand edits the terrain from builder input and returns the
// confirmation text. Validation failures are *UserError values.
func (t *Terrain) BuildingCommand(w *World, ss *StringStack) (string, error) {
	switch ss.PopLower() {
	case "name":
		return t.buildingName(w, ss)
	case "atmosphere", "atmos", "gas":
		return t.buildingAtmosphere(w, ss)
	case "movement", "move", "speed":
		return t.buildingMovement(w, ss)
	case "stamina":
		return t.buildingStamina(w, ss)
	case "hide":
		return t.buildingDifficulty(w, ss, &t.HideDifficulty, "hide")
	case "spot":
		return t.buildingDifficulty(w, ss, &t.SpotDifficulty, "spot")
	case "forage", "foragable", "forageable":
		return t.buildingForage(w, ss)
	case "weather":
		return t.buildingWeather(w, ss)
	case "cover":
		return t.buildingCover(w, ss)
	case "infection":
		return t.buildingInfection(w, ss)
	case "outdoors", "indoors":
		return t.buildingOutdoors(w, ss)
	case "mapcolour", "mapcolor":
		return t.buildingColour(w, ss, &t.MapColour, "map")
	case "editorcolour", "editorcolor":
		return t.buildingColour(w, ss, &t.EditorColour, "editor")
	case "model", "layers":
		return t.buildingModel(w, ss)
	case "default":
		return t.buildingDefault(w)
	default:
		return "", NewUserError(terrainBuildingHelp)
	}
}

func (t *Terrain) buildingName(w *World, ss *StringStack) (string, error) {
	name := ss.RemainingArgument()
	if name == "" {
		return "", NewUserError("What name do you want to give to this terrain?")
	}
	for _, other := range w.Terrains.All() {
		if other != t && strings.EqualFold(other.Name(), name) {
			return "", NewUserError(fmt.Sprintf("There is already a terrain called %s.", other.Name()))
		}
	}
	old := t.name
	t.name = name
	t.markChanged(w.Saves)
	return fmt.Sprintf("You rename the terrain %s to %s.", old, name), nil
}

func (t *Terrain) buildingAtmosphere(w *World, ss *StringStack) (string, error) {
	arg := ss.RemainingArgument()
	switch {
	case arg == "":
		return "", NewUserError("Which fluid should be the atmosphere of this terrain? Use none to remove it.")
	case strings.EqualFold(arg, "none"):
		t.Atmosphere = nil
		t.markChanged(w.Saves)
		return fmt.Sprintf("The %s terrain no longer has an atmosphere.", t.name), nil
	}
	f, ok := w.Fluids.GetByIDOrName(arg)
	if !ok {
		return "", NewUserError(fmt.Sprintf("There is no fluid identified by %q.", arg))
	}
	t.Atmosphere = f
	t.markChanged(w.Saves)
	return fmt.Sprintf("The %s terrain now has an atmosphere of %s.", t.name, f.Name()), nil
}

func (t *Terrain) buildingMovement(w *World, ss *StringStack) (string, error) {
	v, err := strconv.ParseFloat(ss.Pop(), 64)
	if err != nil || v <= 0 {
		return "", NewUserError("You must enter a positive movement multiplier.")
	}
	t.MovementRate = v
	t.markChanged(w.Saves)
	return fmt.Sprintf("Movement through the %s terrain now takes %.2fx as long.", t.name, v), nil
}

func (t *Terrain) buildingStamina(w *World, ss *StringStack) (string, error) {
	v, err := strconv.ParseFloat(ss.Pop(), 64)
	if err != nil || v < 0 {
		return "", NewUserError("You must enter a non-negative stamina cost.")
	}
	t.StaminaCost = v
	t.markChanged(w.Saves)
	return fmt.Sprintf("Moving through the %s terrain now costs %.2f stamina.", t.name, v), nil
}

func (t *Terrain) buildingDifficulty(w *World, ss *StringStack, target *Difficulty, what string) (string, error) {
	d, err := ParseDifficulty(ss.RemainingArgument())
	if err != nil {
		return "", NewUserError(fmt.Sprintf("That is not a valid %s difficulty.", what))
	}
	*target = d
	t.markChanged(w.Saves)
	return fmt.Sprintf("The minimum %s difficulty of the %s terrain is now %s.", what, t.name, d), nil
}

func (t *Terrain) buildingForage(w *World, ss *StringStack) (string, error) {
	arg := ss.RemainingArgument()
	switch {
	case arg == "":
		return "", NewUserError("Which foragable profile should this terrain use? Use none to remove it.")
	case strings.EqualFold(arg, "none"):
		t.ForagableProfile = nil
		t.markChanged(w.Saves)
		w.refreshForage()
		return fmt.Sprintf("The %s terrain no longer has a foragable profile.", t.name), nil
	}
	p, ok := w.ForagableProfiles.GetByIDOrName(arg)
	if !ok {
		return "", NewUserError(fmt.Sprintf("There is no foragable profile identified by %q.", arg))
	}
	t.ForagableProfile = p
	t.markChanged(w.Saves)
	w.refreshForage()
	return fmt.Sprintf("The %s terrain now uses the %s foragable profile.", t.name, p.Name()), nil
}

func (t *Terrain) buildingWeather(w *World, ss *StringStack) (string, error) {
	arg := ss.RemainingArgument()
	switch {
	case arg == "":
		return "", NewUserError("Which weather controller should override the weather here? Use none to remove it.")
	case strings.EqualFold(arg, "none"):
		t.WeatherController = nil
		t.markChanged(w.Saves)
		w.resubscribeWeather()
		return fmt.Sprintf("The %s terrain now uses the weather of its zone.", t.name), nil
	}
	wc, ok := w.WeatherControllers.GetByIDOrName(arg)
	if !ok {
		return "", NewUserError(fmt.Sprintf("There is no weather controller identified by %q.", arg))
	}
	t.WeatherController = wc
	t.markChanged(w.Saves)
	w.resubscribeWeather()
	return fmt.Sprintf("The %s terrain now takes its weather from %s.", t.name, wc.Name()), nil
}

func (t *Terrain) buildingCover(w *World, ss *StringStack) (string, error) {
	arg := ss.RemainingArgument()
	if arg == "" {
		return "", NewUserError("Which ranged cover do you want to toggle?")
	}
	c, ok := w.Covers.GetByIDOrName(arg)
	if !ok {
		return "", NewUserError(fmt.Sprintf("There is no ranged cover identified by %q.", arg))
	}
	if i := slices.Index(t.Covers, c); i >= 0 {
		t.Covers = slices.Delete(t.Covers, i, i+1)
		t.markChanged(w.Saves)
		return fmt.Sprintf("The %s terrain no longer offers %s as cover.", t.name, c.Name()), nil
	}
	t.Covers = append(t.Covers, c)
	t.markChanged(w.Saves)
	return fmt.Sprintf("The %s terrain now offers %s as cover.", t.name, c.Name()), nil
}

func (t *Terrain) buildingInfection(w *World, ss *StringStack) (string, error) {
	kind, err := strconv.Atoi(ss.Pop())
	if err != nil || kind < 0 {
		return "", NewUserError("You must enter an infection type number.")
	}
	virulence, err := ParseDifficulty(ss.Pop())
	if err != nil {
		return "", NewUserError("You must enter a difficulty for the infection virulence.")
	}
	mult, err := strconv.ParseFloat(ss.Pop(), 64)
	if err != nil || mult < 0 {
		return "", NewUserError("You must enter a non-negative infection multiplier.")
	}
	t.InfectionType = kind
	t.InfectionVirulence = virulence
	t.InfectionMultiplier = mult
	t.markChanged(w.Saves)
	return fmt.Sprintf("The %s terrain now carries infection type %d at %s virulence with a %.2fx multiplier.", t.name, kind, virulence, mult), nil
}

func (t *Terrain) buildingOutdoors(w *World, ss *StringStack) (string, error) {
	o, err := ParseOutdoorsType(ss.Pop())
	if err != nil {
		return "", NewUserError("You must choose indoors, indoorswithwindows, outdoors, indoorsnolight or indoorsclimateexposed.")
	}
	t.OutdoorsType = o
	t.markChanged(w.Saves)
	return fmt.Sprintf("The %s terrain is now %s by default.", t.name, o), nil
}

func (t *Terrain) buildingColour(w *World, ss *StringStack, target *string, what string) (string, error) {
	c := ss.RemainingArgument()
	if c == "" {
		return "", NewUserError(fmt.Sprintf("What %s colour should this terrain use?", what))
	}
	*target = c
	t.markChanged(w.Saves)
	return fmt.Sprintf("The %s colour of the %s terrain is now %s.", what, t.name, c), nil
}

func (t *Terrain) buildingModel(w *World, ss *StringStack) (string, error) {
	arg := ss.RemainingArgument()
	if arg == "" {
		return "", NewUserError(fmt.Sprintf("Which model do you want to use? Valid models are %s.", strings.Join(ModelNames(), ", ")))
	}
	m, err := ParseTerrainModel(arg, w.Fluids.GetByIDOrName)
	if err != nil {
		return "", err
	}
	t.Model = m
	t.markChanged(w.Saves)
	w.terrainChanged(t)
	names := make([]string, 0, len(m.Layers()))
	for _, l := range m.Layers() {
		names = append(names, l.String())
	}
	return fmt.Sprintf("The %s terrain now uses the %s model with layers %s.", t.name, m, strings.Join(names, ", ")), nil
}

// terrainChanged refreshes every cell currently showing t.
func (w *World) terrainChanged(t *Terrain) {
	for _, c := range w.Cells.All() {
		if c.Terrain() == t {
			c.terrainChanged()
		}
	}
}

func (t *Terrain) buildingDefault(w *World) (string, error) {
	for _, other := range w.Terrains.All() {
		if other != t && other.DefaultTerrain {
			other.DefaultTerrain = false
			other.markChanged(w.Saves)
		}
	}
	t.DefaultTerrain = true
	t.markChanged(w.Saves)
	w.terrainChanged(t)
	return fmt.Sprintf("The %s terrain is now the default terrain.", t.name), nil
}
