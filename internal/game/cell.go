package game

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/futuremud/futuremud/internal/effects"
	"github.com/futuremud/futuremud/internal/storage"
)

// Cell is the smallest location a character can be in.
type Cell struct {
	world     *World
	id        int64
	room      *Room
	temporary bool

	overlays []*CellOverlay
	current  *CellOverlay

	// ForagableProfile overrides the profile of the terrain when set.
	ForagableProfile *ForagableProfile
	LocalCovers      []*RangedCover
	Effects          *effects.Handler

	items      []Item
	characters []Character

	tags      []int64
	yields    map[string]float64
	resources map[int64]float64
	hooks     []int64

	changed bool
	changes storage.CellChanges

	weatherSubs []func()
	fallSub     func()
	windSub     func()
	sinkSub     func()
	forageSub   func()

	deletionListeners map[int]func(*Cell)
	nextListener      int
	destroyed         bool
}

func newCell(w *World, id int64, room *Room) *Cell {
	c := &Cell{
		world:             w,
		id:                id,
		room:              room,
		Effects:           effects.NewHandler(),
		yields:            make(map[string]float64),
		resources:         make(map[int64]float64),
		deletionListeners: make(map[int]func(*Cell)),
	}
	c.Effects.OnChange = func() { c.markChanged(storage.CellEffectsChanged) }
	return c
}

func (c *Cell) ID() int64         { return c.id }
func (c *Cell) Room() *Room       { return c.room }
func (c *Cell) Temporary() bool   { return c.temporary }
func (c *Cell) IsDestroyed() bool { return c.destroyed }

// Name is the name under the current overlay.
func (c *Cell) Name() string {
	if c.current == nil {
		return fmt.Sprintf("cell %d", c.id)
	}
	return c.current.Name
}

// Zone is the zone of the cell's room.
func (c *Cell) Zone() *Zone {
	if c.room == nil {
		return nil
	}
	return c.room.zone
}

// Overlays returns every overlay of the cell.
func (c *Cell) Overlays() []*CellOverlay {
	return slices.Clone(c.overlays)
}

// CurrentOverlay is the overlay everyone without a preview sees.
func (c *Cell) CurrentOverlay() *CellOverlay {
	return c.current
}

// OverlayFor returns the overlay belonging to a package revision.
func (c *Cell) OverlayFor(key PackageKey) (*CellOverlay, bool) {
	for _, o := range c.overlays {
		if o.pkg.Key() == key {
			return o, true
		}
	}
	return nil, false
}

// GetOverlayFor is the overlay a voyeur perceives. Voyeurs previewing a
// package see that package's overlay when the cell has one.
func (c *Cell) GetOverlayFor(voyeur any) *CellOverlay {
	if p, ok := TryGetCapability[Previewer](voyeur); ok {
		if key, ok := p.PreviewPackage(); ok {
			if o, ok := c.OverlayFor(key); ok {
				return o
			}
		}
	}
	return c.current
}

// SetCurrentOverlay switches to the overlay of pkg. It is false when the
// cell has no overlay for pkg.
func (c *Cell) SetCurrentOverlay(pkg *OverlayPackage) bool {
	o, ok := c.OverlayFor(pkg.Key())
	if !ok {
		return false
	}
	c.current = o
	c.changed = true
	c.world.Saves.Add(c)
	c.terrainChanged()
	return true
}

// terrainChanged re-snaps occupants onto the layers of the terrain they now
// perceive and refreshes the ticks and weather the cell listens to.
func (c *Cell) terrainChanged() {
	for _, o := range c.Occupants() {
		if l := c.TerrainFor(o).HandleEnterLayers(o.Layer()); l != o.Layer() {
			c.setLayer(o, l)
		}
	}
	c.SubscribeWeather()
	c.CheckFallExitStatus()
	c.checkForageStatus()
}

func (c *Cell) addOverlay(o *CellOverlay) {
	if _, ok := c.OverlayFor(o.pkg.Key()); ok {
		return
	}
	c.overlays = append(c.overlays, o)
	if c.current == nil {
		c.current = o
	}
}

// Terrain is the terrain of the current overlay, or the default terrain.
func (c *Cell) Terrain() *Terrain {
	return c.TerrainFor(nil)
}

// TerrainFor is the terrain the voyeur perceives.
func (c *Cell) TerrainFor(voyeur any) *Terrain {
	if o := c.GetOverlayFor(voyeur); o != nil && o.Terrain != nil {
		return o.Terrain
	}
	return c.world.DefaultTerrain()
}

// OutdoorsType is the classification of the overlay the voyeur perceives.
func (c *Cell) OutdoorsType(voyeur any) CellOutdoorsType {
	if o := c.GetOverlayFor(voyeur); o != nil {
		return o.OutdoorsType
	}
	return Outdoors
}

// Items returns the items in the cell.
func (c *Cell) Items() []Item {
	return slices.Clone(c.items)
}

// Characters returns the characters in the cell.
func (c *Cell) Characters() []Character {
	return slices.Clone(c.characters)
}

// LayerItems returns the items on one layer.
func (c *Cell) LayerItems(l RoomLayer) []Item {
	var out []Item
	for _, it := range c.items {
		if it.Layer() == l {
			out = append(out, it)
		}
	}
	return out
}

// LayerCharacters returns the characters on one layer.
func (c *Cell) LayerCharacters(l RoomLayer) []Character {
	var out []Character
	for _, ch := range c.characters {
		if ch.Layer() == l {
			out = append(out, ch)
		}
	}
	return out
}

// Occupants returns every item and character.
func (c *Cell) Occupants() []Occupant {
	out := make([]Occupant, 0, len(c.items)+len(c.characters))
	for _, it := range c.items {
		out = append(out, it)
	}
	for _, ch := range c.characters {
		out = append(out, ch)
	}
	return out
}

func (c *Cell) parent() contentSink {
	if c.room == nil {
		return nil
	}
	return c.room
}

// Insert adds an item, snapping its layer to the terrain.
func (c *Cell) Insert(it Item) error {
	if slices.ContainsFunc(c.items, func(o Item) bool { return o.ID() == it.ID() }) {
		return fmt.Errorf("item %d in cell %d: %w", it.ID(), c.id, ErrDuplicateContent)
	}
	it.SetLayer(c.Terrain().HandleEnterLayers(it.Layer()))
	it.SetLocation(c)
	c.items = append(c.items, it)
	if s := c.parent(); s != nil {
		s.itemAdded(it)
	}
	c.markChanged(storage.CellContentsChanged)
	c.CheckFallExitStatus()
	return nil
}

// Extract removes an item from the cell.
func (c *Cell) Extract(it Item) error {
	i := slices.IndexFunc(c.items, func(o Item) bool { return o.ID() == it.ID() })
	if i < 0 {
		return fmt.Errorf("item %d in cell %d: %w", it.ID(), c.id, ErrContentNotFound)
	}
	c.items = slices.Delete(c.items, i, i+1)
	it.SetLocation(nil)
	if s := c.parent(); s != nil {
		s.itemRemoved(it)
	}
	c.markChanged(storage.CellContentsChanged)
	c.CheckFallExitStatus()
	return nil
}

// Enter adds a character, snapping its layer to the terrain it perceives.
func (c *Cell) Enter(ch Character) error {
	if slices.ContainsFunc(c.characters, func(o Character) bool { return o.ID() == ch.ID() }) {
		return fmt.Errorf("character %d in cell %d: %w", ch.ID(), c.id, ErrDuplicateContent)
	}
	ch.SetLayer(c.TerrainFor(ch).HandleEnterLayers(ch.Layer()))
	ch.SetLocation(c)
	c.characters = append(c.characters, ch)
	if s := c.parent(); s != nil {
		s.characterAdded(ch)
	}
	c.CheckFallExitStatus()
	return nil
}

// Leave removes a character from the cell.
func (c *Cell) Leave(ch Character) error {
	i := slices.IndexFunc(c.characters, func(o Character) bool { return o.ID() == ch.ID() })
	if i < 0 {
		return fmt.Errorf("character %d in cell %d: %w", ch.ID(), c.id, ErrContentNotFound)
	}
	c.characters = slices.Delete(c.characters, i, i+1)
	ch.SetLocation(nil)
	if s := c.parent(); s != nil {
		s.characterRemoved(ch)
	}
	c.CheckFallExitStatus()
	return nil
}

// moveOccupant puts an occupant into another cell at the given layer.
func (c *Cell) moveOccupant(o Occupant, dest *Cell, layer RoomLayer) error {
	switch v := o.(type) {
	case Character:
		if err := c.Leave(v); err != nil {
			return err
		}
		v.SetLayer(layer)
		return dest.Enter(v)
	case Item:
		if err := c.Extract(v); err != nil {
			return err
		}
		v.SetLayer(layer)
		return dest.Insert(v)
	}
	return fmt.Errorf("occupant %d cannot move", o.ID())
}

// Echo sends text to every character in the cell.
func (c *Cell) Echo(text string) {
	for _, ch := range c.characters {
		ch.Send(text)
	}
}

// Tags returns the tag ids on the cell.
func (c *Cell) Tags() []int64 {
	return slices.Clone(c.tags)
}

// ToggleTag adds or removes a tag and reports whether it is now present.
func (c *Cell) ToggleTag(id int64) bool {
	defer c.markChanged(storage.CellTagsChanged)
	if i := slices.Index(c.tags, id); i >= 0 {
		c.tags = slices.Delete(c.tags, i, i+1)
		return false
	}
	c.tags = append(c.tags, id)
	slices.Sort(c.tags)
	return true
}

// Yield is the current amount of a foragable yield.
func (c *Cell) Yield(kind string) float64 {
	return c.yields[kind]
}

// Yields returns a copy of every foragable yield.
func (c *Cell) Yields() map[string]float64 {
	out := make(map[string]float64, len(c.yields))
	for k, v := range c.yields {
		out[k] = v
	}
	return out
}

// SetYield sets a foragable yield.
func (c *Cell) SetYield(kind string, amount float64) {
	c.yields[kind] = amount
	c.markChanged(storage.CellYieldsChanged)
}

// ConsumeYield removes up to amount of a yield and returns how much was taken.
func (c *Cell) ConsumeYield(kind string, amount float64) float64 {
	have := c.yields[kind]
	taken := min(have, amount)
	if taken <= 0 {
		return 0
	}
	c.yields[kind] = have - taken
	c.markChanged(storage.CellYieldsChanged)
	return taken
}

// MagicResource is the amount of a magic resource present.
func (c *Cell) MagicResource(id int64) float64 {
	return c.resources[id]
}

func (c *Cell) SetMagicResource(id int64, amount float64) {
	if amount <= 0 {
		delete(c.resources, id)
	} else {
		c.resources[id] = amount
	}
	c.markChanged(storage.CellResourcesChanged)
}

// Hooks returns the installed hook ids.
func (c *Cell) Hooks() []int64 {
	return slices.Clone(c.hooks)
}

// InstallHook adds a hook. It is false when the hook is already installed.
func (c *Cell) InstallHook(id int64) bool {
	if slices.Contains(c.hooks, id) {
		return false
	}
	c.hooks = append(c.hooks, id)
	c.markChanged(storage.CellHooksChanged)
	return true
}

// RemoveHook uninstalls a hook. It is false when the hook was not installed.
func (c *Cell) RemoveHook(id int64) bool {
	i := slices.Index(c.hooks, id)
	if i < 0 {
		return false
	}
	c.hooks = slices.Delete(c.hooks, i, i+1)
	c.markChanged(storage.CellHooksChanged)
	return true
}

// Covers are the ranged covers of the terrain and any local covers.
func (c *Cell) Covers(voyeur any) []*RangedCover {
	out := slices.Clone(c.TerrainFor(voyeur).Covers)
	for _, lc := range c.LocalCovers {
		if !slices.Contains(out, lc) {
			out = append(out, lc)
		}
	}
	return out
}

// OnRequestsDeletion registers fn to run when the cell is about to be destroyed.
func (c *Cell) OnRequestsDeletion(fn func(*Cell)) func() {
	id := c.nextListener
	c.nextListener++
	c.deletionListeners[id] = fn
	return func() { delete(c.deletionListeners, id) }
}

// Destroy moves everything in the cell to fallback, detaches the cell from
// the world and queues removal of its row for after the next flush.
func (c *Cell) Destroy(fallback *Cell) error {
	if c.destroyed {
		return nil
	}
	if fallback == nil || fallback == c || fallback.destroyed {
		return fmt.Errorf("destroying cell %d: fallback cell is not valid", c.id)
	}
	for _, it := range c.Items() {
		if err := c.Extract(it); err != nil {
			return err
		}
		if err := fallback.Insert(it); err != nil {
			return err
		}
	}
	for _, ch := range c.Characters() {
		if cb, ok := TryGetCapability[Combatant](ch); ok {
			cb.EndCombat()
		}
		if mv, ok := TryGetCapability[Mover](ch); ok {
			mv.CancelMovement()
		}
		if err := c.Leave(ch); err != nil {
			return err
		}
		if err := fallback.Enter(ch); err != nil {
			return err
		}
	}

	listeners := make([]func(*Cell), 0, len(c.deletionListeners))
	for _, fn := range c.deletionListeners {
		listeners = append(listeners, fn)
	}
	for _, fn := range listeners {
		fn(c)
	}

	c.destroyed = true
	c.unsubscribeAll()
	c.world.Exits.RemoveAllFor(c)
	c.Effects.OnChange = nil
	c.Effects.RemoveAll()

	if c.room != nil {
		c.room.removeCell(c)
	}
	for _, o := range c.overlays {
		c.world.unregisterOverlay(o)
		c.world.Saves.Remove(o.SaveKey())
	}
	c.world.Cells.Remove(c.id)
	c.world.Saves.Remove(c.SaveKey())

	id := c.id
	c.world.Saves.AddDeferred(fmt.Sprintf("delete cell %d", id), func(tx *storage.Tx) error {
		return tx.DeleteCell(id)
	})
	slog.Info("cell destroyed", "cell", id, "fallback", fallback.id)
	return nil
}

func (c *Cell) unsubscribeAll() {
	c.unsubscribeWeather()
	for _, fn := range []*func(){&c.fallSub, &c.windSub, &c.sinkSub, &c.forageSub} {
		if *fn != nil {
			(*fn)()
			*fn = nil
		}
	}
}
