package game

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/futuremud/futuremud/internal/storage"
)

// markChanged records which optional parts of the cell need writing.
func (c *Cell) markChanged(parts storage.CellChanges) {
	if c.destroyed {
		return
	}
	c.changed = true
	c.changes |= parts
	if c.world != nil && c.world.Saves != nil {
		c.world.Saves.Add(c)
	}
}

// PendingChanges are the parts that will be written on the next save.
func (c *Cell) PendingChanges() storage.CellChanges {
	return c.changes
}

func (c *Cell) SaveKey() string {
	return fmt.Sprintf("cell:%d", c.id)
}

func (c *Cell) Save(tx *storage.Tx) error {
	r, err := c.Record()
	if err != nil {
		return err
	}
	return tx.SaveCell(r, c.changes)
}

func (c *Cell) Saved() {
	c.changed = false
	c.changes = 0
}

// Record converts the cell to its row with every part filled in.
func (c *Cell) Record() (storage.CellRecord, error) {
	effectsXML, err := c.Effects.SaveXML()
	if err != nil {
		return storage.CellRecord{}, fmt.Errorf("cell %d effects: %w", c.id, err)
	}
	r := storage.CellRecord{
		ID:         c.id,
		Temporary:  c.temporary,
		EffectsXML: effectsXML,
		Tags:       slices.Clone(c.tags),
		Hooks:      slices.Clone(c.hooks),
	}
	if c.room != nil {
		r.RoomID = c.room.ID()
	}
	if c.current != nil {
		r.CurrentOverlayID = c.current.ID()
	}
	if c.ForagableProfile != nil {
		r.ForagableProfileID = c.ForagableProfile.ID()
	}
	for _, k := range sortedKeys(c.yields) {
		r.Yields = append(r.Yields, storage.YieldRecord{Type: k, Amount: c.yields[k]})
	}
	for _, k := range sortedKeys(c.resources) {
		r.MagicResources = append(r.MagicResources, storage.ResourceRecord{ResourceID: k, Amount: c.resources[k]})
	}
	for _, it := range c.items {
		r.Contents = append(r.Contents, storage.ContentRecord{ItemID: it.ID(), Layer: int(it.Layer())})
	}
	slices.SortFunc(r.Contents, func(a, b storage.ContentRecord) int { return cmp.Compare(a.ItemID, b.ItemID) })
	return r, nil
}

// cellFromRecord builds a cell without its overlays or contents, which the
// loader attaches once every cell exists.
func cellFromRecord(w *World, room *Room, r storage.CellRecord) (*Cell, error) {
	c := newCell(w, r.ID, room)
	c.temporary = r.Temporary
	c.tags = slices.Clone(r.Tags)
	c.hooks = slices.Clone(r.Hooks)
	for _, y := range r.Yields {
		c.yields[y.Type] = y.Amount
	}
	for _, m := range r.MagicResources {
		c.resources[m.ResourceID] = m.Amount
	}
	if r.ForagableProfileID != 0 {
		p, ok := w.ForagableProfiles.Get(r.ForagableProfileID)
		if !ok {
			return nil, fmt.Errorf("cell %d: foragable profile %d: %w", r.ID, r.ForagableProfileID, ErrNotFound)
		}
		c.ForagableProfile = p
	}
	if err := c.Effects.LoadXML(r.EffectsXML); err != nil {
		return nil, fmt.Errorf("cell %d effects: %w", r.ID, err)
	}
	return c, nil
}
