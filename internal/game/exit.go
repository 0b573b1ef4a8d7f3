package game

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/futuremud/futuremud/internal/storage"
)

// Exit joins two cells. Each side has its own direction.
type Exit struct {
	id    int64
	cell1 *Cell
	cell2 *Cell
	dir1  Direction
	dir2  Direction

	HasDoor     bool
	DoorOpen    bool
	AcceptsFall bool
}

func (e *Exit) ID() int64 { return e.id }

// Cells returns both ends of the exit.
func (e *Exit) Cells() (*Cell, *Cell) {
	return e.cell1, e.cell2
}

// Destination is the far side of the exit seen from from.
func (e *Exit) Destination(from *Cell) *Cell {
	switch from {
	case e.cell1:
		return e.cell2
	case e.cell2:
		return e.cell1
	}
	return nil
}

// DirectionFrom is the direction of the exit as seen from from.
func (e *Exit) DirectionFrom(from *Cell) Direction {
	if from == e.cell2 {
		return e.dir2
	}
	return e.dir1
}

// IsOpen is true when the exit has no door or the door is open.
func (e *Exit) IsOpen() bool {
	return !e.HasDoor || e.DoorOpen
}

func (e *Exit) SaveKey() string {
	return fmt.Sprintf("exit:%d", e.id)
}

func (e *Exit) Save(tx *storage.Tx) error {
	return tx.SaveExit(e.Record())
}

func (e *Exit) Saved() {}

func (e *Exit) Record() storage.ExitRecord {
	return storage.ExitRecord{
		ID:          e.id,
		Cell1ID:     e.cell1.ID(),
		Cell2ID:     e.cell2.ID(),
		Direction1:  int(e.dir1),
		Direction2:  int(e.dir2),
		HasDoor:     e.HasDoor,
		DoorOpen:    e.DoorOpen,
		AcceptsFall: e.AcceptsFall,
	}
}

// ExitManager indexes every exit by id and by cell.
type ExitManager struct {
	world  *World
	exits  map[int64]*Exit
	byCell map[int64][]*Exit
}

func newExitManager(w *World) *ExitManager {
	return &ExitManager{world: w, exits: make(map[int64]*Exit), byCell: make(map[int64][]*Exit)}
}

func (m *ExitManager) add(e *Exit) {
	m.exits[e.id] = e
	m.byCell[e.cell1.ID()] = append(m.byCell[e.cell1.ID()], e)
	if e.cell2 != e.cell1 {
		m.byCell[e.cell2.ID()] = append(m.byCell[e.cell2.ID()], e)
	}
}

func (m *ExitManager) Get(id int64) (*Exit, bool) {
	e, ok := m.exits[id]
	return e, ok
}

// All returns every exit in id order.
func (m *ExitManager) All() []*Exit {
	return sortedByID(m.exits)
}

// ExitsFor returns the exits of a cell in id order.
func (m *ExitManager) ExitsFor(c *Cell) []*Exit {
	out := slices.Clone(m.byCell[c.ID()])
	slices.SortFunc(out, func(a, b *Exit) int { return cmp.Compare(a.id, b.id) })
	return out
}

// ExitFrom returns the exit leaving c in dir.
func (m *ExitManager) ExitFrom(c *Cell, dir Direction) (*Exit, bool) {
	for _, e := range m.byCell[c.ID()] {
		if e.DirectionFrom(c) == dir {
			return e, true
		}
	}
	return nil, false
}

// FallExit is an open down exit from c that things can fall through.
func (m *ExitManager) FallExit(c *Cell) *Exit {
	e, ok := m.ExitFrom(c, Down)
	if !ok || !e.AcceptsFall || !e.IsOpen() {
		return nil
	}
	return e
}

// Link creates an exit from c1 in dir to c2, visible under both current
// overlays. Its row is inserted immediately.
func (m *ExitManager) Link(ctx context.Context, c1 *Cell, dir Direction, c2 *Cell) (*Exit, error) {
	if _, ok := m.ExitFrom(c1, dir); ok {
		return nil, NewUserError(fmt.Sprintf("There is already an exit %s from cell %d.", dir, c1.ID()))
	}
	if _, ok := m.ExitFrom(c2, dir.Opposite()); ok {
		return nil, NewUserError(fmt.Sprintf("There is already an exit %s from cell %d.", dir.Opposite(), c2.ID()))
	}
	id, err := m.world.db.NextID(ctx, "exits")
	if err != nil {
		return nil, fmt.Errorf("allocating exit id: %w", err)
	}
	e := &Exit{id: id, cell1: c1, cell2: c2, dir1: dir, dir2: dir.Opposite(), AcceptsFall: dir == Down}

	var touched []*CellOverlay
	for _, c := range []*Cell{c1, c2} {
		if o := c.CurrentOverlay(); o != nil && !o.ExitVisible(id) {
			o.ExitIDs = append(o.ExitIDs, id)
			touched = append(touched, o)
		}
	}
	err = m.world.db.Tx(ctx, func(tx *storage.Tx) error {
		if err := tx.SaveExit(e.Record()); err != nil {
			return err
		}
		for _, o := range touched {
			if err := tx.SaveOverlay(o.Record()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		for _, o := range touched {
			o.ExitIDs = slices.DeleteFunc(o.ExitIDs, func(x int64) bool { return x == id })
		}
		return nil, fmt.Errorf("inserting exit %d: %w", id, err)
	}
	m.add(e)
	c1.CheckFallExitStatus()
	c2.CheckFallExitStatus()
	return e, nil
}

// SetDoor changes the door of an exit.
func (m *ExitManager) SetDoor(e *Exit, hasDoor, open bool) {
	e.HasDoor, e.DoorOpen = hasDoor, open
	m.world.Saves.Add(e)
	e.cell1.CheckFallExitStatus()
	e.cell2.CheckFallExitStatus()
}

// SetAcceptsFall changes whether things fall through a down exit.
func (m *ExitManager) SetAcceptsFall(e *Exit, accepts bool) {
	e.AcceptsFall = accepts
	m.world.Saves.Add(e)
	e.cell1.CheckFallExitStatus()
	e.cell2.CheckFallExitStatus()
}

// Remove deletes an exit, hiding it from every overlay of both cells.
func (m *ExitManager) Remove(e *Exit) {
	if _, ok := m.exits[e.id]; !ok {
		return
	}
	delete(m.exits, e.id)
	for _, c := range []*Cell{e.cell1, e.cell2} {
		id := c.ID()
		m.byCell[id] = slices.DeleteFunc(m.byCell[id], func(x *Exit) bool { return x == e })
		if len(m.byCell[id]) == 0 {
			delete(m.byCell, id)
		}
		for _, o := range c.overlays {
			if o.ExitVisible(e.id) {
				o.ExitIDs = slices.DeleteFunc(o.ExitIDs, func(x int64) bool { return x == e.id })
				if !c.destroyed {
					o.markChanged(m.world.Saves)
				}
			}
		}
	}
	m.world.Saves.Remove(e.SaveKey())
	id := e.id
	m.world.Saves.AddDeferred(fmt.Sprintf("delete exit %d", id), func(tx *storage.Tx) error {
		return tx.DeleteExit(id)
	})
	e.cell1.CheckFallExitStatus()
	e.cell2.CheckFallExitStatus()
}

// RemoveAllFor deletes every exit of a cell.
func (m *ExitManager) RemoveAllFor(c *Cell) {
	for _, e := range m.ExitsFor(c) {
		m.Remove(e)
	}
}

func exitFromRecord(w *World, r storage.ExitRecord) (*Exit, error) {
	c1, ok := w.Cells.Get(r.Cell1ID)
	if !ok {
		return nil, fmt.Errorf("exit %d: cell %d: %w", r.ID, r.Cell1ID, ErrNotFound)
	}
	c2, ok := w.Cells.Get(r.Cell2ID)
	if !ok {
		return nil, fmt.Errorf("exit %d: cell %d: %w", r.ID, r.Cell2ID, ErrNotFound)
	}
	return &Exit{
		id:          r.ID,
		cell1:       c1,
		cell2:       c2,
		dir1:        Direction(r.Direction1),
		dir2:        Direction(r.Direction2),
		HasDoor:     r.HasDoor,
		DoorOpen:    r.DoorOpen,
		AcceptsFall: r.AcceptsFall,
	}, nil
}
