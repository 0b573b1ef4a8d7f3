package game

import (
	"cmp"
	"slices"
)

// contentView is the denormalised set of everything in a room, zone or shard.
type contentView struct {
	items      map[int64]Item
	characters map[int64]Character
}

func newContentView() contentView {
	return contentView{items: make(map[int64]Item), characters: make(map[int64]Character)}
}

func (v *contentView) addItem(it Item)              { v.items[it.ID()] = it }
func (v *contentView) removeItem(it Item)           { delete(v.items, it.ID()) }
func (v *contentView) addCharacter(ch Character)    { v.characters[ch.ID()] = ch }
func (v *contentView) removeCharacter(ch Character) { delete(v.characters, ch.ID()) }

func (v *contentView) Items() []Item {
	return sortedByID(v.items)
}

func (v *contentView) Characters() []Character {
	return sortedByID(v.characters)
}

func sortedByID[T interface{ ID() int64 }](m map[int64]T) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(a.ID(), b.ID()) })
	return out
}

// contentSink receives content changes from a cell below it.
type contentSink interface {
	itemAdded(it Item)
	itemRemoved(it Item)
	characterAdded(ch Character)
	characterRemoved(ch Character)
}
