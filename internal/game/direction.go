package game

import (
	"fmt"
	"strings"
)

// Direction is a compass or vertical exit direction.
type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
	Up
	Down
)

type directionInfo struct {
	name    string
	short   string
	dx      int
	dy      int
	dz      int
	reverse Direction
}

var directions = map[Direction]directionInfo{
	North:     {name: "north", short: "n", dy: 1, reverse: South},
	NorthEast: {name: "northeast", short: "ne", dx: 1, dy: 1, reverse: SouthWest},
	East:      {name: "east", short: "e", dx: 1, reverse: West},
	SouthEast: {name: "southeast", short: "se", dx: 1, dy: -1, reverse: NorthWest},
	South:     {name: "south", short: "s", dy: -1, reverse: North},
	SouthWest: {name: "southwest", short: "sw", dx: -1, dy: -1, reverse: NorthEast},
	West:      {name: "west", short: "w", dx: -1, reverse: East},
	NorthWest: {name: "northwest", short: "nw", dx: -1, dy: 1, reverse: SouthEast},
	Up:        {name: "up", short: "u", dz: 1, reverse: Down},
	Down:      {name: "down", short: "d", dz: -1, reverse: Up},
}

func (d Direction) String() string {
	if info, ok := directions[d]; ok {
		return info.name
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// Opposite is the direction leading back.
func (d Direction) Opposite() Direction {
	return directions[d].reverse
}

// Offset is the coordinate change from moving in d.
func (d Direction) Offset() (dx, dy, dz int) {
	info := directions[d]
	return info.dx, info.dy, info.dz
}

// ParseDirection accepts full and abbreviated names.
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(s)
	for d, info := range directions {
		if info.name == s || info.short == s {
			return d, nil
		}
	}
	return North, fmt.Errorf("unknown direction %q", s)
}
