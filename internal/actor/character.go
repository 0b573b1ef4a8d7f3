package actor

import (
	"log/slog"

	"github.com/futuremud/futuremud/internal/game"
)

// Character is a connected builder standing in a cell. Output goes through
// the publisher so it reaches whichever session owns the character.
type Character struct {
	id       int64
	name     string
	layer    game.RoomLayer
	loc      *game.Cell
	pub      game.Publisher
	admin    bool
	flier    bool
	climbing game.Difficulty
	language string
	script   string
	preview  *game.PackageKey
}

func NewCharacter(p *Profile, pub game.Publisher) *Character {
	c := &Character{
		id:       p.ID,
		name:     p.Name,
		layer:    game.GroundLevel,
		pub:      pub,
		admin:    p.Administrator,
		flier:    p.Flier,
		language: p.Language,
		script:   p.Script,
	}
	if d, err := game.ParseDifficulty(p.Climbing); err == nil {
		c.climbing = d
	}
	return c
}

func (c *Character) ID() int64                 { return c.id }
func (c *Character) Name() string              { return c.name }
func (c *Character) Layer() game.RoomLayer     { return c.layer }
func (c *Character) SetLayer(l game.RoomLayer) { c.layer = l }
func (c *Character) Location() *game.Cell      { return c.loc }
func (c *Character) SetLocation(l *game.Cell)  { c.loc = l }
func (c *Character) IsAdministrator() bool     { return c.admin }
func (c *Character) CanFly() bool              { return c.flier }
func (c *Character) CurrentLanguage() string   { return c.language }
func (c *Character) CurrentScript() string     { return c.script }

func (c *Character) Send(msg string) {
	if c.pub == nil {
		return
	}
	if err := c.pub.PublishToCharacter(c.id, []byte(msg)); err != nil {
		slog.Warn("delivering to character", "character", c.id, "error", err)
	}
}

// AvoidFallDueToWind passes when the check is no harder than the
// character's climbing grade.
func (c *Character) AvoidFallDueToWind(d game.Difficulty) bool {
	return d <= c.climbing
}

func (c *Character) PreviewPackage() (game.PackageKey, bool) {
	if c.preview == nil {
		return game.PackageKey{}, false
	}
	return *c.preview, true
}

// SetPreview shows the character pkg in place of current overlays. A nil
// package clears the preview.
func (c *Character) SetPreview(pkg *game.OverlayPackage) {
	if pkg == nil {
		c.preview = nil
		return
	}
	k := pkg.Key()
	c.preview = &k
}

// MoveTo takes the character out of its cell and puts it in dest.
func (c *Character) MoveTo(dest *game.Cell) error {
	if c.loc != nil {
		if err := c.loc.Leave(c); err != nil {
			return err
		}
	}
	return dest.Enter(c)
}
