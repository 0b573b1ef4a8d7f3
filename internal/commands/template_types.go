package commands

import (
	"github.com/futuremud/futuremud/internal/actor"
)

// Stable template-facing types
// These types decouple command assets from the game structs.

// ActorRef is the template-facing view of the character running a command.
type ActorRef struct {
	ID   int64
	Name string
	Cell string // Short name of the cell the actor stands in
}

// ActorRefFrom creates an ActorRef from a character.
func ActorRefFrom(ch *actor.Character) *ActorRef {
	if ch == nil {
		return nil
	}
	ref := &ActorRef{ID: ch.ID(), Name: ch.Name()}
	if loc := ch.Location(); loc != nil {
		ref.Cell = loc.Name()
	}
	return ref
}

// InputContext is what config templates are expanded against.
type InputContext struct {
	Actor  *ActorRef
	Inputs map[string]any // Parsed input values keyed by input name
}
