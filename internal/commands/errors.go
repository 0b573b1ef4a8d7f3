package commands

import "github.com/futuremud/futuremud/internal/game"

// UserError represents an error that should be displayed to the user.
// Building commands in the game package return the same type.
type UserError = game.UserError

// NewUserError creates a user-facing error.
func NewUserError(msg string) *UserError {
	return game.NewUserError(msg)
}
