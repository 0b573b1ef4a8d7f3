package game

import "errors"

var (
	ErrDuplicateContent = errors.New("content already present in cell")
	ErrContentNotFound  = errors.New("content not present in cell")
	ErrNoDefaultTerrain = errors.New("no default terrain")
	ErrNotFound         = errors.New("not found")
)

// UserError is a building or command failure that is shown to the builder.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// NewUserError creates a user-facing error.
func NewUserError(msg string) *UserError {
	return &UserError{Message: msg}
}
