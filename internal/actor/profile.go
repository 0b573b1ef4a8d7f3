package actor

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/futuremud/futuremud/internal/game"
)

// Profile is the stored account of a builder.
type Profile struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	PasswordHash  string `json:"password_hash"`
	Administrator bool   `json:"administrator,omitempty"`
	Flier         bool   `json:"flier,omitempty"`
	Climbing      string `json:"climbing,omitempty"`
	Language      string `json:"language,omitempty"`
	Script        string `json:"script,omitempty"`
	LastCell      int64  `json:"last_cell,omitempty"`
}

func (p *Profile) Validate() error {
	el := errors.NewErrorList()

	if p.ID <= 0 {
		el.Add(fmt.Errorf("id must be positive"))
	}
	if p.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if p.PasswordHash == "" {
		el.Add(fmt.Errorf("password_hash is required"))
	}
	if p.Climbing != "" {
		if _, err := game.ParseDifficulty(p.Climbing); err != nil {
			el.Add(fmt.Errorf("climbing: %w", err))
		}
	}

	return el.Err()
}

// SetPassword replaces the stored hash.
func (p *Profile) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	p.PasswordHash = string(hash)
	return nil
}

func (p *Profile) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) == nil
}

// StartLocation is a cell new sessions may be placed in.
type StartLocation struct {
	Name string `json:"name"`
	Cell int64  `json:"cell"`
}

func (s *StartLocation) Validate() error {
	el := errors.NewErrorList()

	if s.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if s.Cell <= 0 {
		el.Add(fmt.Errorf("cell must be positive"))
	}

	return el.Err()
}

func (s *StartLocation) Selector() string {
	return s.Name
}
