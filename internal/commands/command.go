package commands

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// InputType represents the type of a command input parameter.
type InputType string

const (
	InputTypeString InputType = "string" // Text input (single token if rest=false, the remainder if rest=true)
	InputTypeNumber InputType = "number" // Integer
)

// InputSpec defines an input parameter that a command accepts from user input.
type InputSpec struct {
	Name     string    `json:"name"`
	Type     InputType `json:"type"`
	Required bool      `json:"required"`
	Rest     bool      `json:"rest"` // If true, captures all remaining input
}

// Command defines a command loaded from JSON.
type Command struct {
	Handler     string         `json:"handler"`
	Category    string         `json:"category,omitempty"`
	Description string         `json:"description,omitempty"`
	Admin       bool           `json:"admin,omitempty"` // Only administrators may use it
	Config      map[string]any `json:"config"`          // Config passed to handler, may contain templates
	Inputs      []InputSpec    `json:"inputs"`          // User input parameters
}

func (c *Command) Validate() error {
	el := errors.NewErrorList()

	if c.Handler == "" {
		el.Add(fmt.Errorf("command handler not set"))
	}

	seen := make(map[string]bool)
	for i, input := range c.Inputs {
		if input.Name == "" {
			el.Add(fmt.Errorf("input %d: name is required", i))
			continue
		}
		if seen[input.Name] {
			el.Add(fmt.Errorf("input %q: declared more than once", input.Name))
		}
		seen[input.Name] = true

		switch input.Type {
		case InputTypeString, InputTypeNumber:
		case "":
			el.Add(fmt.Errorf("input %q: type is required", input.Name))
		default:
			el.Add(fmt.Errorf("input %q: unknown type %q", input.Name, input.Type))
		}
		// Only the last input can have rest=true
		if input.Rest && i != len(c.Inputs)-1 {
			el.Add(fmt.Errorf("input %q: only the last input can have rest=true", input.Name))
		}
	}

	return el.Err()
}
