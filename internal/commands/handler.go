package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/futuremud/futuremud/internal/actor"
	"github.com/futuremud/futuremud/internal/game"
	"github.com/futuremud/futuremud/internal/storage"
)

// ParsedInput represents a validated and parsed command input.
type ParsedInput struct {
	Spec  *InputSpec
	Raw   string // Original player input
	Value any    // Parsed value: int for number, string for string
}

// SessionState is what a command may change about the session running it.
type SessionState struct {
	Quit bool
}

// CommandContext is everything a compiled command sees when it runs.
type CommandContext struct {
	Actor   *actor.Character
	Session *SessionState
	Config  map[string]string // Config with inputs already expanded
	Inputs  map[string]any
}

// Args tokenises a config value for building sub-commands.
func (c *CommandContext) Args(key string) *game.StringStack {
	return game.NewStringStack(c.Config[key])
}

// CommandFunc is the signature for compiled command functions.
type CommandFunc func(ctx context.Context, cmdCtx *CommandContext) error

// ConfigRequirement names a config key a handler reads.
type ConfigRequirement struct {
	Name     string
	Required bool
}

// HandlerSpec declares what a handler needs from its command definition.
type HandlerSpec struct {
	Config []ConfigRequirement
}

// HandlerFactory creates CommandFuncs from command configurations.
type HandlerFactory interface {
	// Spec describes the config keys the handler reads. It may be nil.
	Spec() *HandlerSpec
	// ValidateConfig validates that the config contains required fields.
	ValidateConfig(config map[string]any) error
	// Create creates a CommandFunc.
	Create() (CommandFunc, error)
}

// compiledCommand holds a command that's been validated and compiled.
type compiledCommand struct {
	cmd     *Command
	config  *configTemplates
	cmdFunc CommandFunc
}

// Publisher provides the ability to publish messages to subjects
type Publisher interface {
	Publish(subject string, data []byte) error
}

type Handler struct {
	store     storage.Storer[*Command]
	factories map[string]HandlerFactory
	compiled  map[string]*compiledCommand
}

func NewHandler(c storage.Storer[*Command]) *Handler {
	return &Handler{
		store:     c,
		factories: make(map[string]HandlerFactory),
		compiled:  make(map[string]*compiledCommand),
	}
}

// RegisterFactory registers a handler factory by name.
// The name must match the "handler" field in command JSON definitions.
func (h *Handler) RegisterFactory(name string, factory HandlerFactory) error {
	if name == "" {
		return fmt.Errorf("handler name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("handler factory cannot be nil")
	}
	if _, exists := h.factories[name]; exists {
		return fmt.Errorf("handler factory %q already registered", name)
	}
	h.factories[name] = factory
	return nil
}

// CompileAll compiles all commands from the store.
// Call this after all handler factories have been registered.
func (h *Handler) CompileAll() error {
	for id, cmd := range h.store.GetAll() {
		err := h.compile(id, cmd)
		if err != nil {
			return fmt.Errorf("compiling command %q: %w", id, err)
		}
	}
	slog.Info("commands compiled", "count", len(h.compiled))
	return nil
}

func (h *Handler) compile(id string, cmd *Command) error {
	factory, ok := h.factories[cmd.Handler]
	if !ok {
		return fmt.Errorf("unknown handler %q", cmd.Handler)
	}

	if spec := factory.Spec(); spec != nil {
		for _, req := range spec.Config {
			if _, ok := cmd.Config[req.Name]; req.Required && !ok {
				return fmt.Errorf("config %q is required by handler %q", req.Name, cmd.Handler)
			}
		}
	}

	if err := factory.ValidateConfig(cmd.Config); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	config, err := compileConfig(cmd.Config)
	if err != nil {
		return err
	}

	cmdFunc, err := factory.Create()
	if err != nil {
		return fmt.Errorf("creating handler: %w", err)
	}

	h.compiled[strings.ToLower(id)] = &compiledCommand{
		cmd:     cmd,
		config:  config,
		cmdFunc: cmdFunc,
	}
	return nil
}

// Exec parses and executes one line of input. The caller holds the world
// lock.
func (h *Handler) Exec(ctx context.Context, ch *actor.Character, state *SessionState, line string) error {
	ss := game.NewStringStack(line)
	cmdName := ss.PopLower()
	if cmdName == "" {
		return nil
	}

	compiled, ok := h.compiled[cmdName]
	if !ok {
		return NewUserError(fmt.Sprintf("Unknown command: %s", cmdName))
	}
	if compiled.cmd.Admin && !ch.IsAdministrator() {
		return NewUserError("You are not permitted to use that command.")
	}

	inputs, err := h.parseInputs(compiled.cmd.Inputs, ss)
	if err != nil {
		return err
	}

	values := make(map[string]any, len(compiled.cmd.Inputs))
	for _, spec := range compiled.cmd.Inputs {
		// Omitted inputs still expand to their zero value in templates.
		if spec.Type == InputTypeNumber {
			values[spec.Name] = 0
		} else {
			values[spec.Name] = ""
		}
	}
	for _, in := range inputs {
		values[in.Spec.Name] = in.Value
	}

	config, err := compiled.config.expand(&InputContext{Actor: ActorRefFrom(ch), Inputs: values})
	if err != nil {
		return fmt.Errorf("command %q: %w", cmdName, err)
	}

	return compiled.cmdFunc(ctx, &CommandContext{
		Actor:   ch,
		Session: state,
		Config:  config,
		Inputs:  values,
	})
}

// parseInputs validates the remaining tokens against input specs.
func (h *Handler) parseInputs(specs []InputSpec, ss *game.StringStack) ([]ParsedInput, error) {
	inputs := make([]ParsedInput, 0, len(specs))

	for i := range specs {
		spec := &specs[i]

		if ss.IsFinished() {
			// No more input - this param must be optional
			if spec.Required {
				return nil, NewUserError(fmt.Sprintf("Missing required input: %s.", spec.Name))
			}
			continue
		}

		var raw string
		if spec.Rest {
			raw = ss.Remainder()
		} else {
			raw = ss.Pop()
		}

		value, err := h.parseValue(spec.Type, raw)
		if err != nil {
			return nil, err
		}

		inputs = append(inputs, ParsedInput{
			Spec:  spec,
			Raw:   raw,
			Value: value,
		})
	}

	if !ss.IsFinished() {
		return nil, NewUserError(fmt.Sprintf("Expected at most %d argument(s).", len(specs)))
	}

	return inputs, nil
}

// parseValue parses a raw string into the appropriate type.
func (h *Handler) parseValue(inputType InputType, raw string) (any, error) {
	switch inputType {
	case InputTypeString:
		return raw, nil

	case InputTypeNumber:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, NewUserError(fmt.Sprintf("%q is not a valid number.", raw))
		}
		return n, nil

	default:
		return nil, fmt.Errorf("unknown parameter type %q", inputType)
	}
}
