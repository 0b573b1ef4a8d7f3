package commands

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/futuremud/futuremud/internal/game"
)

func TestHandler_parseValue(t *testing.T) {
	h := &Handler{}

	tests := map[string]struct {
		inputType InputType
		raw       string
		exp       any
		expErr    string
	}{
		"string type": {
			inputType: InputTypeString,
			raw:       "hello world",
			exp:       "hello world",
		},
		"number type valid": {
			inputType: InputTypeNumber,
			raw:       "42",
			exp:       42,
		},
		"number type negative": {
			inputType: InputTypeNumber,
			raw:       "-10",
			exp:       -10,
		},
		"number type invalid": {
			inputType: InputTypeNumber,
			raw:       "abc",
			expErr:    `"abc" is not a valid number.`,
		},
		"number type float rejected": {
			inputType: InputTypeNumber,
			raw:       "3.14",
			expErr:    `"3.14" is not a valid number.`,
		},
		"unknown type": {
			inputType: InputType("bogus"),
			raw:       "test",
			expErr:    `unknown parameter type "bogus"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := h.parseValue(tt.inputType, tt.raw)

			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "value", got, tt.exp)
		})
	}
}

func TestHandler_parseInputs(t *testing.T) {
	h := &Handler{}

	tests := map[string]struct {
		specs  []InputSpec
		line   string
		exp    map[string]any
		expErr string
	}{
		"no inputs no args": {
			exp: map[string]any{},
		},
		"no inputs with args rejected": {
			line:   "extra",
			expErr: "Expected at most 0 argument(s).",
		},
		"required input missing": {
			specs: []InputSpec{
				{Name: "count", Type: InputTypeNumber, Required: true},
			},
			expErr: "Missing required input: count.",
		},
		"required input provided": {
			specs: []InputSpec{
				{Name: "count", Type: InputTypeNumber, Required: true},
			},
			line: "5",
			exp:  map[string]any{"count": 5},
		},
		"optional input omitted": {
			specs: []InputSpec{
				{Name: "direction", Type: InputTypeString},
			},
			exp: map[string]any{},
		},
		"rest input joins remaining tokens": {
			specs: []InputSpec{
				{Name: "args", Type: InputTypeString, Rest: true},
			},
			line: "dig north",
			exp:  map[string]any{"args": "dig north"},
		},
		"rest input keeps quoted tokens together": {
			specs: []InputSpec{
				{Name: "args", Type: InputTypeString, Rest: true},
			},
			line: `new "Misty Vale"`,
			exp:  map[string]any{"args": `new "Misty Vale"`},
		},
		"too many args": {
			specs: []InputSpec{
				{Name: "direction", Type: InputTypeString},
			},
			line:   "north south",
			expErr: "Expected at most 1 argument(s).",
		},
		"invalid number": {
			specs: []InputSpec{
				{Name: "count", Type: InputTypeNumber},
			},
			line:   "lots",
			expErr: `"lots" is not a valid number.`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := h.parseInputs(tt.specs, game.NewStringStack(tt.line))

			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "input count", len(got), len(tt.exp))
			for _, in := range got {
				testutil.AssertEqual(t, in.Spec.Name, in.Value, tt.exp[in.Spec.Name])
			}
		})
	}
}

// echoFactory sends its expanded "text" config back to the actor.
type echoFactory struct {
	required bool
	err      error
}

func (f *echoFactory) Spec() *HandlerSpec {
	return &HandlerSpec{Config: []ConfigRequirement{{Name: "text", Required: f.required}}}
}

func (f *echoFactory) ValidateConfig(config map[string]any) error { return f.err }

func (f *echoFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		cmdCtx.Actor.Send(cmdCtx.Config["text"])
		return nil
	}, nil
}

func TestHandler_Exec(t *testing.T) {
	store := mapStore{
		"echo": {
			Handler: "echo",
			Config:  map[string]any{"text": "{{ .Actor.Name }} says '{{ .Inputs.text }}'"},
			Inputs:  []InputSpec{{Name: "text", Type: InputTypeString, Rest: true}},
		},
		"count": {
			Handler: "echo",
			Config:  map[string]any{"text": "{{ .Inputs.n }}"},
			Inputs:  []InputSpec{{Name: "n", Type: InputTypeNumber, Required: true}},
		},
		"secret": {
			Handler: "echo",
			Admin:   true,
			Config:  map[string]any{"text": "for builders"},
		},
	}

	tests := map[string]struct {
		line   string
		admin  bool
		exp    string
		expErr string
	}{
		"empty line": {
			line: "   ",
		},
		"unknown command": {
			line:   "dance",
			expErr: "Unknown command: dance",
		},
		"command name is case insensitive": {
			line: "ECHO hello",
			exp:  "Bob says 'hello'",
		},
		"omitted input expands empty": {
			line: "echo",
			exp:  "Bob says ''",
		},
		"number input": {
			line: "count 7",
			exp:  "7",
		},
		"missing required input": {
			line:   "count",
			expErr: "Missing required input: n.",
		},
		"admin command refused": {
			line:   "secret",
			expErr: "You are not permitted to use that command.",
		},
		"admin command allowed": {
			line:  "secret",
			admin: true,
			exp:   "for builders",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			h := NewHandler(store)
			if err := h.RegisterFactory("echo", &echoFactory{}); err != nil {
				t.Fatalf("registering: %v", err)
			}
			if err := h.CompileAll(); err != nil {
				t.Fatalf("compiling: %v", err)
			}
			ch := f.character(t, 2, "Bob", tt.admin)

			err := h.Exec(f.ctx, ch, &SessionState{}, tt.line)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				var ue *UserError
				testutil.AssertEqual(t, "is user error", errors.As(err, &ue), true)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "output", f.pub.last(ch.ID()), tt.exp)
		})
	}
}

func TestHandler_CompileAll(t *testing.T) {
	tests := map[string]struct {
		cmd     *Command
		factory *echoFactory
		expErr  string
	}{
		"compiles": {
			cmd:     &Command{Handler: "echo", Config: map[string]any{"text": "hi"}},
			factory: &echoFactory{required: true},
		},
		"unknown handler": {
			cmd:     &Command{Handler: "nope"},
			factory: &echoFactory{},
			expErr:  `unknown handler "nope"`,
		},
		"missing required config": {
			cmd:     &Command{Handler: "echo"},
			factory: &echoFactory{required: true},
			expErr:  `config "text" is required by handler "echo"`,
		},
		"rejected config": {
			cmd:     &Command{Handler: "echo", Config: map[string]any{"text": "hi"}},
			factory: &echoFactory{err: errors.New("text is too short")},
			expErr:  "validating config: text is too short",
		},
		"bad template": {
			cmd:     &Command{Handler: "echo", Config: map[string]any{"text": "{{ .Actor"}},
			factory: &echoFactory{},
			expErr:  `config "text"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			h := NewHandler(mapStore{"test": tt.cmd})
			if err := h.RegisterFactory("echo", tt.factory); err != nil {
				t.Fatalf("registering: %v", err)
			}
			err := h.CompileAll()
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestHandler_RegisterFactory(t *testing.T) {
	tests := map[string]struct {
		name    string
		factory HandlerFactory
		expErr  string
	}{
		"registers": {
			name:    "echo",
			factory: &echoFactory{},
		},
		"empty name": {
			factory: &echoFactory{},
			expErr:  "handler name cannot be empty",
		},
		"nil factory": {
			name:   "echo",
			expErr: "handler factory cannot be nil",
		},
		"duplicate": {
			name:    "look",
			factory: &echoFactory{},
			expErr:  `handler factory "look" already registered`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			h := NewHandler(mapStore{})
			if err := h.RegisterFactory("look", &echoFactory{}); err != nil {
				t.Fatalf("registering: %v", err)
			}
			err := h.RegisterFactory(tt.name, tt.factory)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestHandler_RegisterDefaults(t *testing.T) {
	f := newFixture(t)

	h := NewHandler(mapStore{
		"look":  {Handler: "look"},
		"north": {Handler: "move", Config: map[string]any{"direction": "north"}},
		"room": {
			Handler: "room",
			Admin:   true,
			Config:  map[string]any{"args": "{{ .Inputs.args }}"},
			Inputs:  []InputSpec{{Name: "args", Type: InputTypeString, Rest: true}},
		},
	})
	if err := h.RegisterDefaults(f.w, f.pub, nil); err != nil {
		t.Fatalf("registering: %v", err)
	}
	if err := h.CompileAll(); err != nil {
		t.Fatalf("compiling: %v", err)
	}

	if err := h.Exec(f.ctx, f.admin, &SessionState{}, "room dig north"); err != nil {
		t.Fatalf("digging: %v", err)
	}
	if err := h.Exec(f.ctx, f.admin, &SessionState{}, "north"); err != nil {
		t.Fatalf("moving: %v", err)
	}
	testutil.AssertEqual(t, "moved", f.admin.Location() != f.cell, true)

	// Snapshots need a snapshotter.
	h = NewHandler(mapStore{"snapshot": {Handler: "snapshot"}})
	if err := h.RegisterDefaults(f.w, f.pub, nil); err != nil {
		t.Fatalf("registering: %v", err)
	}
	testutil.AssertErrorContains(t, h.CompileAll(), "snapshots are not configured")
}

func TestQuitHandler(t *testing.T) {
	f := newFixture(t)
	fn, err := NewQuitHandlerFactory(f.w).Create()
	if err != nil {
		t.Fatalf("creating: %v", err)
	}
	state := &SessionState{}
	if err := fn(f.ctx, &CommandContext{Actor: f.admin, Session: state}); err != nil {
		t.Fatalf("quitting: %v", err)
	}
	testutil.AssertEqual(t, "quit", state.Quit, true)
	testutil.AssertEqual(t, "farewell", f.pub.last(f.admin.ID()), "Goodbye.")
	saves, deletes := f.w.Saves.Pending()
	testutil.AssertEqual(t, "pending saves", saves, 0)
	testutil.AssertEqual(t, "pending deletes", deletes, 0)
}

func TestMessageHandler(t *testing.T) {
	f := newFixture(t)
	bob := f.character(t, 2, "Bob", false)

	err := f.run(t, NewMessageHandlerFactory(f.pub), f.admin, map[string]string{
		"sender_message":    "You wave.",
		"room_message":      "Ann waves.",
		"recipient_channel": "chat",
		"recipient_message": "Ann: hello",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "sender", f.pub.last(f.admin.ID()), "You wave.")
	testutil.AssertEqual(t, "room", f.pub.last(bob.ID()), "Ann waves.")
	testutil.AssertEqual(t, "channel", strings.Join(f.pub.subj["chat"], "|"), "Ann: hello")
}
