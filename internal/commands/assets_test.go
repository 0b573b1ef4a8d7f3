package commands

import (
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/futuremud/futuremud/internal/storage"
)

// The shipped command definitions must load and compile against the
// built-in handlers.
func TestShippedCommands(t *testing.T) {
	f := newFixture(t)
	store, err := storage.NewFileStore[*Command]("../../assets/commands")
	if err != nil {
		t.Fatalf("loading commands: %v", err)
	}
	h := NewHandler(store)
	if err := h.RegisterDefaults(f.w, f.pub, stubSnapshotter{}); err != nil {
		t.Fatalf("registering: %v", err)
	}
	if err := h.CompileAll(); err != nil {
		t.Fatalf("compiling: %v", err)
	}

	for _, name := range []string{"look", "north", "n", "say", "room", "quit"} {
		testutil.AssertEqual(t, name+" present", store.Get(name) != nil, true)
	}

	bob := f.character(t, 2, "Bob", false)
	if err := h.Exec(f.ctx, f.admin, &SessionState{}, "say hello there"); err != nil {
		t.Fatalf("say: %v", err)
	}
	testutil.AssertEqual(t, "said", f.pub.last(f.admin.ID()), `You say, "hello there"`)
	testutil.AssertEqual(t, "heard", f.pub.last(bob.ID()), `Ann says, "hello there"`)

	err = h.Exec(f.ctx, bob, &SessionState{}, "room dig north")
	testutil.AssertEqual(t, "builder only", err != nil, true)
}
