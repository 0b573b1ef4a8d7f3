package commands

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/futuremud/futuremud/internal/actor"
	"github.com/futuremud/futuremud/internal/celestial"
	"github.com/futuremud/futuremud/internal/game"
	"github.com/futuremud/futuremud/internal/heartbeat"
	"github.com/futuremud/futuremud/internal/storage"
)

// recordingPublisher keeps everything sent to each character.
type recordingPublisher struct {
	sent map[int64][]string
	subj map[string][]string
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{sent: map[int64][]string{}, subj: map[string][]string{}}
}

func (p *recordingPublisher) PublishToCharacter(id int64, data []byte) error {
	p.sent[id] = append(p.sent[id], string(data))
	return nil
}

func (p *recordingPublisher) Publish(subject string, data []byte) error {
	p.subj[subject] = append(p.subj[subject], string(data))
	return nil
}

// last is the most recent message sent to the character.
func (p *recordingPublisher) last(id int64) string {
	msgs := p.sent[id]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

// mapStore is an in-memory command store.
type mapStore map[string]*Command

func (m mapStore) Save(id string, c *Command) error { m[id] = c; return nil }
func (m mapStore) Get(id string) *Command           { return m[id] }
func (m mapStore) GetAll() map[string]*Command      { return m }

// fixture is a world with a shard, a zone and one room, and an
// administrator standing in the room's cell.
type fixture struct {
	ctx   context.Context
	w     *game.World
	pub   *recordingPublisher
	shard *game.Shard
	zone  *game.Zone
	pkg   *game.OverlayPackage
	room  *game.Room
	cell  *game.Cell
	admin *actor.Character
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(ctx, storage.DriverSQLite, filepath.Join(t.TempDir(), "world.db"))
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	w, err := game.NewWorld(db, game.WithHeartbeat(heartbeat.NewManager()))
	if err != nil {
		t.Fatalf("creating world: %v", err)
	}
	t.Cleanup(w.Stop)

	f := &fixture{ctx: ctx, w: w, pub: newRecordingPublisher()}
	if _, err := w.CreateTerrain(ctx, "grassland"); err != nil {
		t.Fatalf("creating terrain: %v", err)
	}
	if f.shard, err = w.CreateShard(ctx, "prime"); err != nil {
		t.Fatalf("creating shard: %v", err)
	}
	if f.zone, err = w.CreateZone(ctx, f.shard, "meadows", celestial.Geography{}); err != nil {
		t.Fatalf("creating zone: %v", err)
	}
	if f.pkg, err = w.CreatePackage(ctx, "initial"); err != nil {
		t.Fatalf("creating package: %v", err)
	}
	if f.room, f.cell, err = w.CreateRoom(ctx, f.zone, f.pkg, 0, 0, 0); err != nil {
		t.Fatalf("creating room: %v", err)
	}
	f.admin = f.character(t, 1, "Ann", true)
	return f
}

// character creates a character standing in the fixture's cell.
func (f *fixture) character(t *testing.T, id int64, name string, admin bool) *actor.Character {
	t.Helper()
	ch := actor.NewCharacter(&actor.Profile{ID: id, Name: name, Administrator: admin}, f.pub)
	if err := f.cell.Enter(ch); err != nil {
		t.Fatalf("entering cell: %v", err)
	}
	f.w.Characters.Add(ch)
	return ch
}

// run executes a factory's command as ch with the given config.
func (f *fixture) run(t *testing.T, factory HandlerFactory, ch *actor.Character, config map[string]string) error {
	t.Helper()
	fn, err := factory.Create()
	if err != nil {
		t.Fatalf("creating handler: %v", err)
	}
	return fn(f.ctx, &CommandContext{Actor: ch, Session: &SessionState{}, Config: config})
}

// build runs a building command taking args.
func (f *fixture) build(t *testing.T, factory HandlerFactory, args ...string) error {
	t.Helper()
	return f.run(t, factory, f.admin, map[string]string{"args": strings.Join(args, " ")})
}

func (f *fixture) mustBuild(t *testing.T, factory HandlerFactory, args ...string) string {
	t.Helper()
	if err := f.build(t, factory, args...); err != nil {
		t.Fatalf("%s: unexpected error: %v", strings.Join(args, " "), err)
	}
	return f.pub.last(f.admin.ID())
}

var _ game.Publisher = (*recordingPublisher)(nil)
var _ Publisher = (*recordingPublisher)(nil)

type stubSnapshotter struct{}

func (stubSnapshotter) Snapshot(context.Context, *game.World) (string, error) {
	return "snapshots/world.fmsnap", nil
}
