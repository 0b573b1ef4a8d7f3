package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pixil98/go-service"

	"github.com/futuremud/futuremud/internal/actor"
	"github.com/futuremud/futuremud/internal/commands"
	"github.com/futuremud/futuremud/internal/driver"
	"github.com/futuremud/futuremud/internal/game"
	"github.com/futuremud/futuremud/internal/heartbeat"
	"github.com/futuremud/futuremud/internal/listener"
	"github.com/futuremud/futuremud/internal/messaging"
	"github.com/futuremud/futuremud/internal/session"
	"github.com/futuremud/futuremud/internal/snapshot"
	"github.com/futuremud/futuremud/internal/storage"
	"github.com/futuremud/futuremud/internal/tuning"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}
	ctx := context.Background()

	logs, err := cfg.Log.install()
	if err != nil {
		return nil, fmt.Errorf("setting up logging: %w", err)
	}

	t := tuning.Default()
	if cfg.TuningPath != "" {
		t, err = tuning.Load(cfg.TuningPath)
		if err != nil {
			return nil, fmt.Errorf("loading tuning: %w", err)
		}
	}

	// Messaging
	ns, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	pub := messaging.NewNatsPublisher(ns)

	// World
	db, err := cfg.Storage.openDB(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	hb := heartbeat.NewManager()
	opts := []game.WorldOpt{
		game.WithTuning(t),
		game.WithHeartbeat(hb),
		game.WithPublisher(pub),
	}
	if d := cfg.flushInterval(); d > 0 {
		opts = append(opts, game.WithFlushInterval(d))
	}
	world, err := game.NewWorld(db, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating world: %w", err)
	}
	data, err := db.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading world: %w", err)
	}
	if err := world.Load(ctx, data, actor.ItemFromRecord); err != nil {
		return nil, fmt.Errorf("loading world: %w", err)
	}

	starts, err := cfg.Storage.StartLocations.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating start location store: %w", err)
	}
	if err := bootstrap(ctx, world, starts); err != nil {
		return nil, fmt.Errorf("bootstrapping world: %w", err)
	}

	// Commands
	cmdStore, err := cfg.Storage.Commands.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating command store: %w", err)
	}
	cmds := commands.NewHandler(cmdStore)
	snaps := snapshot.NewWriter(cfg.Snapshots.Path)
	if err := cmds.RegisterDefaults(world, pub, snaps); err != nil {
		return nil, fmt.Errorf("registering command handlers: %w", err)
	}
	if err := cmds.CompileAll(); err != nil {
		return nil, fmt.Errorf("compiling commands: %w", err)
	}

	// Sessions
	profiles, err := cfg.Storage.Profiles.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating profile store: %w", err)
	}
	var sessionOpts []session.ManagerOpt
	if cfg.Welcome != "" {
		sessionOpts = append(sessionOpts, session.WithWelcome(cfg.Welcome))
	}
	sessions := session.NewManager(world, cmds, profiles, storage.NewSelectableStorer[*actor.StartLocation](starts), ns, pub, sessionOpts...)
	cm := listener.NewConnectionManager(sessions)

	// Create Listeners
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		lw, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = lw
	}

	// Setup the mud driver
	managers := []driver.Manager{world}
	if d := cfg.Snapshots.interval(); d > 0 {
		managers = append(managers, snapshot.NewScheduler(world, snaps, d, cfg.Snapshots.Keep))
	}
	drv := driver.NewMudDriver(managers, driver.WithTickLength(cfg.tickInterval()))

	return service.WorkerList{
		"nats": ns,
		"driver": &worldWorker{
			ready:  ns.Ready(),
			world:  world,
			db:     db,
			hb:     hb,
			driver: drv,
			logs:   logs,
		},
		"listeners": &afterReady{ready: ns.Ready(), next: &listeners},
	}, nil
}

// worldWorker runs the game loop and saves the world when it stops.
type worldWorker struct {
	ready  <-chan struct{}
	world  *game.World
	db     *storage.DB
	hb     *heartbeat.Manager
	driver *driver.MudDriver
	logs   io.Closer
}

func (w *worldWorker) Start(ctx context.Context) error {
	defer w.close()

	select {
	case <-ctx.Done():
		return nil
	case <-w.ready:
	}

	w.world.Start()
	w.hb.Start()
	defer w.hb.Stop()

	if err := w.driver.Start(ctx); err != nil {
		return fmt.Errorf("running driver: %w", err)
	}
	return nil
}

func (w *worldWorker) close() {
	ctx := context.Background()
	err := w.world.Do(func() error {
		return w.world.Saves.Flush(ctx)
	})
	if err != nil {
		slog.ErrorContext(ctx, "saving world on shutdown", "error", err)
	}
	w.world.Stop()
	if err := w.db.Close(); err != nil {
		slog.ErrorContext(ctx, "closing database", "error", err)
	}
	slog.InfoContext(ctx, "world stopped")
	_ = w.logs.Close()
}

// afterReady starts next once ready is closed.
type afterReady struct {
	ready <-chan struct{}
	next  service.Worker
}

func (a *afterReady) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-a.ready:
	}
	return a.next.Start(ctx)
}
