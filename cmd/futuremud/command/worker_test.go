package command

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"

	"github.com/futuremud/futuremud/internal/driver"
	"github.com/futuremud/futuremud/internal/game"
	"github.com/futuremud/futuremud/internal/heartbeat"
	"github.com/futuremud/futuremud/internal/storage"
)

type managerFunc func(context.Context) error

func (f managerFunc) Tick(ctx context.Context) error {
	return f(ctx)
}

func TestWorldWorker_Start(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := storage.Open(ctx, storage.DriverSQLite, filepath.Join(t.TempDir(), "world.db"))
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	hb := heartbeat.NewManager()
	w, err := game.NewWorld(db, game.WithHeartbeat(hb))
	if err != nil {
		t.Fatalf("creating world: %v", err)
	}

	subs := map[heartbeat.Interval]int{}
	drv := driver.NewMudDriver([]driver.Manager{managerFunc(func(context.Context) error {
		for _, i := range []heartbeat.Interval{heartbeat.OneMinute, heartbeat.TenMinutes, heartbeat.Hourly} {
			subs[i] = hb.SubscriberCount(i)
		}
		cancel()
		return nil
	})}, driver.WithTickLength(10*time.Millisecond))

	ready := make(chan struct{})
	close(ready)
	worker := &worldWorker{
		ready:  ready,
		world:  w,
		db:     db,
		hb:     hb,
		driver: drv,
		logs:   nopCloser{io.Discard},
	}
	if err := worker.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "clock subscribers", subs[heartbeat.OneMinute], 1)
	testutil.AssertEqual(t, "weather room subscribers", subs[heartbeat.TenMinutes], 1)
	testutil.AssertEqual(t, "weather subscribers", subs[heartbeat.Hourly], 1)
	testutil.AssertEqual(t, "unsubscribed on stop", hb.SubscriberCount(heartbeat.OneMinute), 0)
}
