package driver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

type countingManager struct {
	ticks int
	err   error
}

func (m *countingManager) Tick(context.Context) error {
	m.ticks++
	return m.err
}

func TestMudDriver_Tick(t *testing.T) {
	tests := map[string]struct {
		managers  []*countingManager
		wantTicks []int
		expErr    string
	}{
		"all managers tick": {
			managers:  []*countingManager{{}, {}},
			wantTicks: []int{1, 1},
		},
		"error stops later managers": {
			managers:  []*countingManager{{err: errors.New("boom")}, {}},
			wantTicks: []int{1, 0},
			expErr:    "boom",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ms := make([]Manager, len(tt.managers))
			for i, m := range tt.managers {
				ms[i] = m
			}
			d := NewMudDriver(ms)
			err := d.Tick(context.Background())
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for i, m := range tt.managers {
				testutil.AssertEqual(t, "ticks", m.ticks, tt.wantTicks[i])
			}
			testutil.AssertEqual(t, "driver ticks", d.Ticks(), uint64(1))
		})
	}
}

func TestMudDriver_StartStopsOnCancel(t *testing.T) {
	m := &countingManager{}
	d := NewMudDriver([]Manager{m}, WithTickLength(time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ticks == 0 {
		t.Errorf("expected at least one tick")
	}
}
