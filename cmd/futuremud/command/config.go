package command

import (
	"fmt"
	"os"
	"time"

	"github.com/pixil98/go-errors"
)

type Config struct {
	TickInterval  string           `json:"tick_interval"`
	FlushInterval string           `json:"flush_interval"`
	TuningPath    string           `json:"tuning_path,omitempty"`
	Welcome       string           `json:"welcome,omitempty"`
	Log           LogConfig        `json:"log"`
	Listeners     []ListenerConfig `json:"listeners"`
	Storage       StorageConfig    `json:"storage"`
	Nats          NatsConfig       `json:"nats"`
	Snapshots     SnapshotConfig   `json:"snapshots"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		el.Add(fmt.Errorf("parsing tick_interval: %w", err))
	} else if d < 10*time.Millisecond {
		el.Add(fmt.Errorf("tick_interval must be at least 10ms"))
	}

	if c.FlushInterval != "" {
		if _, err := time.ParseDuration(c.FlushInterval); err != nil {
			el.Add(fmt.Errorf("parsing flush_interval: %w", err))
		}
	}

	if c.TuningPath != "" {
		if _, err := os.Stat(c.TuningPath); err != nil {
			el.Add(fmt.Errorf("invalid tuning_path %q: %w", c.TuningPath, err))
		}
	}

	if len(c.Listeners) == 0 {
		el.Add(fmt.Errorf("at least one listener is required"))
	}
	for i, l := range c.Listeners {
		err := l.validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Log.validate())
	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Snapshots.validate())

	return el.Err()
}

func (c *Config) tickInterval() time.Duration {
	d, _ := time.ParseDuration(c.TickInterval)
	return d
}

func (c *Config) flushInterval() time.Duration {
	d, _ := time.ParseDuration(c.FlushInterval)
	return d
}
