package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

// SnapshotConfig controls where world snapshots go and how often backups
// are taken. An empty interval writes snapshots only on demand.
type SnapshotConfig struct {
	Path     string `json:"path"`
	Interval string `json:"interval,omitempty"`
	Keep     int    `json:"keep,omitempty"`
}

func (c *SnapshotConfig) validate() error {
	el := errors.NewErrorList()

	if c.Path == "" {
		el.Add(fmt.Errorf("snapshots: path is required"))
	}
	if c.Interval != "" {
		if d, err := time.ParseDuration(c.Interval); err != nil {
			el.Add(fmt.Errorf("snapshots: parsing interval: %w", err))
		} else if d < time.Minute {
			el.Add(fmt.Errorf("snapshots: interval must be at least 1 minute"))
		}
	}
	if c.Keep < 0 {
		el.Add(fmt.Errorf("snapshots: keep must not be negative"))
	}

	return el.Err()
}

func (c *SnapshotConfig) interval() time.Duration {
	d, _ := time.ParseDuration(c.Interval)
	return d
}
