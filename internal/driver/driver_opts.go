package driver

import "time"

type MudDriverOpt func(*MudDriver)

// WithTickLength sets the loop period. Non-positive lengths keep the default.
func WithTickLength(tickLength time.Duration) MudDriverOpt {
	return func(d *MudDriver) {
		if tickLength > 0 {
			d.tickLength = tickLength
		}
	}
}
