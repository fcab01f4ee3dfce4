package driver

import "time"

type ItemDriverOpt func(*ItemDriver)

func WithTickLength(tickLength time.Duration) ItemDriverOpt {
	return func(d *ItemDriver) {
		d.tickLength = tickLength
	}
}
