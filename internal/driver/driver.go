package driver

import (
	"context"
	"time"
)

const (
	DefaultTickLength = time.Second * 30
)

// Manager is a component with periodic upkeep work, such as the
// container decay sweep.
type Manager interface {
	Tick(context.Context) error
}

// ItemDriver runs each manager's Tick on a fixed cadence until its
// context is cancelled.
type ItemDriver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewItemDriver(managers []Manager, opts ...ItemDriverOpt) *ItemDriver {
	d := &ItemDriver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *ItemDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

func (d *ItemDriver) Tick(ctx context.Context) error {
	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}
