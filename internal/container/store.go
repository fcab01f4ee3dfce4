package container

import (
	"context"

	"github.com/pixil98/go-mud-items/internal/item"
	"github.com/pixil98/go-mud-items/internal/player"
)

// Store is the persistence collaborator this core requires. Calls are
// assumed atomic at single-entity granularity; no cross-entity
// transactions are provided or expected.
type Store interface {
	// GetContainer returns the container, or (nil, nil) when absent.
	GetContainer(ctx context.Context, id string) (*Container, error)

	CreateContainer(ctx context.Context, c *Container) error

	// UpdateContainer replaces the container's item sequence.
	UpdateContainer(ctx context.Context, id string, items []*item.Stack) error

	DeleteContainer(ctx context.Context, id string) error

	// ListContainers returns all known containers, for the decay sweep.
	ListContainers(ctx context.Context) ([]*Container, error)

	// EnsureItemInstance performs referential bookkeeping for a stack,
	// assigning an instance id when it has none.
	EnsureItemInstance(ctx context.Context, s *item.Stack) error

	SavePlayer(ctx context.Context, p *player.Player) error
}
