package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pixil98/go-mud-items/internal/container"
	"github.com/pixil98/go-mud-items/internal/item"
	"github.com/pixil98/go-mud-items/internal/player"
)

// ItemStore adapts a pair of record stores to the persistence
// collaborator the container service and command handlers consume.
type ItemStore struct {
	containers Storer[*container.Container]
	players    Storer[*player.Player]
}

func NewItemStore(containers Storer[*container.Container], players Storer[*player.Player]) *ItemStore {
	return &ItemStore{
		containers: containers,
		players:    players,
	}
}

func (s *ItemStore) GetContainer(_ context.Context, id string) (*container.Container, error) {
	c := s.containers.Get(id)
	if c == nil {
		return nil, nil
	}
	return c.Clone(), nil
}

func (s *ItemStore) CreateContainer(_ context.Context, c *container.Container) error {
	if existing := s.containers.Get(c.ContainerId); existing != nil {
		return fmt.Errorf("container %s already exists", c.ContainerId)
	}
	return s.containers.Save(c.ContainerId, c.Clone())
}

func (s *ItemStore) UpdateContainer(_ context.Context, id string, items []*item.Stack) error {
	c := s.containers.Get(id)
	if c == nil {
		return fmt.Errorf("container %s not found", id)
	}
	next := c.Clone()
	next.Items = items
	return s.containers.Save(id, next)
}

func (s *ItemStore) DeleteContainer(_ context.Context, id string) error {
	return s.containers.Delete(id)
}

func (s *ItemStore) ListContainers(_ context.Context) ([]*container.Container, error) {
	all := s.containers.GetAll()
	out := make([]*container.Container, 0, len(all))
	for _, c := range all {
		out = append(out, c.Clone())
	}
	return out, nil
}

// EnsureItemInstance assigns an instance id to stacks that lack one.
// File-backed records carry no separate instance table; identity lives
// on the stack itself.
func (s *ItemStore) EnsureItemInstance(_ context.Context, st *item.Stack) error {
	if st == nil {
		return fmt.Errorf("stack is required")
	}
	if st.InstanceId == "" {
		st.InstanceId = uuid.New().String()
	}
	return nil
}

func (s *ItemStore) SavePlayer(_ context.Context, p *player.Player) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validating player: %w", err)
	}
	return s.players.Save(p.Id, p)
}

// GetPlayer returns the player record, or (nil, nil) when absent.
func (s *ItemStore) GetPlayer(_ context.Context, id string) (*player.Player, error) {
	p := s.players.Get(id)
	if p == nil {
		return nil, nil
	}
	return p, nil
}
