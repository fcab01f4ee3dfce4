package container

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-mud-items/internal/item"
)

// SourceType records what placed a container in the world.
type SourceType string

const (
	SourceEnvironment SourceType = "environment"
	SourceEquipment   SourceType = "equipment"
	SourceCorpse      SourceType = "corpse"
)

// LockState gates who may open a container. Transitions (key use, admin
// action) are driven externally; this package only reads the state.
type LockState string

const (
	Unlocked LockState = "unlocked"
	Locked   LockState = "locked"
	Sealed   LockState = "sealed"
)

const (
	MinCapacitySlots = 1
	MaxCapacitySlots = 20

	// MetaKeyItem names the metadata entry holding the item id that
	// unlocks a locked container.
	MetaKeyItem = "key_item_id"
)

// Container is shared item storage in the world: a chest, a corpse, or a
// worn backpack.
type Container struct {
	ContainerId   string            `json:"container_id"`
	SourceType    SourceType        `json:"source_type"`
	CapacitySlots int               `json:"capacity_slots"`
	LockState     LockState         `json:"lock_state"`
	Items         []*item.Stack     `json:"items"`
	Metadata      map[string]string `json:"metadata,omitempty"`

	// DecayAt, when set, is the time past which the container is swept
	// from the world (corpse rot, despawn).
	DecayAt *time.Time `json:"decay_at,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (c *Container) Validate() error {
	el := errors.NewErrorList()

	if c.ContainerId == "" {
		el.Add(fmt.Errorf("container_id is required"))
	}

	switch c.SourceType {
	case SourceEnvironment, SourceEquipment, SourceCorpse:
	default:
		el.Add(fmt.Errorf("source_type %q is invalid", c.SourceType))
	}

	switch c.LockState {
	case Unlocked, Locked, Sealed:
	default:
		el.Add(fmt.Errorf("lock_state %q is invalid", c.LockState))
	}

	if c.CapacitySlots < MinCapacitySlots || c.CapacitySlots > MaxCapacitySlots {
		el.Add(fmt.Errorf("capacity_slots must be between %d and %d, got %d", MinCapacitySlots, MaxCapacitySlots, c.CapacitySlots))
	}

	if len(c.Items) > c.CapacitySlots {
		el.Add(fmt.Errorf("container holds %d stacks, capacity is %d", len(c.Items), c.CapacitySlots))
	}
	for i, s := range c.Items {
		if s == nil {
			el.Add(fmt.Errorf("stack %d: missing", i))
			continue
		}
		if err := s.Validate(); err != nil {
			el.Add(fmt.Errorf("stack %d: %w", i, err))
		}
	}

	return el.Err()
}

// Clone returns a deep copy, used for read snapshots handed to openers.
func (c *Container) Clone() *Container {
	n := *c
	if c.Items != nil {
		n.Items = make([]*item.Stack, len(c.Items))
		for i, s := range c.Items {
			n.Items[i] = s.Clone()
		}
	}
	if c.Metadata != nil {
		n.Metadata = make(map[string]string, len(c.Metadata))
		for k, v := range c.Metadata {
			n.Metadata[k] = v
		}
	}
	if c.DecayAt != nil {
		t := *c.DecayAt
		n.DecayAt = &t
	}
	return &n
}

// Expired reports whether the container has decayed away.
func (c *Container) Expired(now time.Time) bool {
	return c.DecayAt != nil && now.After(*c.DecayAt)
}
