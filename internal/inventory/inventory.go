package inventory

import (
	"fmt"

	"github.com/pixil98/go-mud-items/internal/item"
)

const DefaultMaxSlots = 20

// Inventory is an ordered sequence of item stacks bounded by MaxSlots.
// Order is insertion order; commands address stacks by index. Every
// mutation returns a structurally independent copy, so a caller holding
// a stale reference never observes a half-applied change.
type Inventory struct {
	Items    []*item.Stack `json:"items"`
	MaxSlots int           `json:"max_slots,omitempty"`
}

// New creates an empty inventory. A maxSlots of 0 selects the default.
func New(maxSlots int) *Inventory {
	if maxSlots <= 0 {
		maxSlots = DefaultMaxSlots
	}
	return &Inventory{MaxSlots: maxSlots}
}

func (inv *Inventory) maxSlots() int {
	if inv.MaxSlots <= 0 {
		return DefaultMaxSlots
	}
	return inv.MaxSlots
}

// Validate satisfies storage.ValidatingSpec.
func (inv *Inventory) Validate() error {
	if len(inv.Items) > inv.maxSlots() {
		return fmt.Errorf("inventory holds %d stacks, limit is %d", len(inv.Items), inv.maxSlots())
	}
	for i, s := range inv.Items {
		if s == nil {
			return fmt.Errorf("stack %d: missing", i)
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("stack %d: %w", i, err)
		}
	}
	return nil
}

// Clone returns a deep copy of the inventory.
func (inv *Inventory) Clone() *Inventory {
	c := &Inventory{MaxSlots: inv.MaxSlots}
	if inv.Items != nil {
		c.Items = make([]*item.Stack, len(inv.Items))
		for i, s := range inv.Items {
			c.Items[i] = s.Clone()
		}
	}
	return c
}

// Find returns the index of the stack with the given instance id, or -1.
func (inv *Inventory) Find(instanceId string) int {
	for i, s := range inv.Items {
		if s.InstanceId == instanceId {
			return i
		}
	}
	return -1
}

// FindItem returns the index of the first stack with the given item id,
// or -1.
func (inv *Inventory) FindItem(itemId string) int {
	for i, s := range inv.Items {
		if s.ItemId == itemId {
			return i
		}
	}
	return -1
}

// AddStack merges incoming into the first mergeable existing stack, or
// appends a validated clone when none matches. Returns ErrCapacity when
// an append would exceed the slot limit. The receiver is never mutated.
func (inv *Inventory) AddStack(incoming *item.Stack) (*Inventory, error) {
	if incoming == nil {
		return nil, fmt.Errorf("stack is required")
	}
	if err := incoming.Validate(); err != nil {
		return nil, fmt.Errorf("validating stack: %w", err)
	}

	next := inv.Clone()
	for _, s := range next.Items {
		if item.CanMerge(s, incoming) {
			s.Quantity += incoming.Quantity
			return next, nil
		}
	}

	if len(next.Items) >= next.maxSlots() {
		return nil, fmt.Errorf("no slot for %s: %w", incoming.Name, ErrCapacity)
	}
	next.Items = append(next.Items, incoming.Clone())
	return next, nil
}

// SplitStack moves splitQuantity items out of the stack at idx into a
// new stack inserted immediately after it. The new stack carries the
// same item identity and metadata under a fresh instance id.
func (inv *Inventory) SplitStack(idx, splitQuantity int) (*Inventory, error) {
	if idx < 0 || idx >= len(inv.Items) {
		return nil, fmt.Errorf("no stack at index %d: %w", idx, ErrSplit)
	}
	src := inv.Items[idx]
	if splitQuantity <= 0 || splitQuantity >= src.Quantity {
		return nil, fmt.Errorf("cannot split %d from a stack of %d: %w", splitQuantity, src.Quantity, ErrSplit)
	}
	if len(inv.Items) >= inv.maxSlots() {
		return nil, fmt.Errorf("no slot for the split stack: %w", ErrCapacity)
	}

	next := inv.Clone()
	next.Items[idx].Quantity -= splitQuantity

	split := src.CloneWithInstance()
	split.Quantity = splitQuantity

	next.Items = append(next.Items, nil)
	copy(next.Items[idx+2:], next.Items[idx+1:])
	next.Items[idx+1] = split
	return next, nil
}

// RemoveQuantity takes qty items from the stack at idx, removing the
// stack entirely when it is exhausted. A qty of 0 takes the whole stack.
// Returns the new inventory and the removed portion as its own stack.
func (inv *Inventory) RemoveQuantity(idx, qty int) (*Inventory, *item.Stack, error) {
	if idx < 0 || idx >= len(inv.Items) {
		return nil, nil, fmt.Errorf("no stack at index %d", idx)
	}
	src := inv.Items[idx]
	if qty == 0 {
		qty = src.Quantity
	}
	if qty < 0 || qty > src.Quantity {
		return nil, nil, fmt.Errorf("cannot remove %d from a stack of %d", qty, src.Quantity)
	}

	next := inv.Clone()

	var removed *item.Stack
	if qty == src.Quantity {
		removed = src.Clone()
		next.Items = append(next.Items[:idx], next.Items[idx+1:]...)
	} else {
		// The remainder keeps the instance id; the removed portion
		// becomes a new stack.
		removed = src.CloneWithInstance()
		removed.Quantity = qty
		next.Items[idx].Quantity -= qty
	}
	return next, removed, nil
}
