package item

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pixil98/go-errors"
)

// Stack is a quantity of identical items occupying one inventory or
// container slot. Quantity is always positive; a stack that would reach
// zero is removed rather than kept around empty.
type Stack struct {
	// InstanceId uniquely identifies this stack across moves between
	// inventories and containers.
	InstanceId string `json:"instance_id,omitempty"`

	// ItemId references the item definition (e.g., "millbrook-lantern").
	ItemId string `json:"item_id"`

	// Name is the display name used in messages.
	Name string `json:"item_name"`

	// SlotType is the equipment slot this item occupies when worn
	// (e.g., "left_hand", "head").
	SlotType string `json:"slot_type"`

	Quantity int `json:"quantity"`

	// Metadata holds per-stack variations (enchantments, customization).
	// Stacks with differing metadata never merge.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NormalizeSlot canonicalizes a slot key for comparison and map access.
func NormalizeSlot(slot string) string {
	return strings.ToLower(strings.TrimSpace(slot))
}

// Validate satisfies storage.ValidatingSpec.
func (s *Stack) Validate() error {
	el := errors.NewErrorList()

	if s.ItemId == "" {
		el.Add(fmt.Errorf("item_id is required"))
	}
	if s.Name == "" {
		el.Add(fmt.Errorf("item_name is required"))
	}
	if s.SlotType == "" {
		el.Add(fmt.Errorf("slot_type is required"))
	}
	if s.Quantity <= 0 {
		el.Add(fmt.Errorf("quantity must be a positive integer, got %d", s.Quantity))
	}
	for k := range s.Metadata {
		if k == "" {
			el.Add(fmt.Errorf("metadata contains an empty key"))
		}
	}

	return el.Err()
}

// Clone returns a deep copy of the stack. The copy keeps the same
// instance identity.
func (s *Stack) Clone() *Stack {
	c := *s
	c.SlotType = NormalizeSlot(s.SlotType)
	if s.Metadata != nil {
		c.Metadata = make(map[string]string, len(s.Metadata))
		for k, v := range s.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

// CloneWithInstance returns a deep copy carrying a fresh instance id.
// Used when a split or transfer creates a new stack from an existing one.
func (s *Stack) CloneWithInstance() *Stack {
	c := s.Clone()
	c.InstanceId = uuid.New().String()
	return c
}

// CanMerge reports whether two stacks hold the same kind of item and may
// be combined into one slot. Item id, slot type, and normalized metadata
// must all match.
func CanMerge(a, b *Stack) bool {
	if a == nil || b == nil {
		return false
	}
	if a.ItemId != b.ItemId {
		return false
	}
	if NormalizeSlot(a.SlotType) != NormalizeSlot(b.SlotType) {
		return false
	}
	return metadataKey(a.Metadata) == metadataKey(b.Metadata)
}

// metadataKey renders metadata in a key-sorted canonical form so maps
// with the same contents compare equal regardless of insertion order.
func metadataKey(m map[string]string) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(m[k])
		b.WriteByte(';')
	}
	return b.String()
}
