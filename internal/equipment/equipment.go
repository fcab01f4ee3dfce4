package equipment

import (
	"errors"
	"fmt"

	"github.com/pixil98/go-mud-items/internal/inventory"
	"github.com/pixil98/go-mud-items/internal/item"
)

var (
	// ErrSlot is returned for an out-of-range inventory index or an
	// empty equipment slot.
	ErrSlot = errors.New("invalid slot")

	// ErrSlotMismatch is returned when the requested target slot differs
	// from the slot type the item declares.
	ErrSlotMismatch = errors.New("item does not fit that slot")

	// ErrEquipmentCapacity is returned when returning a displaced or
	// unequipped item would overflow the inventory. Distinct from the
	// generic capacity error so callers can give slot-specific messaging.
	ErrEquipmentCapacity = errors.New("no room to return equipped item")
)

// Equipped maps a normalized slot-type key to the single stack worn in
// that slot. Worn stacks always have quantity 1.
type Equipped map[string]*item.Stack

// Clone returns a deep copy of the equipped map.
func (eq Equipped) Clone() Equipped {
	c := make(Equipped, len(eq))
	for slot, s := range eq {
		c[slot] = s.Clone()
	}
	return c
}

// Validate satisfies storage.ValidatingSpec.
func (eq Equipped) Validate() error {
	for slot, s := range eq {
		if slot != item.NormalizeSlot(slot) {
			return fmt.Errorf("slot key %q is not normalized", slot)
		}
		if s == nil {
			return fmt.Errorf("slot %q: missing stack", slot)
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("slot %q: %w", slot, err)
		}
		if s.Quantity != 1 {
			return fmt.Errorf("slot %q: equipped stacks hold exactly one item, got %d", slot, s.Quantity)
		}
	}
	return nil
}

// Equip moves one item from the inventory stack at idx into the
// equipment slot the item declares. An occupant of that slot is returned
// to the inventory first; if it will not fit, the whole operation fails
// with ErrEquipmentCapacity and neither structure changes. When
// targetSlot is non-empty it must match the item's own slot type.
//
// Both inputs are left untouched; new structures are returned.
func Equip(inv *inventory.Inventory, eq Equipped, idx int, targetSlot string) (*inventory.Inventory, Equipped, error) {
	if idx < 0 || idx >= len(inv.Items) {
		return nil, nil, fmt.Errorf("no stack at index %d: %w", idx, ErrSlot)
	}

	src := inv.Items[idx]
	slot := item.NormalizeSlot(src.SlotType)
	if targetSlot != "" && item.NormalizeSlot(targetSlot) != slot {
		return nil, nil, fmt.Errorf("%s goes in %q, not %q: %w", src.Name, slot, item.NormalizeSlot(targetSlot), ErrSlotMismatch)
	}

	// One item is consumed from the source stack.
	nextInv, worn, err := inv.RemoveQuantity(idx, 1)
	if err != nil {
		return nil, nil, err
	}

	// Displace any occupant back into the reduced inventory before the
	// new item is installed, so a capacity overflow aborts cleanly.
	if occupant, ok := eq[slot]; ok {
		nextInv, err = nextInv.AddStack(occupant)
		if err != nil {
			if errors.Is(err, inventory.ErrCapacity) {
				return nil, nil, fmt.Errorf("swapping out %s: %w", occupant.Name, ErrEquipmentCapacity)
			}
			return nil, nil, err
		}
	}

	worn.Quantity = 1
	worn.SlotType = slot

	nextEq := eq.Clone()
	nextEq[slot] = worn
	return nextInv, nextEq, nil
}

// Unequip removes the occupant of slotType and merges it back into the
// inventory. On overflow it fails with ErrEquipmentCapacity and the slot
// is left as it was. An occupant with no mergeable stack left in the
// inventory comes back as an appended stack, not at the position it was
// equipped from, so equip then unequip of a quantity-1 stack from
// mid-inventory does not preserve order.
func Unequip(inv *inventory.Inventory, eq Equipped, slotType string) (*inventory.Inventory, Equipped, error) {
	slot := item.NormalizeSlot(slotType)
	occupant, ok := eq[slot]
	if !ok {
		return nil, nil, fmt.Errorf("nothing equipped in %q: %w", slot, ErrSlot)
	}

	nextInv, err := inv.AddStack(occupant)
	if err != nil {
		if errors.Is(err, inventory.ErrCapacity) {
			return nil, nil, fmt.Errorf("removing %s: %w", occupant.Name, ErrEquipmentCapacity)
		}
		return nil, nil, err
	}

	nextEq := eq.Clone()
	delete(nextEq, slot)
	return nextInv, nextEq, nil
}
