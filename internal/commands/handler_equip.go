package commands

import (
	"context"

	"github.com/pixil98/go-mud-items/internal/equipment"
	"github.com/pixil98/go-mud-items/internal/item"
	"github.com/pixil98/go-mud-items/internal/player"
)

// Equip wears one item from the inventory slot at slotNumber. When
// targetSlot is non-empty it must match the slot type the item
// declares.
func (h *Handler) Equip(ctx context.Context, p *player.Player, token string, slotNumber int, targetSlot string) error {
	idx, err := slotIndex(slotNumber)
	if err != nil {
		return err
	}

	scope, err := h.guard.AcquireContext(ctx, p.Id, token)
	if err != nil {
		return err
	}
	defer scope.Release()

	if !scope.ShouldApply {
		// A retry of a mutation that already landed.
		return nil
	}

	inv, eq, err := equipment.Equip(p.Inventory, p.Equipped, idx, targetSlot)
	if err != nil {
		scope.Forget()
		return translate(err)
	}

	// The source stack is still in place; equipping is pure.
	worn := eq[item.NormalizeSlot(p.Inventory.Items[idx].SlotType)]

	next := *p
	next.Inventory = inv
	next.Equipped = eq
	if err := h.savePlayer(ctx, p, &next); err != nil {
		scope.Forget()
		return err
	}

	h.publish(playerSubject(p.Id), Event{
		Type:     EventEquipped,
		PlayerId: p.Id,
		ItemId:   worn.ItemId,
		ItemName: worn.Name,
		Slot:     worn.SlotType,
	})
	return nil
}
