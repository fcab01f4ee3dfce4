package commands

import (
	"context"

	"github.com/pixil98/go-mud-items/internal/equipment"
	"github.com/pixil98/go-mud-items/internal/item"
	"github.com/pixil98/go-mud-items/internal/player"
)

// Remove takes off whatever is worn in slotType and returns it to the
// inventory.
func (h *Handler) Remove(ctx context.Context, p *player.Player, token string, slotType string) error {
	scope, err := h.guard.AcquireContext(ctx, p.Id, token)
	if err != nil {
		return err
	}
	defer scope.Release()

	if !scope.ShouldApply {
		return nil
	}

	removed := p.Equipped[item.NormalizeSlot(slotType)]

	inv, eq, err := equipment.Unequip(p.Inventory, p.Equipped, slotType)
	if err != nil {
		scope.Forget()
		return translate(err)
	}

	next := *p
	next.Inventory = inv
	next.Equipped = eq
	if err := h.savePlayer(ctx, p, &next); err != nil {
		scope.Forget()
		return err
	}

	h.publish(playerSubject(p.Id), Event{
		Type:     EventUnequipped,
		PlayerId: p.Id,
		ItemId:   removed.ItemId,
		ItemName: removed.Name,
		Slot:     removed.SlotType,
	})
	return nil
}
