package commands

import (
	"context"

	"github.com/pixil98/go-mud-items/internal/player"
)

// Split breaks quantity items off the inventory stack at slotNumber
// into a new adjacent stack.
func (h *Handler) Split(ctx context.Context, p *player.Player, token string, slotNumber, quantity int) error {
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
		return nil
	}

	inv, err := p.Inventory.SplitStack(idx, quantity)
	if err != nil {
		scope.Forget()
		return translate(err)
	}

	next := *p
	next.Inventory = inv
	if err := h.savePlayer(ctx, p, &next); err != nil {
		scope.Forget()
		return err
	}

	split := inv.Items[idx+1]
	h.publish(playerSubject(p.Id), Event{
		Type:     EventSplit,
		PlayerId: p.Id,
		ItemId:   split.ItemId,
		ItemName: split.Name,
		Quantity: split.Quantity,
	})
	return nil
}
