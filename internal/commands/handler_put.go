package commands

import (
	"context"

	"github.com/pixil98/go-mud-items/internal/player"
)

// Put moves quantity items of the inventory stack identified by
// instanceId into an open container. A quantity of 0 moves the whole
// stack. The service persists both sides before returning.
func (h *Handler) Put(ctx context.Context, p *player.Player, token, containerId, sessionToken, instanceId string, quantity int) error {
	res, err := h.containers.TransferToContainer(ctx, containerId, sessionToken, token, p, instanceId, quantity)
	if err != nil {
		return translate(err)
	}
	if res.Duplicate {
		return nil
	}
	p.Inventory = res.Inventory

	h.publish(containerSubject(containerId), Event{
		Type:        EventStored,
		PlayerId:    p.Id,
		ContainerId: containerId,
		ItemId:      res.Moved.ItemId,
		ItemName:    res.Moved.Name,
		Quantity:    res.Moved.Quantity,
	})
	return nil
}
