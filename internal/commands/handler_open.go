package commands

import (
	"context"

	"github.com/pixil98/go-mud-items/internal/container"
	"github.com/pixil98/go-mud-items/internal/player"
)

// Open starts a session on a container. The returned token is the
// capability every subsequent Put/Get/Close against it requires.
func (h *Handler) Open(ctx context.Context, p *player.Player, containerId string, elevated bool) (*container.Container, string, error) {
	snap, token, err := h.containers.Open(ctx, containerId, p.Id, p.Inventory, elevated)
	if err != nil {
		return nil, "", translate(err)
	}

	h.publish(containerSubject(containerId), Event{
		Type:        EventOpened,
		PlayerId:    p.Id,
		ContainerId: containerId,
	})
	return snap, token, nil
}

// CloseContainer ends the player's session on a container.
func (h *Handler) CloseContainer(ctx context.Context, p *player.Player, containerId, sessionToken string) error {
	if err := h.containers.Close(ctx, containerId, p.Id, sessionToken); err != nil {
		return translate(err)
	}

	h.publish(containerSubject(containerId), Event{
		Type:        EventClosed,
		PlayerId:    p.Id,
		ContainerId: containerId,
	})
	return nil
}
