package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-mud-items/internal/container"
	"github.com/pixil98/go-mud-items/internal/guard"
	"github.com/pixil98/go-mud-items/internal/player"
)

// Publisher provides the ability to publish messages to subjects
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Handler executes parsed item commands against a player's state. Every
// mutating entry point takes an optional client-supplied mutation token;
// a retried token within the guard's TTL window is a safe no-op. Slot
// numbers at this boundary are 1-based, matching what players type.
type Handler struct {
	guard      *guard.Guard
	containers *container.Service
	store      container.Store
	pub        Publisher
}

func NewHandler(g *guard.Guard, containers *container.Service, store container.Store, pub Publisher) *Handler {
	return &Handler{
		guard:      g,
		containers: containers,
		store:      store,
		pub:        pub,
	}
}

// savePlayer persists the mutated inventory/equipment without touching
// the caller's record until the write sticks.
func (h *Handler) savePlayer(ctx context.Context, p *player.Player, next *player.Player) error {
	if err := h.store.SavePlayer(ctx, next); err != nil {
		return fmt.Errorf("saving player %s: %w", p.Id, err)
	}
	p.Inventory = next.Inventory
	p.Equipped = next.Equipped
	return nil
}

func (h *Handler) publish(subject string, ev Event) {
	if h.pub == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("failed to encode event", "type", ev.Type, "error", err)
		return
	}
	if err := h.pub.Publish(subject, data); err != nil {
		slog.Warn("failed to publish event", "subject", subject, "type", ev.Type, "error", err)
	}
}

// slotIndex converts a player-facing 1-based slot number to the
// internal index.
func slotIndex(number int) (int, error) {
	if number < 1 {
		return 0, NewUserError(fmt.Sprintf("There is no slot %d.", number))
	}
	return number - 1, nil
}
