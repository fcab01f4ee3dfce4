package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-mud-items/internal/player"
)

// CommandSubject is where item command requests arrive on the bus.
const CommandSubject = "item-commands"

// Subscriber is the piece of the NATS server the consumer needs.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// PlayerStore loads player records for command execution.
type PlayerStore interface {
	// GetPlayer returns the player, or (nil, nil) when absent.
	GetPlayer(ctx context.Context, id string) (*player.Player, error)
}

// Request is the envelope a command arrives in. Command selects the
// operation; the other fields are read per operation.
type Request struct {
	Command       string `json:"command"`
	PlayerId      string `json:"player_id"`
	MutationToken string `json:"mutation_token,omitempty"`

	SlotNumber int    `json:"slot_number,omitempty"`
	TargetSlot string `json:"target_slot,omitempty"`
	SlotType   string `json:"slot_type,omitempty"`
	Quantity   int    `json:"quantity,omitempty"`

	ContainerId  string `json:"container_id,omitempty"`
	SessionToken string `json:"session_token,omitempty"`
	InstanceId   string `json:"instance_id,omitempty"`
	Elevated     bool   `json:"elevated,omitempty"`
}

// Consumer subscribes to the command subject and dispatches each
// request to the handler. Rejections go back to the requesting player's
// channel; system failures are logged and swallowed so one bad request
// never stops the stream.
type Consumer struct {
	handler *Handler
	players PlayerStore
	sub     Subscriber
}

func NewConsumer(handler *Handler, players PlayerStore, sub Subscriber) *Consumer {
	return &Consumer{
		handler: handler,
		players: players,
		sub:     sub,
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	unsubscribe, err := c.sub.Subscribe(CommandSubject, func(data []byte) {
		c.dispatch(ctx, data)
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", CommandSubject, err)
	}
	defer unsubscribe()

	slog.InfoContext(ctx, "command consumer running", "subject", CommandSubject)
	<-ctx.Done()
	return nil
}

func (c *Consumer) dispatch(ctx context.Context, data []byte) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		slog.Warn("failed to decode command request", "error", err)
		return
	}
	if req.PlayerId == "" {
		slog.Warn("command request without player id", "command", req.Command)
		return
	}

	p, err := c.players.GetPlayer(ctx, req.PlayerId)
	if err != nil {
		slog.Error("failed to load player", "player", req.PlayerId, "error", err)
		return
	}
	if p == nil {
		slog.Warn("command request for unknown player", "player", req.PlayerId)
		return
	}

	if err := c.execute(ctx, p, &req); err != nil {
		var userErr *UserError
		if errors.As(err, &userErr) {
			c.handler.publish(playerSubject(p.Id), Event{
				Type:     EventRejected,
				PlayerId: p.Id,
				Message:  userErr.Message,
			})
			return
		}
		slog.Error("command failed", "command", req.Command, "player", p.Id, "error", err)
	}
}

func (c *Consumer) execute(ctx context.Context, p *player.Player, req *Request) error {
	switch req.Command {
	case "equip":
		return c.handler.Equip(ctx, p, req.MutationToken, req.SlotNumber, req.TargetSlot)
	case "remove":
		return c.handler.Remove(ctx, p, req.MutationToken, req.SlotType)
	case "split":
		return c.handler.Split(ctx, p, req.MutationToken, req.SlotNumber, req.Quantity)
	case "open":
		_, token, err := c.handler.Open(ctx, p, req.ContainerId, req.Elevated)
		if err != nil {
			return err
		}
		// The opener needs the token back; it never goes on the shared
		// container channel.
		c.handler.publish(playerSubject(p.Id), Event{
			Type:         EventOpened,
			PlayerId:     p.Id,
			ContainerId:  req.ContainerId,
			SessionToken: token,
		})
		return nil
	case "close":
		return c.handler.CloseContainer(ctx, p, req.ContainerId, req.SessionToken)
	case "put":
		return c.handler.Put(ctx, p, req.MutationToken, req.ContainerId, req.SessionToken, req.InstanceId, req.Quantity)
	case "get":
		return c.handler.Get(ctx, p, req.MutationToken, req.ContainerId, req.SessionToken, req.InstanceId, req.Quantity)
	default:
		return NewUserError(fmt.Sprintf("Unknown command %q.", req.Command))
	}
}
