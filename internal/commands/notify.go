package commands

import (
	"encoding/json"
	"log/slog"
)

// GroupPublisher delivers one payload to a set of player channels.
type GroupPublisher interface {
	PublishPlayers(targets []string, exclude []string, data []byte) error
}

// DecayNotifier tells the players holding a container open that it
// rotted away underneath them.
type DecayNotifier struct {
	pub GroupPublisher
}

func NewDecayNotifier(pub GroupPublisher) *DecayNotifier {
	return &DecayNotifier{pub: pub}
}

func (n *DecayNotifier) ContainerDecayed(containerId string, openers []string) {
	data, err := json.Marshal(Event{
		Type:        EventDecayed,
		ContainerId: containerId,
	})
	if err != nil {
		slog.Warn("failed to encode decay event", "container", containerId, "error", err)
		return
	}
	if err := n.pub.PublishPlayers(openers, nil, data); err != nil {
		slog.Warn("failed to publish decay event", "container", containerId, "error", err)
	}
}
