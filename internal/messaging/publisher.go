package messaging

import "fmt"

// Broker is the piece of the NATS server the publisher needs.
type Broker interface {
	Publish(subject string, data []byte) error
}

// PlayerPublisher delivers payloads to individual player NATS channels.
type PlayerPublisher struct {
	broker Broker
}

// NewPlayerPublisher wraps a broker for per-player message delivery.
func NewPlayerPublisher(broker Broker) *PlayerPublisher {
	return &PlayerPublisher{broker: broker}
}

// Publish sends a message to a single subject.
func (p *PlayerPublisher) Publish(subject string, data []byte) error {
	return p.broker.Publish(subject, data)
}

// PublishPlayers sends the same payload to each target player's channel,
// skipping anyone in exclude. The first delivery failure is reported
// after all targets have been attempted.
func (p *PlayerPublisher) PublishPlayers(targets []string, exclude []string, data []byte) error {
	excludeSet := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		excludeSet[id] = true
	}
	var firstErr error
	for _, id := range targets {
		if excludeSet[id] {
			continue
		}
		if err := p.broker.Publish(fmt.Sprintf("player-%s", id), data); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
