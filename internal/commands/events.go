package commands

import "fmt"

const (
	EventEquipped    = "equipped"
	EventUnequipped  = "unequipped"
	EventSplit       = "split"
	EventOpened      = "container_opened"
	EventClosed      = "container_closed"
	EventStored      = "item_stored"
	EventTaken       = "item_taken"
	EventDecayed     = "container_decayed"
	EventRejected    = "command_rejected"
)

// Event is the record broadcast to observers after a mutation lands.
type Event struct {
	Type        string `json:"type"`
	PlayerId    string `json:"player_id"`
	ContainerId string `json:"container_id,omitempty"`
	ItemId      string `json:"item_id,omitempty"`
	ItemName    string `json:"item_name,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`
	Slot        string `json:"slot,omitempty"`
	Message     string `json:"message,omitempty"`

	// SessionToken is set only on the private copy of a container_opened
	// event sent to the opener.
	SessionToken string `json:"session_token,omitempty"`
}

func playerSubject(playerId string) string {
	return fmt.Sprintf("player-%s", playerId)
}

func containerSubject(containerId string) string {
	return fmt.Sprintf("container-%s", containerId)
}
