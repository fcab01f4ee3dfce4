package player

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-mud-items/internal/equipment"
	"github.com/pixil98/go-mud-items/internal/inventory"
)

// Player is the persisted record of a player's carried and worn items.
// Either structure is only replaced inside a guard scope keyed by Id;
// the engines hand back fresh copies that land here just before the
// record is saved.
type Player struct {
	Id        string               `json:"id"`
	Name      string               `json:"name"`
	Inventory *inventory.Inventory `json:"inventory,omitempty"`
	Equipped  equipment.Equipped   `json:"equipped,omitempty"`
}

func New(id, name string) *Player {
	return &Player{
		Id:        id,
		Name:      name,
		Inventory: inventory.New(0),
		Equipped:  equipment.Equipped{},
	}
}

// Validate satisfies storage.ValidatingSpec. The persisted shape is
// enforced on every read, independent of the storage encoding.
func (p *Player) Validate() error {
	el := errors.NewErrorList()

	if p.Id == "" {
		el.Add(fmt.Errorf("player id is required"))
	}
	if p.Name == "" {
		el.Add(fmt.Errorf("player name is required"))
	}
	if p.Inventory != nil {
		if err := p.Inventory.Validate(); err != nil {
			el.Add(fmt.Errorf("inventory: %w", err))
		}
	}
	if err := p.Equipped.Validate(); err != nil {
		el.Add(fmt.Errorf("equipped: %w", err))
	}

	return el.Err()
}
