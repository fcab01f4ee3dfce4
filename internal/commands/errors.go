package commands

import (
	"errors"
	"fmt"

	"github.com/pixil98/go-mud-items/internal/container"
	"github.com/pixil98/go-mud-items/internal/equipment"
	"github.com/pixil98/go-mud-items/internal/inventory"
)

// UserError represents an error that should be displayed to the user.
// These are not system failures - just invalid input or usage.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// NewUserError creates a user-facing error.
func NewUserError(msg string) *UserError {
	return &UserError{Message: msg}
}

// translate maps engine and service error kinds onto the text players
// see. Unrecognized errors pass through untouched for the session layer
// to treat as system failures.
func translate(err error) error {
	switch {
	case errors.Is(err, inventory.ErrCapacity):
		return NewUserError("You can't carry any more.")
	case errors.Is(err, inventory.ErrSplit):
		return NewUserError("You can't split the stack like that.")
	case errors.Is(err, equipment.ErrSlotMismatch):
		return NewUserError("That doesn't fit there.")
	case errors.Is(err, equipment.ErrEquipmentCapacity):
		return NewUserError("You have no room to hold what you're wearing.")
	case errors.Is(err, equipment.ErrSlot):
		return NewUserError("There's nothing there.")
	case errors.Is(err, container.ErrNotFound):
		return NewUserError("You don't see that here.")
	case errors.Is(err, container.ErrLocked):
		return NewUserError("It's locked.")
	case errors.Is(err, container.ErrSealed):
		return NewUserError("It's sealed shut and will not budge.")
	case errors.Is(err, container.ErrAlreadyOpen):
		return NewUserError("It's already open.")
	case errors.Is(err, container.ErrNotOpen):
		return NewUserError("You haven't opened it.")
	case errors.Is(err, container.ErrInvalidToken):
		return NewUserError("Your session on that container is no longer valid.")
	case errors.Is(err, container.ErrContainerFull):
		return NewUserError("It can't hold any more.")
	case errors.Is(err, container.ErrTransfer):
		return NewUserError("You can't move that.")
	case errors.Is(err, container.ErrPersistence):
		return fmt.Errorf("persisting mutation: %w", err)
	default:
		return err
	}
}
