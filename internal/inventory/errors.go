package inventory

import "errors"

var (
	// ErrCapacity is returned when a mutation would push the inventory
	// past its slot limit.
	ErrCapacity = errors.New("inventory is full")

	// ErrSplit is returned when a split's index or quantity preconditions
	// do not hold.
	ErrSplit = errors.New("invalid split")
)
