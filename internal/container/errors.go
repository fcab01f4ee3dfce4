package container

import "errors"

var (
	ErrNotFound    = errors.New("container not found")
	ErrLocked      = errors.New("container is locked")
	ErrSealed      = errors.New("container is sealed")
	ErrAlreadyOpen = errors.New("container is already open")
	ErrNotOpen     = errors.New("container is not open")

	// ErrInvalidToken is returned when a presented mutation token does
	// not match the one issued at open.
	ErrInvalidToken = errors.New("invalid mutation token")

	// ErrTransfer is returned for a transfer whose quantity or item
	// reference is unusable.
	ErrTransfer = errors.New("invalid transfer")

	// ErrContainerFull is returned when a transfer into a container
	// would exceed its capacity. Distinct from the inventory capacity
	// error so callers can say which side ran out of room.
	ErrContainerFull = errors.New("container is full")

	// ErrPersistence wraps failures from the persistence collaborator.
	ErrPersistence = errors.New("persistence failure")
)
