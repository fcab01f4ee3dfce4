package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pixil98/go-mud-items/internal/guard"
	"github.com/pixil98/go-mud-items/internal/inventory"
	"github.com/pixil98/go-mud-items/internal/item"
	"github.com/pixil98/go-mud-items/internal/player"
)

// Service manages the open/close lifecycle of shared containers and the
// movement of stacks between them and player inventories. A container
// hands its mutation token to exactly one opener at a time, so two
// players can never interleave transfers against the same container;
// the guard keyed on the player keeps two commands from the same player
// from racing on one inventory.
type Service struct {
	store Store
	guard *guard.Guard

	// open maps container id to opener player id to the mutation token
	// issued at open. Membership changes happen under one coarse lock.
	mu   sync.Mutex
	open map[string]map[string]string

	now      func() time.Time
	notifier Notifier
}

// Notifier receives lifecycle events the service raises outside a
// command flow.
type Notifier interface {
	// ContainerDecayed fires after a decayed container is deleted;
	// openers lists the players whose sessions were dropped with it.
	ContainerDecayed(containerId string, openers []string)
}

type ServiceOpt func(*Service)

// WithNotifier registers a notifier for decay events.
func WithNotifier(n Notifier) ServiceOpt {
	return func(s *Service) {
		s.notifier = n
	}
}

func NewService(store Store, g *guard.Guard, opts ...ServiceOpt) *Service {
	s := &Service{
		store: store,
		guard: g,
		open:  make(map[string]map[string]string),
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create validates and persists a new container (world placement,
// corpse drop, wearable-container creation).
func (s *Service) Create(ctx context.Context, c *Container) (*Container, error) {
	if c.ContainerId == "" {
		c.ContainerId = uuid.New().String()
	}
	if c.LockState == "" {
		c.LockState = Unlocked
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validating container: %w", err)
	}
	for _, st := range c.Items {
		if err := s.store.EnsureItemInstance(ctx, st); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	if err := s.store.CreateContainer(ctx, c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return c.Clone(), nil
}

// Open grants the caller a live session on the container and returns a
// read snapshot plus the mutation token required by every transfer. A
// locked container opens only when the opener's inventory holds the key
// item named by its metadata, or when elevated is set. A second open
// without an intervening close fails with ErrAlreadyOpen rather than
// issuing a second live token.
func (s *Service) Open(ctx context.Context, containerId, playerId string, inv *inventory.Inventory, elevated bool) (*Container, string, error) {
	c, err := s.getContainer(ctx, containerId)
	if err != nil {
		return nil, "", err
	}

	switch c.LockState {
	case Sealed:
		return nil, "", fmt.Errorf("%s: %w", containerId, ErrSealed)
	case Locked:
		if !elevated && !holdsKey(inv, c.Metadata[MetaKeyItem]) {
			return nil, "", fmt.Errorf("%s: %w", containerId, ErrLocked)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.open[containerId]) > 0 {
		return nil, "", fmt.Errorf("%s: %w", containerId, ErrAlreadyOpen)
	}

	token := uuid.New().String()
	s.open[containerId] = map[string]string{playerId: token}

	slog.Info("container opened", "container", containerId, "player", playerId)
	return c.Clone(), token, nil
}

// Close ends the player's session on the container.
func (s *Service) Close(ctx context.Context, containerId, playerId, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	openers, ok := s.open[containerId]
	if !ok {
		return fmt.Errorf("%s: %w", containerId, ErrNotOpen)
	}
	stored, ok := openers[playerId]
	if !ok {
		return fmt.Errorf("%s: %w", containerId, ErrNotOpen)
	}
	if stored != token {
		return fmt.Errorf("%s: %w", containerId, ErrInvalidToken)
	}

	delete(openers, playerId)
	if len(openers) == 0 {
		delete(s.open, containerId)
	}

	slog.Info("container closed", "container", containerId, "player", playerId)
	return nil
}

// TransferResult is the outcome of a transfer. Inventory is the
// player's new, already-persisted inventory for the caller to adopt;
// Container is a fresh snapshot of the container after the move.
type TransferResult struct {
	Inventory *inventory.Inventory
	Container *Container
	Moved     *item.Stack

	// Duplicate is set when the mutation token identified a retry; the
	// transfer was suppressed and Inventory/Container reflect current
	// state unchanged.
	Duplicate bool
}

// TransferToContainer moves qty items of the player's inventory stack
// identified by instanceId into the container. A qty of 0 moves the
// whole stack. mutationToken, when non-empty, makes the call a safe
// no-op on retry. Both sides are persisted inside the guard scope, so
// any failure withdraws the token and the client may retry.
func (s *Service) TransferToContainer(ctx context.Context, containerId, token, mutationToken string, p *player.Player, instanceId string, qty int) (*TransferResult, error) {
	if err := s.checkSession(containerId, p.Id, token); err != nil {
		return nil, err
	}

	scope, err := s.guard.AcquireContext(ctx, p.Id, mutationToken)
	if err != nil {
		return nil, err
	}
	defer scope.Release()

	c, err := s.getContainer(ctx, containerId)
	if err != nil {
		scope.Forget()
		return nil, err
	}

	if scope.Duplicate {
		return &TransferResult{Inventory: p.Inventory.Clone(), Container: c.Clone(), Duplicate: true}, nil
	}

	if instanceId == "" {
		scope.Forget()
		return nil, fmt.Errorf("item has no instance reference: %w", ErrTransfer)
	}
	idx := p.Inventory.Find(instanceId)
	if idx < 0 {
		scope.Forget()
		return nil, fmt.Errorf("item %s is not in the inventory: %w", instanceId, ErrTransfer)
	}

	nextInv, moved, err := p.Inventory.RemoveQuantity(idx, qty)
	if err != nil {
		scope.Forget()
		return nil, fmt.Errorf("%v: %w", err, ErrTransfer)
	}

	contents := &inventory.Inventory{Items: c.Items, MaxSlots: c.CapacitySlots}
	nextContents, err := contents.AddStack(moved)
	if err != nil {
		scope.Forget()
		if errors.Is(err, inventory.ErrCapacity) {
			return nil, fmt.Errorf("%s: %w", containerId, ErrContainerFull)
		}
		return nil, err
	}

	if err := s.persist(ctx, c, moved, nextContents.Items, p, nextInv); err != nil {
		scope.Forget()
		return nil, err
	}

	next := c.Clone()
	next.Items = nextContents.Items
	return &TransferResult{Inventory: nextInv, Container: next, Moved: moved}, nil
}

// TransferFromContainer moves qty items of the container stack
// identified by instanceId into the player's inventory. A qty of 0
// moves the whole stack.
func (s *Service) TransferFromContainer(ctx context.Context, containerId, token, mutationToken string, p *player.Player, instanceId string, qty int) (*TransferResult, error) {
	if err := s.checkSession(containerId, p.Id, token); err != nil {
		return nil, err
	}

	scope, err := s.guard.AcquireContext(ctx, p.Id, mutationToken)
	if err != nil {
		return nil, err
	}
	defer scope.Release()

	c, err := s.getContainer(ctx, containerId)
	if err != nil {
		scope.Forget()
		return nil, err
	}

	if scope.Duplicate {
		return &TransferResult{Inventory: p.Inventory.Clone(), Container: c.Clone(), Duplicate: true}, nil
	}

	if instanceId == "" {
		scope.Forget()
		return nil, fmt.Errorf("item has no instance reference: %w", ErrTransfer)
	}

	contents := &inventory.Inventory{Items: c.Items, MaxSlots: c.CapacitySlots}
	idx := contents.Find(instanceId)
	if idx < 0 {
		scope.Forget()
		return nil, fmt.Errorf("item %s is not in the container: %w", instanceId, ErrTransfer)
	}

	nextContents, moved, err := contents.RemoveQuantity(idx, qty)
	if err != nil {
		scope.Forget()
		return nil, fmt.Errorf("%v: %w", err, ErrTransfer)
	}

	nextInv, err := p.Inventory.AddStack(moved)
	if err != nil {
		scope.Forget()
		return nil, err
	}

	if err := s.persist(ctx, c, moved, nextContents.Items, p, nextInv); err != nil {
		scope.Forget()
		return nil, err
	}

	next := c.Clone()
	next.Items = nextContents.Items
	return &TransferResult{Inventory: nextInv, Container: next, Moved: moved}, nil
}

// Tick sweeps decayed containers out of the store and drops any open
// sessions they still had.
func (s *Service) Tick(ctx context.Context) error {
	containers, err := s.store.ListContainers(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	now := s.now()
	for _, c := range containers {
		if !c.Expired(now) {
			continue
		}
		if err := s.store.DeleteContainer(ctx, c.ContainerId); err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}

		s.mu.Lock()
		var openers []string
		for playerId := range s.open[c.ContainerId] {
			openers = append(openers, playerId)
		}
		delete(s.open, c.ContainerId)
		s.mu.Unlock()

		if s.notifier != nil {
			s.notifier.ContainerDecayed(c.ContainerId, openers)
		}

		slog.Info("container decayed", "container", c.ContainerId, "source", c.SourceType)
	}
	return nil
}

func (s *Service) checkSession(containerId, playerId, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.open[containerId][playerId]
	if !ok {
		return fmt.Errorf("%s: %w", containerId, ErrNotOpen)
	}
	if stored != token {
		return fmt.Errorf("%s: %w", containerId, ErrInvalidToken)
	}
	return nil
}

func (s *Service) getContainer(ctx context.Context, id string) (*Container, error) {
	c, err := s.store.GetContainer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if c == nil || c.Expired(s.now()) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return c, nil
}

// persist writes both sides of a completed transfer: the player record
// first, then the container's new item sequence. The store offers
// single-entity atomicity only; a container-write failure after the
// player save leaves the two records briefly disagreeing about the
// moved stack, and the withdrawn token lets the client retry.
func (s *Service) persist(ctx context.Context, c *Container, moved *item.Stack, items []*item.Stack, p *player.Player, inv *inventory.Inventory) error {
	if err := s.store.EnsureItemInstance(ctx, moved); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	next := *p
	next.Inventory = inv
	if err := s.store.SavePlayer(ctx, &next); err != nil {
		return fmt.Errorf("%w: saving player %s: %v", ErrPersistence, p.Id, err)
	}

	if err := s.store.UpdateContainer(ctx, c.ContainerId, items); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// holdsKey reports whether the inventory carries the key item. An empty
// keyItemId never matches; such a lock only yields to elevation.
func holdsKey(inv *inventory.Inventory, keyItemId string) bool {
	if inv == nil || keyItemId == "" {
		return false
	}
	return inv.FindItem(keyItemId) >= 0
}
