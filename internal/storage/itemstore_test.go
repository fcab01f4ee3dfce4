package storage

import (
	"context"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-mud-items/internal/container"
	"github.com/pixil98/go-mud-items/internal/inventory"
	"github.com/pixil98/go-mud-items/internal/item"
	"github.com/pixil98/go-mud-items/internal/player"
)

func testChest(id string) *container.Container {
	return &container.Container{
		ContainerId:   id,
		SourceType:    container.SourceEnvironment,
		CapacitySlots: 10,
		LockState:     container.Unlocked,
		Items: []*item.Stack{{
			InstanceId: "inst-coin",
			ItemId:     "coin",
			Name:       "a gold coin",
			SlotType:   "pack",
			Quantity:   25,
		}},
	}
}

func testPlayer(id string) *player.Player {
	p := player.New(id, "Alice")
	p.Inventory.Items = []*item.Stack{{
		InstanceId: "inst-ration",
		ItemId:     "ration",
		Name:       "an iron ration",
		SlotType:   "pack",
		Quantity:   3,
	}}
	return p
}

func newFileItemStore(t *testing.T) *ItemStore {
	t.Helper()

	containers, err := NewFileStore[*container.Container](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	players, err := NewFileStore[*player.Player](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewItemStore(containers, players)
}

func TestItemStore_ContainerRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newFileItemStore(t)

	orig := testChest("chest-1")
	if err := s.CreateContainer(ctx, orig); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Creating the same id twice is rejected.
	testutil.AssertErrorContains(t, s.CreateContainer(ctx, testChest("chest-1")), "already exists")

	got, err := s.GetContainer(ctx, "chest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected the container back")
	}
	testutil.AssertEqual(t, "capacity", got.CapacitySlots, 10)
	testutil.AssertEqual(t, "items", len(got.Items), 1)

	// The returned snapshot is independent of the stored record.
	got.Items[0].Quantity = 1
	again, err := s.GetContainer(ctx, "chest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "stored quantity", again.Items[0].Quantity, 25)
}

func TestItemStore_GetContainer_Missing(t *testing.T) {
	s := newFileItemStore(t)

	got, err := s.GetContainer(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil for an absent container")
	}
}

func TestItemStore_UpdateContainer(t *testing.T) {
	ctx := context.Background()
	s := newFileItemStore(t)

	if err := s.CreateContainer(ctx, testChest("chest-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := s.UpdateContainer(ctx, "chest-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetContainer(ctx, "chest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "items emptied", len(got.Items), 0)

	testutil.AssertErrorContains(t, s.UpdateContainer(ctx, "nope", nil), "not found")
}

func TestItemStore_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	s := newFileItemStore(t)

	later := time.Now().Add(time.Hour)
	withDecay := testChest("corpse-1")
	withDecay.SourceType = container.SourceCorpse
	withDecay.DecayAt = &later

	if err := s.CreateContainer(ctx, testChest("chest-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.CreateContainer(ctx, withDecay); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := s.ListContainers(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "count", len(all), 2)

	if err := s.DeleteContainer(ctx, "corpse-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	all, err = s.ListContainers(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "count after delete", len(all), 1)
	testutil.AssertEqual(t, "survivor", all[0].ContainerId, "chest-1")
}

func TestItemStore_EnsureItemInstance(t *testing.T) {
	ctx := context.Background()
	s := newFileItemStore(t)

	st := &item.Stack{ItemId: "coin", Name: "a gold coin", SlotType: "pack", Quantity: 1}
	if err := s.EnsureItemInstance(ctx, st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.InstanceId == "" {
		t.Fatal("expected an instance id to be assigned")
	}

	// An existing id is left alone.
	before := st.InstanceId
	if err := s.EnsureItemInstance(ctx, st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "instance id stable", st.InstanceId, before)
}

func TestItemStore_SavePlayer(t *testing.T) {
	ctx := context.Background()
	s := newFileItemStore(t)

	if err := s.SavePlayer(ctx, testPlayer("alice")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Malformed records never reach disk.
	bad := player.New("", "")
	testutil.AssertErrorContains(t, s.SavePlayer(ctx, bad), "player id is required")

	overfull := testPlayer("bob")
	overfull.Inventory = inventory.New(1)
	overfull.Inventory.Items = []*item.Stack{
		{InstanceId: "a", ItemId: "a", Name: "a", SlotType: "pack", Quantity: 1},
		{InstanceId: "b", ItemId: "b", Name: "b", SlotType: "pack", Quantity: 1},
	}
	testutil.AssertErrorContains(t, s.SavePlayer(ctx, overfull), "inventory")
}
