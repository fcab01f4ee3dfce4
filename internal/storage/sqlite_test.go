package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-mud-items/internal/container"
	"github.com/pixil98/go-mud-items/internal/equipment"
	"github.com/pixil98/go-mud-items/internal/item"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := OpenSQLite(filepath.Join(t.TempDir(), "items.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_ContainerRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	decay := time.Now().Add(time.Hour).Truncate(time.Second).UTC()
	orig := testChest("chest-1")
	orig.Metadata = map[string]string{container.MetaKeyItem: "skeleton-key"}
	orig.DecayAt = &decay

	if err := s.CreateContainer(ctx, orig); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetContainer(ctx, "chest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected the container back")
	}
	testutil.AssertEqual(t, "source type", got.SourceType, container.SourceEnvironment)
	testutil.AssertEqual(t, "lock state", got.LockState, container.Unlocked)
	testutil.AssertEqual(t, "capacity", got.CapacitySlots, 10)
	testutil.AssertEqual(t, "items", len(got.Items), 1)
	testutil.AssertEqual(t, "item quantity", got.Items[0].Quantity, 25)
	testutil.AssertEqual(t, "key item", got.Metadata[container.MetaKeyItem], "skeleton-key")
	if got.DecayAt == nil || !got.DecayAt.Equal(decay) {
		t.Errorf("decay_at mismatch: got %v, expected %v", got.DecayAt, decay)
	}

	missing, err := s.GetContainer(ctx, "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for an absent container")
	}
}

func TestSQLiteStore_UpdateContainer(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	if err := s.CreateContainer(ctx, testChest("chest-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := []*item.Stack{{
		InstanceId: "inst-rope",
		ItemId:     "rope",
		Name:       "a coil of rope",
		SlotType:   "pack",
		Quantity:   2,
	}}
	if err := s.UpdateContainer(ctx, "chest-1", items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetContainer(ctx, "chest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "items", len(got.Items), 1)
	testutil.AssertEqual(t, "item id", got.Items[0].ItemId, "rope")

	testutil.AssertErrorContains(t, s.UpdateContainer(ctx, "nope", items), "not found")
}

func TestSQLiteStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	if err := s.CreateContainer(ctx, testChest("chest-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.CreateContainer(ctx, testChest("chest-2")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := s.ListContainers(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "count", len(all), 2)

	if err := s.DeleteContainer(ctx, "chest-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	all, err = s.ListContainers(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "count after delete", len(all), 1)
}

func TestSQLiteStore_PlayerRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	p := testPlayer("alice")
	p.Equipped = equipment.Equipped{
		"head": {InstanceId: "inst-cap", ItemId: "cap", Name: "a leather cap", SlotType: "head", Quantity: 1},
	}

	if err := s.SavePlayer(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetPlayer(ctx, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected the player back")
	}
	testutil.AssertEqual(t, "name", got.Name, "Alice")
	testutil.AssertEqual(t, "inventory stacks", len(got.Inventory.Items), 1)
	testutil.AssertEqual(t, "equipped item", got.Equipped["head"].ItemId, "cap")

	missing, err := s.GetPlayer(ctx, "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for an absent player")
	}
}

func TestSQLiteStore_EnsureItemInstance(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	st := &item.Stack{ItemId: "coin", Name: "a gold coin", SlotType: "pack", Quantity: 1}
	if err := s.EnsureItemInstance(ctx, st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.InstanceId == "" {
		t.Fatal("expected an instance id to be assigned")
	}

	// Re-ensuring the same instance is a no-op upsert.
	if err := s.EnsureItemInstance(ctx, st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
