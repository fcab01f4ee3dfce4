package commands

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-mud-items/internal/container"
	"github.com/pixil98/go-mud-items/internal/player"
)

func testOpenableChest(id string) *container.Container {
	return &container.Container{
		ContainerId:   id,
		SourceType:    container.SourceEnvironment,
		CapacitySlots: 10,
		LockState:     container.Unlocked,
	}
}

type fakePlayerStore struct {
	players map[string]*player.Player
}

func (f *fakePlayerStore) GetPlayer(_ context.Context, id string) (*player.Player, error) {
	return f.players[id], nil
}

func request(t *testing.T, req Request) []byte {
	t.Helper()
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return data
}

func TestConsumer_Dispatch(t *testing.T) {
	ctx := context.Background()
	h, _, pub := newTestHandler()
	p := testPlayer(stack("lantern", "left_hand", 1))
	c := NewConsumer(h, &fakePlayerStore{players: map[string]*player.Player{"alice": p}}, nil)

	c.dispatch(ctx, request(t, Request{
		Command:       "equip",
		PlayerId:      "alice",
		MutationToken: "mut-1",
		SlotNumber:    1,
	}))

	testutil.AssertEqual(t, "worn item", p.Equipped["left_hand"].ItemId, "lantern")
	testutil.AssertEqual(t, "event type", pub.events["player-alice"][0].Type, EventEquipped)
}

func TestConsumer_RejectionGoesToPlayer(t *testing.T) {
	ctx := context.Background()
	h, _, pub := newTestHandler()
	p := testPlayer()
	c := NewConsumer(h, &fakePlayerStore{players: map[string]*player.Player{"alice": p}}, nil)

	c.dispatch(ctx, request(t, Request{
		Command:  "remove",
		PlayerId: "alice",
		SlotType: "head",
	}))

	events := pub.events["player-alice"]
	testutil.AssertEqual(t, "events", len(events), 1)
	testutil.AssertEqual(t, "event type", events[0].Type, EventRejected)
	testutil.AssertEqual(t, "message", events[0].Message, "There's nothing there.")
}

func TestConsumer_UnknownPlayerDropped(t *testing.T) {
	ctx := context.Background()
	h, store, pub := newTestHandler()
	c := NewConsumer(h, &fakePlayerStore{}, nil)

	c.dispatch(ctx, request(t, Request{
		Command:    "equip",
		PlayerId:   "ghost",
		SlotNumber: 1,
	}))

	testutil.AssertEqual(t, "saves", store.saves, 0)
	testutil.AssertEqual(t, "events", len(pub.events), 0)
}

func TestConsumer_OpenReturnsTokenPrivately(t *testing.T) {
	ctx := context.Background()
	chest := testOpenableChest("chest-1")
	h, _, pub := newTestHandler(chest)
	p := testPlayer()
	c := NewConsumer(h, &fakePlayerStore{players: map[string]*player.Player{"alice": p}}, nil)

	c.dispatch(ctx, request(t, Request{
		Command:     "open",
		PlayerId:    "alice",
		ContainerId: "chest-1",
	}))

	// The shared container channel announces the open without the token.
	shared := pub.events["container-chest-1"]
	testutil.AssertEqual(t, "shared events", len(shared), 1)
	testutil.AssertEqual(t, "shared token", shared[0].SessionToken, "")

	// The opener's own channel carries it.
	private := pub.events["player-alice"]
	testutil.AssertEqual(t, "private events", len(private), 1)
	if private[0].SessionToken == "" {
		t.Fatal("expected a session token")
	}
}
