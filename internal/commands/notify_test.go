package commands

import (
	"encoding/json"
	"testing"

	"github.com/pixil98/go-testutil"
)

type fakeGroupPublisher struct {
	targets []string
	data    []byte
}

func (f *fakeGroupPublisher) PublishPlayers(targets []string, _ []string, data []byte) error {
	f.targets = targets
	f.data = data
	return nil
}

func TestDecayNotifier(t *testing.T) {
	pub := &fakeGroupPublisher{}
	n := NewDecayNotifier(pub)

	n.ContainerDecayed("corpse-1", []string{"alice", "bob"})

	testutil.AssertEqual(t, "targets", len(pub.targets), 2)

	var ev Event
	if err := json.Unmarshal(pub.data, &ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "type", ev.Type, EventDecayed)
	testutil.AssertEqual(t, "container", ev.ContainerId, "corpse-1")
}
