package main

import (
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

func newTestGateway() (*RoomDirectory, *Gateway) {
	directory := NewRoomDirectory()
	return directory, NewGateway(directory)
}

func TestJoinAcknowledgesWithLobbyState(t *testing.T) {
	_, gw := newTestGateway()
	c := &mockBroadcaster{}

	room := gw.HandleJoin("p1", c, "Ace", "ship1", 0)
	if room == nil {
		t.Fatal("join failed")
	}

	env, ok := c.lastOfType(MsgLobbyState)
	if !ok {
		t.Fatal("joiner did not receive the lobby snapshot")
	}
	state := env.Data.(LobbyStateMsg)
	if state.RoomID != room.ID {
		t.Fatalf("lobby snapshot for room %s, joined %s", state.RoomID, room.ID)
	}
	if len(state.Players) != 1 {
		t.Fatalf("lobby snapshot has %d players, want 1", len(state.Players))
	}
	if state.LobbyEndTime <= time.Now().UnixMilli() {
		t.Fatal("lobby deadline not in the future")
	}
}

func TestEmptyNameGetsGenerated(t *testing.T) {
	_, gw := newTestGateway()
	room := gw.HandleJoin("p1", &mockBroadcaster{}, "", "ship1", 0)
	p, _ := room.GetPlayer("p1")
	if p.Name == "" {
		t.Fatal("empty join name was not replaced")
	}
}

func TestJoinedBroadcastExcludesJoiner(t *testing.T) {
	_, gw := newTestGateway()
	a := &mockBroadcaster{}
	b := &mockBroadcaster{}

	gw.HandleJoin("p1", a, "A", "ship1", 0)
	gw.HandleJoin("p2", b, "B", "ship1", 0)

	if a.countType(MsgJoined) != 1 {
		t.Fatalf("existing member saw %d joined events, want 1", a.countType(MsgJoined))
	}
	if b.countType(MsgJoined) != 0 {
		t.Fatal("joiner received its own joined event")
	}
}

func TestFullRoomStartsMatchOnce(t *testing.T) {
	_, gw := newTestGateway()
	mocks := make([]*mockBroadcaster, MaxPlayersPerRoom)
	var room *Room
	for i := range mocks {
		mocks[i] = &mockBroadcaster{}
		room = gw.HandleJoin(GenerateID(4), mocks[i], "P", "ship1", 0)
	}

	if room.IsAvailable() {
		t.Fatal("room still open after filling")
	}
	for i, m := range mocks {
		if got := m.countType(MsgMatchStart); got != 1 {
			t.Fatalf("member %d saw %d matchStart events, want 1", i, got)
		}
	}

	// Give the suppressed lobby timer a chance to misfire.
	time.Sleep(20 * time.Millisecond)
	if mocks[0].countType(MsgMatchStart) != 1 {
		t.Fatal("matchStart duplicated after fill")
	}
}

func TestFifthJoinLandsInNewRoom(t *testing.T) {
	_, gw := newTestGateway()
	first := gw.HandleJoin(GenerateID(4), &mockBroadcaster{}, "P", "ship1", 0)
	for i := 1; i < MaxPlayersPerRoom; i++ {
		r := gw.HandleJoin(GenerateID(4), &mockBroadcaster{}, "P", "ship1", 0)
		if r.ID != first.ID {
			t.Fatalf("join %d routed to a different room", i)
		}
	}
	second := gw.HandleJoin("p5", &mockBroadcaster{}, "P", "ship1", 0)
	if second == nil {
		t.Fatal("overflow join failed")
	}
	if second.ID == first.ID {
		t.Fatal("overflow join landed in the full room")
	}
}

func TestDisconnectDeletesEmptyRoom(t *testing.T) {
	dir, gw := newTestGateway()
	room := gw.HandleJoin("p1", &mockBroadcaster{}, "A", "ship1", 0)

	gw.HandleDisconnect("p1", room.ID)
	if dir.RoomCount() != 0 {
		t.Fatalf("%d rooms remain after the last member left", dir.RoomCount())
	}
}

func TestDisconnectNotifiesRemaining(t *testing.T) {
	dir, gw := newTestGateway()
	a := &mockBroadcaster{}
	room := gw.HandleJoin("p1", a, "A", "ship1", 0)
	gw.HandleJoin("p2", &mockBroadcaster{}, "B", "ship1", 0)

	gw.HandleDisconnect("p2", room.ID)

	env, ok := a.lastOfType(MsgLeft)
	if !ok {
		t.Fatal("remaining member not notified of the leave")
	}
	if env.Data.(string) != "p2" {
		t.Fatalf("left event names %v, want p2", env.Data)
	}
	if dir.RoomCount() != 1 {
		t.Fatal("room deleted while members remain")
	}
	if room.PlayerCount() != 1 {
		t.Fatalf("roster size %d after leave, want 1", room.PlayerCount())
	}
}

func TestDisconnectUnknownRoomIsNoOp(t *testing.T) {
	_, gw := newTestGateway()
	gw.HandleDisconnect("p1", "no-such-room")
}

func TestHandleMoveStampsSequence(t *testing.T) {
	_, gw := newTestGateway()
	room := gw.HandleJoin("p1", &mockBroadcaster{}, "A", "ship1", 0)

	gw.HandleMove("p1", MoveMsg{RoomID: room.ID, Direction: DirLeft, SeqNumber: 42})
	p, _ := room.GetPlayer("p1")
	if p.SeqNumber != 42 {
		t.Fatalf("sequence number %d, want 42", p.SeqNumber)
	}
}

func TestHandleFireUsesShooterColor(t *testing.T) {
	_, gw := newTestGateway()
	room := gw.HandleJoin("p1", &mockBroadcaster{}, "A", "ship1", 0)
	room.CloseLobby()
	p, _ := room.GetPlayer("p1")

	gw.HandleFire("p1", FireMsg{RoomID: room.ID, X: 100, Y: 600})
	if len(room.bullets) != 1 {
		t.Fatalf("%d bullets after fire, want 1", len(room.bullets))
	}
	for _, b := range room.bullets {
		if b.ColorIdx != p.ColorIdx {
			t.Fatalf("bullet color %d, shooter color %d", b.ColorIdx, p.ColorIdx)
		}
		if b.OwnerID != "p1" {
			t.Fatalf("bullet owner %s, want p1", b.OwnerID)
		}
	}
}

func TestHandleColorChange(t *testing.T) {
	_, gw := newTestGateway()
	room := gw.HandleJoin("p1", &mockBroadcaster{}, "A", "ship1", 0)
	p, _ := room.GetPlayer("p1")
	before := p.ColorIdx

	gw.HandleColorChange("p1", ColorChangeMsg{RoomID: room.ID})
	if p.ColorIdx != (before+1)%NumColors {
		t.Fatalf("color index %d after cycle from %d", p.ColorIdx, before)
	}
}

func TestBroadcastStateDecodes(t *testing.T) {
	_, gw := newTestGateway()
	c := &mockBroadcaster{}
	room := gw.HandleJoin("p1", c, "A", "ship1", 0)
	room.CloseLobby()
	gw.HandleFire("p1", FireMsg{RoomID: room.ID, X: 100, Y: 600})

	gw.BroadcastState(room)

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.binary) != 1 {
		t.Fatalf("%d binary frames, want 1", len(c.binary))
	}
	var gs GameState
	if err := msgpack.Unmarshal(c.binary[0], &gs); err != nil {
		t.Fatalf("snapshot does not decode: %v", err)
	}
	if len(gs.Players) != 1 || gs.Players[0].ID != "p1" {
		t.Fatalf("decoded players %+v", gs.Players)
	}
	if len(gs.Bullets) != 1 {
		t.Fatalf("decoded %d bullets, want 1", len(gs.Bullets))
	}
}

func TestBroadcastGameOverTearsDown(t *testing.T) {
	dir, gw := newTestGateway()
	c := &mockBroadcaster{}
	room := gw.HandleJoin("p1", c, "A", "ship1", 0)
	room.CloseLobby()

	result := gw.BroadcastGameOver(room)
	if c.countType(MsgMatchOver) != 1 {
		t.Fatal("member did not receive the final report")
	}
	if len(result.PlayerStats) != 1 {
		t.Fatalf("result covers %d players, want 1", len(result.PlayerStats))
	}
	if dir.RoomCount() != 0 {
		t.Fatal("room survived game over")
	}
}
