package main

import (
	"testing"
	"time"
)

func TestSimTickSkipsLobbies(t *testing.T) {
	dir, gw := newTestGateway()
	driver := NewDriver(dir, gw)
	room := gw.HandleJoin("p1", &mockBroadcaster{}, "A", "ship1", 0)

	driver.simTick()
	if room.WaveCount() != 0 {
		t.Fatal("lobby room was simulated")
	}
}

func TestSimTickAdvancesActiveRooms(t *testing.T) {
	dir, gw := newTestGateway()
	driver := NewDriver(dir, gw)
	room := gw.HandleJoin("p1", &mockBroadcaster{}, "A", "ship1", 0)
	room.CloseLobby()

	driver.simTick()
	if room.WaveCount() != 1 {
		t.Fatalf("wave count %d after one tick, want 1", room.WaveCount())
	}
}

func TestSimTickReportsGameOver(t *testing.T) {
	dir, gw := newTestGateway()
	driver := NewDriver(dir, gw)
	c := &mockBroadcaster{}
	room := gw.HandleJoin("p1", c, "A", "ship1", 42)
	room.CloseLobby()
	room.waveCount = MaxWaves
	p, _ := room.GetPlayer("p1")
	p.Kills = 3

	var hooked *GameResult
	driver.OnGameOver = func(r *Room, result GameResult) {
		if r.ID != room.ID {
			t.Errorf("hook received room %s, want %s", r.ID, room.ID)
		}
		hooked = &result
		parts := r.Participants()
		if len(parts) != 1 || parts[0].PilotID != 42 || parts[0].Kills != 3 {
			t.Errorf("participants %+v", parts)
		}
	}

	driver.simTick()

	if c.countType(MsgMatchOver) != 1 {
		t.Fatal("member did not receive the final report")
	}
	if hooked == nil {
		t.Fatal("game-over hook not called")
	}
	if dir.RoomCount() != 0 {
		t.Fatal("finished room not deleted")
	}

	// The room is gone: another tick must not report again.
	driver.simTick()
	if c.countType(MsgMatchOver) != 1 {
		t.Fatal("final report duplicated")
	}
}

func TestSimTickBroadcastsDamage(t *testing.T) {
	dir, gw := newTestGateway()
	driver := NewDriver(dir, gw)
	c := &mockBroadcaster{}
	room := gw.HandleJoin("p1", c, "A", "ship1", 0)
	room.CloseLobby()
	room.waveCount = MaxWaves // suppress spawning, stage by hand
	p, _ := room.GetPlayer("p1")
	room.stageNova(p.X, p.Y-1, 0)

	driver.simTick()
	if c.countType(MsgDamage) != 1 {
		t.Fatalf("%d damage events, want 1", c.countType(MsgDamage))
	}
}

func TestBroadcastTickSkipsLobbies(t *testing.T) {
	dir, gw := newTestGateway()
	driver := NewDriver(dir, gw)
	c := &mockBroadcaster{}
	gw.HandleJoin("p1", c, "A", "ship1", 0)

	driver.broadcastTick()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.binary) != 0 {
		t.Fatal("lobby room received a state snapshot")
	}
}

func TestDriverStop(t *testing.T) {
	dir, gw := newTestGateway()
	driver := NewDriver(dir, gw)
	go driver.Run()

	done := make(chan struct{})
	go func() {
		driver.Stop()
		driver.Stop() // second call must not hang
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
