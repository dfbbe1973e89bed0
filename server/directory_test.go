package main

import (
	"testing"
	"time"
)

func TestFindOrCreateReusesOpenRoom(t *testing.T) {
	dir := NewRoomDirectory()
	first := dir.FindOrCreateRoom()
	second := dir.FindOrCreateRoom()
	if first.ID != second.ID {
		t.Fatal("open room not reused")
	}
	if dir.RoomCount() != 1 {
		t.Fatalf("%d rooms, want 1", dir.RoomCount())
	}
}

func TestFindOrCreateSkipsClosedRoom(t *testing.T) {
	dir := NewRoomDirectory()
	first := dir.FindOrCreateRoom()
	first.CloseLobby()

	second := dir.FindOrCreateRoom()
	if second.ID == first.ID {
		t.Fatal("closed room handed to a joiner")
	}
}

func TestFindOrCreateSkipsClosingLobby(t *testing.T) {
	oldDur, oldBuf := LobbyDuration, JoinBuffer
	LobbyDuration = 50 * time.Millisecond
	JoinBuffer = 3 * time.Second
	defer func() { LobbyDuration, JoinBuffer = oldDur, oldBuf }()

	dir := NewRoomDirectory()
	first := dir.FindOrCreateRoom()
	first.StartLobbyTimer(func() {})

	// Lobby deadline is inside the join buffer, so routing must not use it.
	second := dir.FindOrCreateRoom()
	if second.ID == first.ID {
		t.Fatal("joiner routed into a lobby about to close")
	}
}

func TestFindOrCreateAcceptsUntimedLobby(t *testing.T) {
	dir := NewRoomDirectory()
	first := dir.FindOrCreateRoom()
	// No timer yet: the room waits for its first member.
	second := dir.FindOrCreateRoom()
	if second.ID != first.ID {
		t.Fatal("untimed lobby not reused")
	}
}

func TestGetRoomByIDMiss(t *testing.T) {
	dir := NewRoomDirectory()
	if _, ok := dir.GetRoomByID("nope"); ok {
		t.Fatal("lookup of unknown room succeeded")
	}
}

func TestDeleteRoom(t *testing.T) {
	dir := NewRoomDirectory()
	room := dir.FindOrCreateRoom()
	dir.DeleteRoom(room.ID)
	if dir.RoomCount() != 0 {
		t.Fatal("room survived deletion")
	}
	// Deleting again must be harmless.
	dir.DeleteRoom(room.ID)
}
