package main

import (
	"log"
	"sync"
	"time"
)

// JoinBuffer keeps new joiners out of rooms whose lobby is about to
// close before the join could be acknowledged.
var JoinBuffer = 3 * time.Second

// RoomDirectory owns the set of rooms. Only it inserts or deletes
// entries; rooms themselves never touch the index.
type RoomDirectory struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRoomDirectory creates an empty directory
func NewRoomDirectory() *RoomDirectory {
	return &RoomDirectory{rooms: make(map[string]*Room)}
}

// FindOrCreateRoom returns an open room whose lobby timer has more than
// the join buffer remaining, or creates a new one.
func (d *RoomDirectory) FindOrCreateRoom() *Room {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, room := range d.rooms {
		if !room.IsAvailable() {
			continue
		}
		end := room.LobbyEndTime()
		// A room with no timer yet has an unstarted lobby; eligible.
		if end.IsZero() || time.Until(end) > JoinBuffer {
			return room
		}
	}

	room := NewRoom()
	d.rooms[room.ID] = room
	return room
}

// GetRoomByID returns a room, logging the miss — callers treat a miss as
// a no-op, never fatal.
func (d *RoomDirectory) GetRoomByID(id string) (*Room, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	room, ok := d.rooms[id]
	if !ok {
		log.Printf("room %s not found", id)
	}
	return room, ok
}

// DeleteRoom removes a finished or emptied room and releases its
// resources.
func (d *RoomDirectory) DeleteRoom(id string) {
	d.mu.Lock()
	room, ok := d.rooms[id]
	delete(d.rooms, id)
	d.mu.Unlock()
	if ok {
		room.Teardown()
	}
}

// AllRooms returns a snapshot of every room
func (d *RoomDirectory) AllRooms() []*Room {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rooms := make([]*Room, 0, len(d.rooms))
	for _, r := range d.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}

// RoomCount returns the number of live rooms
func (d *RoomDirectory) RoomCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}
