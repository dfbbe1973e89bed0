package main

import (
	"sync"
	"time"
)

const (
	TickRate      = 60 // simulation ticks per second
	BroadcastRate = 20 // state broadcasts per second

	TickDuration      = time.Second / TickRate
	BroadcastDuration = time.Second / BroadcastRate
)

// Driver runs the two fixed-rate loops over all rooms: the simulation
// tick and the lower-frequency state broadcast. Decoupling the rates
// bounds outbound bandwidth while keeping the simulation responsive;
// clients interpolate between broadcasts.
type Driver struct {
	directory *RoomDirectory
	gateway   *Gateway

	// OnGameOver, if set, receives every finished room's roster and
	// result before teardown (stats persistence hook).
	OnGameOver func(room *Room, result GameResult)

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewDriver creates a driver over the given directory and gateway
func NewDriver(directory *RoomDirectory, gateway *Gateway) *Driver {
	return &Driver{
		directory: directory,
		gateway:   gateway,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Run blocks, driving both loops until Stop is called
func (d *Driver) Run() {
	defer close(d.done)

	simTicker := time.NewTicker(TickDuration)
	defer simTicker.Stop()
	broadcastTicker := time.NewTicker(BroadcastDuration)
	defer broadcastTicker.Stop()

	for {
		select {
		case <-simTicker.C:
			d.simTick()
		case <-broadcastTicker.C:
			d.broadcastTick()
		case <-d.stop:
			return
		}
	}
}

// Stop halts both loops together so no room is mutated or broadcast to
// mid-teardown. Safe to call more than once.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
	<-d.done
}

// simTick advances every active room by one simulation step
func (d *Driver) simTick() {
	for _, room := range d.directory.AllRooms() {
		if room.IsAvailable() {
			continue
		}
		if room.IsGameOver() {
			result := d.gateway.BroadcastGameOver(room)
			if d.OnGameOver != nil {
				d.OnGameOver(room, result)
			}
			continue
		}
		room.Update()
		if room.AttemptNovaAttack() {
			d.gateway.BroadcastDamage(room)
		}
	}
}

// broadcastTick emits a state snapshot for every active room
func (d *Driver) broadcastTick() {
	for _, room := range d.directory.AllRooms() {
		if room.IsAvailable() {
			continue
		}
		d.gateway.BroadcastState(room)
	}
}
