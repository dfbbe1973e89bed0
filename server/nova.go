package main

const (
	NovaSpeed    = 1.0 // pixels per tick, moving down
	NovaPoolSize = 30

	WaveSizeMin = 5
	WaveSizeMax = 10
	MaxWaves    = 10

	// Collision is a squared-distance check against this radius; the
	// squared constant is precomputed to avoid a sqrt per pair.
	CollisionRadius   = 36.0
	CollisionRadiusSq = CollisionRadius * CollisionRadius

	// Proximity bands for the nova attack check
	NovaProximityX = 48.0
	NovaProximityY = 64.0
)

// Nova is a pooled enemy. Waves are inserted pre-sorted by x so the
// collision sweep can prune on sorted order.
type Nova struct {
	X, Y     float64
	ColorIdx int
}

// Advance moves the nova down one tick. Returns false once it has left
// the bottom of the playfield.
func (n *Nova) Advance() bool {
	n.Y += NovaSpeed
	return n.Y < GameHeight
}

// Reset re-rolls a pooled nova for a fresh wave spawn
func (n *Nova) Reset() {
	n.X = float64(randInt(10, GameWidth-10))
	n.Y = float64(randInt(-100, -10))
	n.ColorIdx = randInt(0, NumColors-1)
}
