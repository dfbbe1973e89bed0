package main

const (
	BulletSpeed      = 5.0 // pixels per tick, moving up
	BulletsPerPlayer = 20  // pool capacity per roster member
)

// Bullet is a pooled projectile. Color is inherited from the firing
// player and acts as the target-matching key.
type Bullet struct {
	X, Y     float64
	ColorIdx int
	OwnerID  string
}

// Advance moves the bullet up one tick. Returns false once it has left
// the top of the playfield.
func (b *Bullet) Advance() bool {
	b.Y -= BulletSpeed
	return b.Y > 0
}
