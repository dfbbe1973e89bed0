package main

const (
	GameWidth  = 1280.0
	GameHeight = 720.0

	PlayerSpeed  = 5.0 // pixels per move command
	PlayerMargin = 40.0
	MaxHealth    = 100

	// NumColors is the palette size. A color index doubles as a damage
	// type: bullets only destroy novas of the same color.
	NumColors = 4
)

// Player is one room member. Owned exclusively by its Room; created on
// join, destroyed on disconnect or room teardown.
type Player struct {
	ID        string
	Name      string
	SpriteKey string
	X, Y      float64
	Slot      int
	ColorIdx  int
	SeqNumber int
	Kills     int
	Health    int

	// AuthPilotID links the room member to a persistent account for
	// end-of-match stats. Zero for guests.
	AuthPilotID int64
}

// NewPlayer creates a player spawned at the position derived from its slot.
func NewPlayer(id, name, spriteKey string, slot int) *Player {
	return &Player{
		ID:        id,
		Name:      name,
		SpriteKey: spriteKey,
		X:         GameWidth/2 - 300 + float64(slot)*200,
		Y:         GameHeight - 200,
		Slot:      slot,
		ColorIdx:  randInt(0, NumColors-1),
		Health:    MaxHealth,
	}
}

// ApplyMove clamps the player by one movement step and stamps the input
// sequence number for client-side reconciliation.
func (p *Player) ApplyMove(direction string, seqNumber int) {
	p.SeqNumber = seqNumber
	switch direction {
	case DirLeft:
		p.X = Clamp(p.X-PlayerSpeed, PlayerMargin, GameWidth-PlayerMargin)
	case DirRight:
		p.X = Clamp(p.X+PlayerSpeed, PlayerMargin, GameWidth-PlayerMargin)
	case DirUp:
		p.Y = Clamp(p.Y-PlayerSpeed, PlayerMargin, GameHeight-PlayerMargin)
	case DirDown:
		p.Y = Clamp(p.Y+PlayerSpeed, PlayerMargin, GameHeight-PlayerMargin)
	}
}

// TakeDamage reduces health, clamped to [0, MaxHealth]
func (p *Player) TakeDamage(amount int) {
	p.Health -= amount
	if p.Health < 0 {
		p.Health = 0
	}
}

// CycleColor advances the color index modulo the palette size
func (p *Player) CycleColor() {
	p.ColorIdx = (p.ColorIdx + 1) % NumColors
}

// ToInfo converts to the full wire record
func (p *Player) ToInfo() PlayerInfo {
	return PlayerInfo{
		ID:        p.ID,
		Name:      p.Name,
		SpriteKey: p.SpriteKey,
		X:         p.X,
		Y:         p.Y,
		Slot:      p.Slot,
		ColorIdx:  p.ColorIdx,
		SeqNumber: p.SeqNumber,
		Kills:     p.Kills,
		Health:    p.Health,
	}
}

// ToState converts to the minimal snapshot slice
func (p *Player) ToState() PlayerState {
	return PlayerState{
		ID:        p.ID,
		X:         p.X,
		Y:         p.Y,
		ColorIdx:  p.ColorIdx,
		SeqNumber: p.SeqNumber,
	}
}
