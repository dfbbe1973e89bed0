package main

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const MaxPlayersPerRoom = 4

// LobbyDuration is how long a room waits for players before starting.
// Package var so tests can shrink it.
var LobbyDuration = 30 * time.Second

// DamageCooldown is the minimum interval between proximity-damage
// applications in a room.
var DamageCooldown = time.Second

const (
	DamageAmount     = 10
	VictoryThreshold = 75 // percent of spawned novas that must be killed
)

// lobbyTimer is a cancellable scheduled close of the lobby
type lobbyTimer struct {
	timer   *time.Timer
	endTime time.Time
}

// Room owns one match's full state. All mutation goes through its mutex;
// rooms never share state with each other.
type Room struct {
	ID string

	mu             sync.Mutex
	players        map[string]*Player
	clients        map[string]Broadcaster // playerID -> client
	availableSlots []int
	available      bool // accepting joins (Lobby state)
	timer          *lobbyTimer

	bulletCounter int
	bullets       map[int]*Bullet
	bulletPool    *Pool[Bullet] // built at lobby close, sized to the roster

	novaCounter int
	novas       map[int]*Nova
	novaOrder   []int // nova ids sorted by x at wave spawn
	novaPool    *Pool[Nova]

	waveCount   int
	totalNovas  int // total novas ever spawned, for the kill percentage
	totalKills  int
	lastDamage  time.Time
	gameOverOut bool // game-over already reported to collaborators
}

// NewRoom creates an open room with all slots free
func NewRoom() *Room {
	slots := make([]int, MaxPlayersPerRoom)
	for i := range slots {
		// pushed in reverse so Pop yields slot 0 first
		slots[i] = MaxPlayersPerRoom - 1 - i
	}
	return &Room{
		ID:             uuid.NewString(),
		players:        make(map[string]*Player),
		clients:        make(map[string]Broadcaster),
		availableSlots: slots,
		available:      true,
		bullets:        make(map[int]*Bullet),
		novas:          make(map[int]*Nova),
		novaPool:       NewPool(func() *Nova { return &Nova{} }, NovaPoolSize),
	}
}

// IsAvailable reports whether the room is still in Lobby state
func (r *Room) IsAvailable() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.available
}

// LobbyEndTime returns the lobby deadline, or zero if no timer is running
func (r *Room) LobbyEndTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer == nil {
		return time.Time{}
	}
	return r.timer.endTime
}

// StartLobbyTimer schedules the Lobby->Closed transition. onClose fires
// only if the timer, not room capacity, performs the transition.
func (r *Room) StartLobbyTimer(onClose func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil || !r.available {
		return
	}
	lt := &lobbyTimer{endTime: time.Now().Add(LobbyDuration)}
	lt.timer = time.AfterFunc(LobbyDuration, func() {
		if r.CloseLobby() {
			onClose()
		}
	})
	r.timer = lt
}

// CloseLobby flips the room from Lobby to Closed. Idempotent: a full
// room and a firing timer can race, but only the first caller observes
// the transition and emits matchStart. Also builds the match's bullet
// pool, deferred until the roster is final to avoid over-allocating for
// a lobby that never fills.
func (r *Room) CloseLobby() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.available {
		return false
	}
	r.available = false
	if r.timer != nil {
		r.timer.timer.Stop()
		r.timer = nil
	}
	capacity := len(r.players) * BulletsPerPlayer
	r.bulletPool = NewPool(func() *Bullet { return &Bullet{} }, capacity)
	return true
}

// AddPlayer pops a free slot and joins a new player. Fails when no slot
// remains or the lobby has closed (routing bug — the directory should
// not have sent the join here).
func (r *Room) AddPlayer(id, name, spriteKey string) (*Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.available || len(r.availableSlots) == 0 {
		return nil, false
	}
	slot := r.availableSlots[len(r.availableSlots)-1]
	r.availableSlots = r.availableSlots[:len(r.availableSlots)-1]

	p := NewPlayer(id, name, spriteKey, slot)
	r.players[id] = p
	return p, true
}

// RemovePlayer removes a player, returns the freed slot to the pool and
// reports the remaining roster size (0 means the room should be deleted).
func (r *Room) RemovePlayer(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.players[id]; ok {
		r.availableSlots = append(r.availableSlots, p.Slot)
		delete(r.players, id)
	}
	delete(r.clients, id)
	return len(r.players)
}

// GetPlayer returns a room member by id
func (r *Room) GetPlayer(id string) (*Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	return p, ok
}

// PlayerCount returns the roster size
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// IsFull reports whether the roster reached capacity
func (r *Room) IsFull() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players) == MaxPlayersPerRoom
}

// PlayerInfos returns the full roster as wire records, sorted by slot
func (r *Room) PlayerInfos() []PlayerInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	infos := make([]PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		infos = append(infos, p.ToInfo())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Slot < infos[j].Slot })
	return infos
}

// SetClient associates a broadcaster with a room member
func (r *Room) SetClient(playerID string, client Broadcaster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[playerID] = client
}

// Broadcast sends a JSON envelope to every room member
func (r *Room) Broadcast(msg Envelope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		c.SendJSON(msg)
	}
}

// BroadcastExcept sends a JSON envelope to every room member but one
func (r *Room) BroadcastExcept(playerID string, msg Envelope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.clients {
		if id == playerID {
			continue
		}
		c.SendJSON(msg)
	}
}

// BroadcastBinary sends a pre-encoded binary frame to every room member
func (r *Room) BroadcastBinary(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		c.SendBinary(data)
	}
}

// ApplyMove stamps a movement command onto a room member
func (r *Room) ApplyMove(playerID, direction string, seqNumber int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[playerID]
	if !ok {
		return false
	}
	p.ApplyMove(direction, seqNumber)
	return true
}

// CycleColor advances a room member's color index
func (r *Room) CycleColor(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[playerID]
	if !ok {
		return false
	}
	p.CycleColor()
	return true
}

// AddBullet acquires a pooled bullet for a fire command. Pool exhaustion
// drops the shot: logged, never surfaced to the player.
func (r *Room) AddBullet(ownerID string, x, y float64, colorIdx int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bulletPool == nil {
		log.Printf("room %s: fire before lobby close, dropped", r.ID)
		return
	}
	b, ok := r.bulletPool.Acquire()
	if !ok {
		log.Printf("room %s: bullet pool exhausted, dropped shot", r.ID)
		return
	}
	b.X = x
	b.Y = y
	b.ColorIdx = colorIdx
	b.OwnerID = ownerID
	r.bullets[r.bulletCounter] = b
	r.bulletCounter++
}

// Update runs one simulation tick: wave spawn, nova/bullet advancement,
// and the collision sweep.
func (r *Room) Update() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.novas) == 0 && r.waveCount < MaxWaves {
		r.spawnWave()
	}
	r.updateNovas()
	r.updateBullets()
	r.checkCollisions()
}

// spawnWave acquires a random batch of novas and inserts them sorted by
// x ascending. Sorting once per wave, not per collision sweep, is the
// load-bearing cost decision: nova x never changes afterward, so the
// order stays valid for the wave's whole lifetime.
func (r *Room) spawnWave() {
	r.waveCount++
	r.novaOrder = r.novaOrder[:0] // ids from the previous wave are all dead
	size := randInt(WaveSizeMin, WaveSizeMax)
	for i := 0; i < size; i++ {
		nova, ok := r.novaPool.Acquire()
		if !ok {
			log.Printf("room %s: nova pool exhausted, wave %d truncated", r.ID, r.waveCount)
			break
		}
		nova.Reset()
		id := r.novaCounter
		r.novaCounter++
		r.novas[id] = nova
		r.novaOrder = append(r.novaOrder, id)
		r.totalNovas++
	}
	sort.Slice(r.novaOrder, func(i, j int) bool {
		return r.novas[r.novaOrder[i]].X < r.novas[r.novaOrder[j]].X
	})
}

func (r *Room) updateNovas() {
	for id, nova := range r.novas {
		if !nova.Advance() {
			r.novaPool.Release(nova)
			delete(r.novas, id)
		}
	}
}

func (r *Room) updateBullets() {
	for id, bullet := range r.bullets {
		if !bullet.Advance() {
			r.bulletPool.Release(bullet)
			delete(r.bullets, id)
		}
	}
}

// checkCollisions scans, for each live bullet, the novas in sorted
// x-order, breaking once a nova's left edge lies past the bullet's x.
// A hit needs matching color indices and squared distance within the
// precomputed radius; it destroys one nova per bullet at most.
func (r *Room) checkCollisions() {
	for bulletID, bullet := range r.bullets {
		for _, novaID := range r.novaOrder {
			nova, live := r.novas[novaID]
			if !live {
				continue
			}
			if nova.X-CollisionRadius > bullet.X {
				break
			}
			if nova.ColorIdx != bullet.ColorIdx {
				continue
			}
			dx := nova.X - bullet.X
			dy := nova.Y - bullet.Y
			if dx*dx+dy*dy > CollisionRadiusSq {
				continue
			}
			if shooter, ok := r.players[bullet.OwnerID]; ok {
				shooter.Kills++
			}
			r.totalKills++
			r.bulletPool.Release(bullet)
			delete(r.bullets, bulletID)
			r.novaPool.Release(nova)
			delete(r.novas, novaID)
			break
		}
	}
}

// AttemptNovaAttack applies shared proximity damage: if any player sits
// inside a nova's proximity band, every player in the room takes the
// damage amount simultaneously. Gated by the damage cooldown. Returns
// true when damage was applied this tick.
func (r *Room) AttemptNovaAttack() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if time.Since(r.lastDamage) < DamageCooldown {
		return false
	}

	hit := false
	for _, p := range r.players {
		for _, novaID := range r.novaOrder {
			nova, live := r.novas[novaID]
			if !live {
				continue
			}
			if nova.X-NovaProximityX > p.X {
				break
			}
			dx := nova.X - p.X
			dy := nova.Y - p.Y
			if dx >= -NovaProximityX && dy >= -NovaProximityY && dy <= NovaProximityY {
				hit = true
				break
			}
		}
		if hit {
			break
		}
	}
	if !hit {
		return false
	}

	for _, p := range r.players {
		p.TakeDamage(DamageAmount)
	}
	r.lastDamage = time.Now()
	return true
}

// IsGameOver evaluates the terminal condition: any player's health at
// zero (all players take damage together, so checking one suffices), or
// the final wave spawned and cleared. Reported exactly once.
func (r *Room) IsGameOver() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.available || r.gameOverOut {
		return false
	}
	for _, p := range r.players {
		if p.Health <= 0 {
			r.gameOverOut = true
			return true
		}
		break
	}
	if r.waveCount >= MaxWaves && len(r.novas) == 0 {
		r.gameOverOut = true
		return true
	}
	return false
}

// GameStats aggregates the end-of-match report. Victory requires the
// maximum wave count to have been reached and the kill percentage to
// meet the threshold.
func (r *Room) GameStats() GameResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := make([]PlayerStat, 0, len(r.players))
	for _, p := range r.players {
		stats = append(stats, PlayerStat{Name: p.Name, SpriteKey: p.SpriteKey, Kills: p.Kills})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Kills > stats[j].Kills })

	pct := 0
	if r.totalNovas > 0 {
		pct = r.totalKills * 100 / r.totalNovas
	}
	return GameResult{
		PlayerStats:    stats,
		KillPercentage: pct,
		IsVictory:      r.waveCount >= MaxWaves && pct >= VictoryThreshold,
	}
}

// MatchParticipant links an authenticated account to its match kills
type MatchParticipant struct {
	PilotID int64
	Kills   int
}

// Participants returns the authenticated roster members for stats
// persistence; guests are excluded.
func (r *Room) Participants() []MatchParticipant {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]MatchParticipant, 0, len(r.players))
	for _, p := range r.players {
		if p.AuthPilotID > 0 {
			out = append(out, MatchParticipant{PilotID: p.AuthPilotID, Kills: p.Kills})
		}
	}
	return out
}

// WaveCount returns the number of waves spawned so far
func (r *Room) WaveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.waveCount
}

// Snapshot serializes the minimal room state for the broadcast tick
func (r *Room) Snapshot() GameState {
	r.mu.Lock()
	defer r.mu.Unlock()

	gs := GameState{
		Players: make([]PlayerState, 0, len(r.players)),
		Bullets: make([]BulletEntry, 0, len(r.bullets)),
		Novas:   make([]NovaEntry, 0, len(r.novas)),
	}
	for _, p := range r.players {
		gs.Players = append(gs.Players, p.ToState())
	}
	for id, b := range r.bullets {
		gs.Bullets = append(gs.Bullets, BulletEntry{
			ID: id, X: b.X, Y: b.Y, ColorIdx: b.ColorIdx, OwnerID: b.OwnerID,
		})
	}
	for id, n := range r.novas {
		gs.Novas = append(gs.Novas, NovaEntry{ID: id, X: n.X, Y: n.Y, ColorIdx: n.ColorIdx})
	}
	return gs
}

// Teardown cancels the lobby timer and returns pooled entities. Called
// when the directory deletes the room.
func (r *Room) Teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.timer.Stop()
		r.timer = nil
	}
	for id, n := range r.novas {
		r.novaPool.Release(n)
		delete(r.novas, id)
	}
	r.novaOrder = r.novaOrder[:0]
	for id, b := range r.bullets {
		if r.bulletPool != nil {
			r.bulletPool.Release(b)
		}
		delete(r.bullets, id)
	}
}
