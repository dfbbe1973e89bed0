package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin        = "join"
	MsgMove        = "move"
	MsgFire        = "fire"
	MsgColorChange = "colorChange"
	MsgRegister    = "register"
	MsgLogin       = "login"
	MsgAuth        = "auth"
	MsgProfile     = "profile"
	MsgLeaderboard = "leaderboard"
)

// Server -> Client message types
const (
	MsgJoined      = "joined"      // another player joined your room
	MsgLeft        = "left"        // a room member disconnected
	MsgLobbyState  = "lobbyState"  // full lobby snapshot on join
	MsgMatchStart  = "matchStart"  // room transitioned Lobby -> Closed
	MsgDamage      = "damageEvent" // a proximity-damage application occurred
	MsgMatchOver   = "matchOver"   // terminal result
	MsgError       = "error"
	MsgAuthOK      = "authOk"
	MsgProfileData = "profileData"
	MsgLeaderData  = "leaderboardData"
)

// Movement directions accepted by the move command
const (
	DirLeft  = "left"
	DirRight = "right"
	DirUp    = "up"
	DirDown  = "down"
)

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// JoinMsg is sent by a client to enter matchmaking
type JoinMsg struct {
	Name      string `json:"name"`
	SpriteKey string `json:"sprite"`
}

// MoveMsg carries one movement command with the client's input sequence number
type MoveMsg struct {
	RoomID    string `json:"rid"`
	Direction string `json:"dir"`
	SeqNumber int    `json:"seq"`
}

// FireMsg spawns a bullet at the given origin with the shooter's color
type FireMsg struct {
	RoomID string  `json:"rid"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// ColorChangeMsg cycles the sender's color index
type ColorChangeMsg struct {
	RoomID string `json:"rid"`
}

// PlayerInfo is the full player record, sent in lobby and match-start events
type PlayerInfo struct {
	ID        string  `json:"id"`
	Name      string  `json:"n"`
	SpriteKey string  `json:"sk"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Slot      int     `json:"sl"`
	ColorIdx  int     `json:"c"`
	SeqNumber int     `json:"seq"`
	Kills     int     `json:"k"`
	Health    int     `json:"hp"`
}

// LobbyStateMsg is the full snapshot acknowledged to a joining client
type LobbyStateMsg struct {
	RoomID       string       `json:"rid"`
	Players      []PlayerInfo `json:"p"`
	LobbyEndTime int64        `json:"end"` // unix ms
}

// MatchStartMsg is broadcast when a room closes its lobby
type MatchStartMsg struct {
	RoomID  string       `json:"rid"`
	Players []PlayerInfo `json:"p"`
}

// PlayerState is the minimal per-player slice of a state snapshot.
// The echoed SeqNumber lets the client discard acknowledged inputs and
// replay only the remainder against the authoritative position.
type PlayerState struct {
	ID        string  `json:"id" msgpack:"id"`
	X         float64 `json:"x" msgpack:"x"`
	Y         float64 `json:"y" msgpack:"y"`
	ColorIdx  int     `json:"c" msgpack:"c"`
	SeqNumber int     `json:"seq" msgpack:"seq"`
}

// BulletEntry pairs a bullet's room-scoped id with its state
type BulletEntry struct {
	ID       int     `json:"id" msgpack:"id"`
	X        float64 `json:"x" msgpack:"x"`
	Y        float64 `json:"y" msgpack:"y"`
	ColorIdx int     `json:"c" msgpack:"c"`
	OwnerID  string  `json:"o" msgpack:"o"`
}

// NovaEntry pairs a nova's room-scoped id with its state
type NovaEntry struct {
	ID       int     `json:"id" msgpack:"id"`
	X        float64 `json:"x" msgpack:"x"`
	Y        float64 `json:"y" msgpack:"y"`
	ColorIdx int     `json:"c" msgpack:"c"`
}

// GameState is the 20Hz broadcast payload, msgpack-encoded on the wire
type GameState struct {
	Players []PlayerState `json:"p" msgpack:"p"`
	Bullets []BulletEntry `json:"b" msgpack:"b"`
	Novas   []NovaEntry   `json:"n" msgpack:"n"`
}

// PlayerStat is one row of the end-of-match report
type PlayerStat struct {
	Name      string `json:"n"`
	SpriteKey string `json:"sk"`
	Kills     int    `json:"k"`
}

// GameResult is broadcast on the GameOver transition
type GameResult struct {
	PlayerStats    []PlayerStat `json:"stats"`
	KillPercentage int          `json:"pct"`
	IsVictory      bool         `json:"win"`
}

// RegisterMsg creates a new account
type RegisterMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// LoginMsg authenticates an existing account
type LoginMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// AuthMsg re-authenticates with a previously issued token
type AuthMsg struct {
	Token string `json:"tok"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	Token    string `json:"tok"`
	Username string `json:"u"`
	PilotID  int64  `json:"pid"`
}

// ProfileDataMsg returns lifetime stats for the authenticated account
type ProfileDataMsg struct {
	Username     string `json:"u"`
	Kills        int    `json:"k"`
	WavesCleared int    `json:"w"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	Matches      int    `json:"m"`
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}
