package main

import (
	"log"

	"github.com/vmihailenco/msgpack/v5"
)

// Broadcaster is the outbound side of a connection, as seen by rooms
// and the gateway. Tests substitute a mock.
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Gateway binds inbound client commands to directory/room operations and
// serializes room state into outbound events. It owns no game logic.
type Gateway struct {
	directory *RoomDirectory
}

// NewGateway creates a gateway over the given directory
func NewGateway(directory *RoomDirectory) *Gateway {
	return &Gateway{directory: directory}
}

// HandleJoin routes a player to a room, acknowledges with the full lobby
// snapshot, notifies members, and starts the match if the room filled.
// Returns the joined room, or nil when the join failed.
func (g *Gateway) HandleJoin(playerID string, client Broadcaster, name, spriteKey string, authPilotID int64) *Room {
	if name == "" {
		name = RandomPilotName()
	}
	room := g.directory.FindOrCreateRoom()
	player, ok := room.AddPlayer(playerID, name, spriteKey)
	if !ok {
		// Routing bug: the directory sent us a room without capacity.
		log.Printf("room %s: no free slot for %s", room.ID, playerID)
		return nil
	}
	player.AuthPilotID = authPilotID
	room.SetClient(playerID, client)

	if room.PlayerCount() == 1 {
		room.StartLobbyTimer(func() {
			g.broadcastMatchStart(room)
		})
	}

	client.SendJSON(Envelope{T: MsgLobbyState, Data: LobbyStateMsg{
		RoomID:       room.ID,
		Players:      room.PlayerInfos(),
		LobbyEndTime: room.LobbyEndTime().UnixMilli(),
	}})
	room.BroadcastExcept(playerID, Envelope{T: MsgJoined, Data: player.ToInfo()})

	if room.IsFull() && room.CloseLobby() {
		g.broadcastMatchStart(room)
	}
	return room
}

// HandleMove applies one movement command and stamps its sequence number
func (g *Gateway) HandleMove(playerID string, msg MoveMsg) {
	room, ok := g.directory.GetRoomByID(msg.RoomID)
	if !ok {
		return
	}
	if !room.ApplyMove(playerID, msg.Direction, msg.SeqNumber) {
		log.Printf("room %s: move from unknown player %s", room.ID, playerID)
	}
}

// HandleFire spawns a bullet with the shooter's current color
func (g *Gateway) HandleFire(playerID string, msg FireMsg) {
	room, ok := g.directory.GetRoomByID(msg.RoomID)
	if !ok {
		return
	}
	player, ok := room.GetPlayer(playerID)
	if !ok {
		log.Printf("room %s: fire from unknown player %s", room.ID, playerID)
		return
	}
	room.AddBullet(playerID, msg.X, msg.Y, player.ColorIdx)
}

// HandleColorChange cycles the sender's color index
func (g *Gateway) HandleColorChange(playerID string, msg ColorChangeMsg) {
	room, ok := g.directory.GetRoomByID(msg.RoomID)
	if !ok {
		return
	}
	if !room.CycleColor(playerID) {
		log.Printf("room %s: colorChange from unknown player %s", room.ID, playerID)
	}
}

// HandleDisconnect removes the player from its room, frees the slot,
// notifies remaining members, and deletes the room if it emptied.
func (g *Gateway) HandleDisconnect(playerID, roomID string) {
	if roomID == "" {
		return
	}
	room, ok := g.directory.GetRoomByID(roomID)
	if !ok {
		return
	}
	remaining := room.RemovePlayer(playerID)
	if remaining == 0 {
		g.directory.DeleteRoom(roomID)
		return
	}
	room.Broadcast(Envelope{T: MsgLeft, Data: playerID})
}

// BroadcastState emits the msgpack-encoded minimal snapshot to a room
func (g *Gateway) BroadcastState(room *Room) {
	data, err := msgpack.Marshal(room.Snapshot())
	if err != nil {
		log.Printf("room %s: snapshot marshal: %v", room.ID, err)
		return
	}
	room.BroadcastBinary(data)
}

// BroadcastDamage notifies a room that proximity damage was applied
func (g *Gateway) BroadcastDamage(room *Room) {
	room.Broadcast(Envelope{T: MsgDamage})
}

// BroadcastGameOver emits the final report and tears the room down
func (g *Gateway) BroadcastGameOver(room *Room) GameResult {
	result := room.GameStats()
	room.Broadcast(Envelope{T: MsgMatchOver, Data: result})
	g.directory.DeleteRoom(room.ID)
	return result
}

func (g *Gateway) broadcastMatchStart(room *Room) {
	room.Broadcast(Envelope{T: MsgMatchStart, Data: MatchStartMsg{
		RoomID:  room.ID,
		Players: room.PlayerInfos(),
	}})
}
