package model

// PlayerID uniquely identifies a player across sessions
type PlayerID string

// Player is a connected player as reported by the hosting game server
type Player struct {
	ID          PlayerID
	DisplayName string
}
