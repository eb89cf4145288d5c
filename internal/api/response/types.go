package response

import "github.com/playtoearn/coinserver/internal/commands"

// Ack is the immediate acknowledgment for accepted events and commands
type Ack struct {
	Status string `json:"status"`
}

// Accepted is the standard ack payload
func Accepted() Ack {
	return Ack{Status: "accepted"}
}

// Messages carries a player's pending command results
type Messages struct {
	Messages []commands.Message `json:"messages"`
}

// Roster lists the currently connected players
type Roster struct {
	Players []RosterPlayer `json:"players"`
}

// RosterPlayer is one connected player in a roster response
type RosterPlayer struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Idle        bool   `json:"idle"`
}
