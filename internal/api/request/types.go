package request

// JoinEvent is the request body for a player joining the server
type JoinEvent struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
}

// LeaveEvent is the request body for a player disconnecting
type LeaveEvent struct {
	PlayerID string `json:"player_id"`
}

// IdleEvent is the request body for an activity-classification change
type IdleEvent struct {
	PlayerID string `json:"player_id"`
	Category string `json:"category"`
	Inactive bool   `json:"inactive"`
}

// WalletCommand is the request body for the wallet command
type WalletCommand struct {
	PlayerID string `json:"player_id"`
	Address  string `json:"address"`
}

// BalanceCommand is the request body for the balance command
type BalanceCommand struct {
	PlayerID string `json:"player_id"`
}
