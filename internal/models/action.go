package models

// RoomAction captures a player's in-game move as routed from the transport
// layer. CardIDs carries the selection for combo plays and reorders; Card is
// the single-card selection.
type RoomAction struct {
	Type    string `json:"type"`
	Card    int    `json:"card,omitempty"`
	CardIDs []int  `json:"cards,omitempty"`
	Color   string `json:"color,omitempty"`  // chosen color for wilds / libre
	Target  string `json:"target,omitempty"` // player id for exchange victim / challenge
	Choice  string `json:"choice,omitempty"` // duel symbol, rip/penalty decision, exchange step
}
