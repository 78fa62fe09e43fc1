package domain

import "time"

// Controller names used in transition records.
const (
	ControllerWallet = "wallet"
	ControllerAuth   = "auth"
)

// TransitionRecord is one entry of the session audit trail.
type TransitionRecord struct {
	Controller string
	From       string
	To         string
	Reason     string
	Address    string
	ChainID    int64 // 0 when no network is attached
	UserID     string
	At         time.Time
}
