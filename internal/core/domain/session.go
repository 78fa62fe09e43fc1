package domain

import (
	"errors"
	"time"
)

// Phase is the lifecycle state of the wallet session.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseConnecting Phase = "connecting"
	PhaseConnected  Phase = "connected"
	PhaseFailed     Phase = "failed"
)

// walletTransitions defines the allowed wallet session transitions.
// Connected -> Connected covers account and network updates.
var walletTransitions = map[Phase][]Phase{
	PhaseIdle:       {PhaseConnecting, PhaseIdle},
	PhaseConnecting: {PhaseConnected, PhaseFailed, PhaseIdle},
	PhaseConnected:  {PhaseConnected, PhaseIdle},
	PhaseFailed:     {PhaseConnecting, PhaseIdle},
}

var ErrInvalidTransition = errors.New("invalid session transition")

// CanTransitionTo reports whether a transition from the current phase to next is valid.
func (p Phase) CanTransitionTo(next Phase) bool {
	for _, allowed := range walletTransitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CanConnect reports whether a connect attempt may start from this phase.
func (p Phase) CanConnect() bool {
	return p == PhaseIdle || p == PhaseFailed
}

// Session is the wallet session as seen by the UI.
type Session struct {
	Phase          Phase     `json:"phase"`
	Address        string    `json:"address"`
	BalanceDisplay string    `json:"balance"`
	Network        *Network  `json:"network"`
	Reason         Reason    `json:"reason,omitempty"`
	LastError      string    `json:"last_error,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Connected reports whether the session holds a usable account.
func (s Session) Connected() bool {
	return s.Phase == PhaseConnected && s.Address != ""
}

// Clone returns a copy that shares no pointers with s.
func (s Session) Clone() Session {
	if s.Network != nil {
		n := *s.Network
		s.Network = &n
	}
	return s
}

// Validate checks the structural invariants of a session.
func (s Session) Validate() error {
	if s.Phase == PhaseConnected && s.Address == "" {
		return errors.New("connected session without address")
	}
	if s.Phase != PhaseConnected && s.Address != "" {
		return errors.New("address set outside connected phase")
	}
	return nil
}
