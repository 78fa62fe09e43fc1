package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin   = "admin"
	RoleCreator = "creator"
	RoleUser    = "user"
)

// UserStatus is the account state reported by the backend.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserPending   UserStatus = "pending"
	UserSuspended UserStatus = "suspended"
)

// User models the authenticated actor of the dashboard.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email,omitempty"`
	WalletAddress string     `json:"walletAddress,omitempty"`
	Username      string     `json:"username,omitempty"`
	Avatar        string     `json:"avatar,omitempty"`
	Role          string     `json:"role"`
	CreatedAt     time.Time  `json:"createdAt"`
	Status        UserStatus `json:"status"`
}

// UserPatch carries a partial profile update. Nil fields are left untouched.
type UserPatch struct {
	Email         *string     `json:"email,omitempty"`
	WalletAddress *string     `json:"walletAddress,omitempty"`
	Username      *string     `json:"username,omitempty"`
	Avatar        *string     `json:"avatar,omitempty"`
	Role          *string     `json:"role,omitempty"`
	Status        *UserStatus `json:"status,omitempty"`
}

// Apply returns u with every non-nil field of p merged in.
func (u User) Apply(p UserPatch) User {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.WalletAddress != nil {
		u.WalletAddress = *p.WalletAddress
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	return u
}

// Credentials are the login inputs. Either Email or WalletAddress identifies the account.
type Credentials struct {
	Email         string `json:"email,omitempty"`
	WalletAddress string `json:"walletAddress,omitempty"`
	Password      string `json:"password"`
	RememberMe    bool   `json:"rememberMe,omitempty"`
}

// Registration are the sign-up inputs.
type Registration struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	WalletAddress   string `json:"walletAddress,omitempty"`
	CreatorType     string `json:"creatorType,omitempty"`
	TermsAccepted   bool   `json:"acceptTerms"`
}

// AuthPhase is the lifecycle state of the auth session.
type AuthPhase string

const (
	AuthIdle           AuthPhase = "idle"
	AuthAuthenticating AuthPhase = "authenticating"
	AuthAuthenticated  AuthPhase = "authenticated"
	AuthFailed         AuthPhase = "failed"
)

var authTransitions = map[AuthPhase][]AuthPhase{
	AuthIdle:           {AuthAuthenticating, AuthAuthenticated, AuthIdle},
	AuthAuthenticating: {AuthAuthenticated, AuthFailed, AuthIdle},
	AuthAuthenticated:  {AuthAuthenticated, AuthIdle},
	AuthFailed:         {AuthAuthenticating, AuthIdle},
}

// CanTransitionTo reports whether a transition from the current phase to next is valid.
// Idle -> Authenticated is the restore path.
func (p AuthPhase) CanTransitionTo(next AuthPhase) bool {
	for _, allowed := range authTransitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AuthSession is the auth state as seen by the UI.
type AuthSession struct {
	Phase     AuthPhase `json:"phase"`
	User      *User     `json:"user"`
	Reason    string    `json:"reason,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Authenticated reports whether the session carries a user.
func (s AuthSession) Authenticated() bool {
	return s.Phase == AuthAuthenticated && s.User != nil
}

// Clone returns a copy that shares no pointers with s.
func (s AuthSession) Clone() AuthSession {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Validate checks the structural invariants of an auth session.
func (s AuthSession) Validate() error {
	if s.Phase == AuthAuthenticated && s.User == nil {
		return errors.New("authenticated session without user")
	}
	if s.Phase != AuthAuthenticated && s.User != nil {
		return errors.New("user set outside authenticated phase")
	}
	return nil
}

// AuthResult is what the backend returns for a successful login or registration.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
