package models

// Session is the signed-in identity threaded through every service call.
// The zero value is an anonymous caller.
type Session struct {
	UserID    string `json:"user_id"`
	Role      Role   `json:"role"`
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
}

// Authenticated reports whether the session belongs to a signed-in user.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// Is reports whether the session is signed in with the given role.
func (s Session) Is(role Role) bool {
	return s.Authenticated() && s.Role == role
}

// LandingPath is where a client goes after signing in.
func (s Session) LandingPath() string {
	switch s.Role {
	case RoleAdmin:
		return "/admin"
	case RoleHirer:
		return "/post-job"
	default:
		return "/home"
	}
}

// SessionEventType names what happened to a session.
type SessionEventType string

const (
	SessionSignedIn  SessionEventType = "signed_in"
	SessionSignedOut SessionEventType = "signed_out"
	SessionBanned    SessionEventType = "banned"
)

// SessionEvent is published whenever a user's sessions change.
type SessionEvent struct {
	Type      SessionEventType `json:"type"`
	UserID    string           `json:"user_id"`
	SessionID string           `json:"session_id,omitempty"`
	Redirect  string           `json:"redirect,omitempty"`
}
