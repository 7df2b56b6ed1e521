package models

// AnonymousScope is shared by every caller without an identifier
const AnonymousScope = "anonymous"

// Session identifies the caller of a request. Authentication happens upstream;
// the service only trusts the identifiers it is handed.
type Session struct {
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Demo      bool   `json:"demo"`
}

// Authenticated reports whether the session belongs to a signed-in user
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// PersistsHistory reports whether queries from this session are saved
func (s Session) PersistsHistory() bool {
	return s.Authenticated() && !s.Demo
}

// Anonymous reports whether the caller sent no user or session identifier.
// Anonymous callers cannot be told apart from each other.
func (s Session) Anonymous() bool {
	return s.UserID == "" && s.SessionID == ""
}

// Scope returns the key used to partition per-caller state such as the custom library
func (s Session) Scope() string {
	if s.UserID != "" {
		return "user:" + s.UserID
	}
	if s.SessionID != "" {
		return "session:" + s.SessionID
	}
	return AnonymousScope
}
