package session

// State is the operator's identity as the console knows it.
type State struct {
	Pseudo string `json:"pseudo"`
	Token  string `json:"token"`
}

// Authenticated reports whether an operator is logged in.
// Only Pseudo decides; a Token without a Pseudo is not a session.
func (s State) Authenticated() bool { return s.Pseudo != "" }

// GetPseudo exposes Pseudo to a logger.LogContext.
func (s State) GetPseudo() string { return s.Pseudo }
