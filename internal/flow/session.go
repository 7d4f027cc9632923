package flow

import "time"

// MatchData is the revealed pair cached into the session after the first
// successful reveal fetch. Once present alongside Revealed=true it is
// authoritative and never refetched.
type MatchData struct {
	Match   string `json:"match"`
	Message string `json:"message"`
}

// Session is the per-client record of the chosen identity and reveal
// status. SelectedName is immutable once set; Revealed flips false->true
// exactly once.
type Session struct {
	ID           string     `json:"id"`
	SelectedName string     `json:"selectedName"`
	Timestamp    time.Time  `json:"timestamp"`
	Revealed     bool       `json:"revealed"`
	MatchData    *MatchData `json:"matchData,omitempty"`
}
