package protocol

// HELLO (spectator -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name,omitempty"`
	// EveryRounds thins the stream to one ROUND per N rounds; 0 or 1 sends all.
	EveryRounds int `json:"every_rounds,omitempty"`
}

// WELCOME (server -> spectator)
type WelcomeMsg struct {
	Type            string    `json:"type"`
	ProtocolVersion string    `json:"protocol_version"`
	SessionID       string    `json:"session_id"`
	MatchID         string    `json:"match_id"`
	Map             MapParams `json:"map"`
}

type MapParams struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Rounds int    `json:"rounds"`
	Seed   int64  `json:"seed"`
}

// ROUND (server -> spectator, and one line per round in the round log)
type RoundMsg struct {
	Type            string        `json:"type"`
	ProtocolVersion string        `json:"protocol_version"`
	MatchID         string        `json:"match_id"`
	Round           int           `json:"round"`
	Teams           []TeamSummary `json:"teams"`
}

// TeamSummary is one team's state at the end of a round.
type TeamSummary struct {
	Team       string         `json:"team"`
	Population map[string]int `json:"population"`
	Adamantium int            `json:"adamantium"`
	Mana       int            `json:"mana"`
	Elixir     int            `json:"elixir"`
	ZonesOwned int            `json:"zones_owned"`
	Anchors    int            `json:"anchors"`
	Faults     int            `json:"faults"`
	// Ledger is the five population slots as the team's channel holds them.
	Ledger    []int `json:"ledger"`
	LaneSlots int   `json:"lane_slots"`
}

// END (server -> spectator, and the last line of the round log)
type EndMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	MatchID         string `json:"match_id"`
	Rounds          int    `json:"rounds"`
	Winner          string `json:"winner,omitempty"`
	Reason          string `json:"reason"`
}

type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message,omitempty"`
}

// TeamByName returns the summary for team, if present.
func (m RoundMsg) TeamByName(team string) (TeamSummary, bool) {
	for _, t := range m.Teams {
		if t.Team == team {
			return t, true
		}
	}
	return TeamSummary{}, false
}
