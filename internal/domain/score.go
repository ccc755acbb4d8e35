package domain

// MatchStatus is the lifecycle of a fixture as guessed from its headline.
type MatchStatus string

const (
	StatusUpcoming MatchStatus = "UPCOMING"
	StatusLive     MatchStatus = "LIVE"
	StatusFinished MatchStatus = "FINISHED"
)

// ScoreItem is an ephemeral match result or fixture. It is never persisted.
type ScoreItem struct {
	ID             string      `json:"id"`
	HomeTeam       string      `json:"homeTeam"`
	AwayTeam       string      `json:"awayTeam"`
	HomeScore      int         `json:"homeScore"`
	AwayScore      int         `json:"awayScore"`
	Status         MatchStatus `json:"status"`
	Time           string      `json:"time"`
	League         string      `json:"league"`
	RawDescription string      `json:"rawDescription"`
}
