package match

import "time"

// ID is the provider's canonical numeric match identifier, stable across the
// structured endpoint and rendered pages.
type ID int64

// Source tags which extraction tier produced a Data value.
type Source string

const (
	SourceStructured  Source = "structured"
	SourceEmbedded    Source = "embedded_document"
	SourceRegex       Source = "regex_fallback"
	SourceUnavailable Source = "unavailable"
)

// CardKind classifies a booking event.
type CardKind string

const (
	CardYellow       CardKind = "yellow"
	CardSecondYellow CardKind = "second_yellow"
	CardRed          CardKind = "red"
)

// PlayerRef names a player as the provider reported them inside one payload.
// Either field may be missing; downstream matching tolerates both variants.
type PlayerRef struct {
	ID   *int64
	Name string
}

// GoalEvent is one normalized goal, own goals included.
type GoalEvent struct {
	ScorerID   *int64
	ScorerName string
	AssistID   *int64
	AssistName string
	IsPenalty  bool
	IsOwnGoal  bool
}

// CardEvent is one normalized booking.
type CardEvent struct {
	PlayerID   *int64
	PlayerName string
	Kind       CardKind
}

// RatingRow is one entry of a rating-shaped table. Stat fields are filled only
// when the source row carried a recognized alias; nil means the provider
// withheld the value, not zero.
type RatingRow struct {
	ID           *int64
	Name         string
	Rating       float64
	Goals        *int
	PenaltyGoals *int
	Assists      *int
	YellowCards  *int
	RedCards     *int
	Minutes      *int
}

// LineupEntry is a snapshot of one row found in a starter/substitution
// container. SubbedOutMinute nil with Starter true means the player was never
// withdrawn.
type LineupEntry struct {
	PlayerID        *int64
	PlayerName      string
	Starter         bool
	SubbedInMinute  *int
	SubbedOutMinute *int
}

// Data is the normalized snapshot of one match. Every field is optional;
// absence is a legitimate terminal state and never an error.
type Data struct {
	ID               ID
	LeagueID         *int64
	LeagueName       string
	KickoffUTC       *time.Time
	Title            string
	PlayerOfTheMatch *PlayerRef
	GoalEvents       []GoalEvent
	CardEvents       []CardEvent
	Ratings          []RatingRow
	Lineups          []LineupEntry
	Source           Source
}

// HasContent reports whether any normalized field survived extraction.
func (d Data) HasContent() bool {
	return d.LeagueID != nil ||
		d.KickoffUTC != nil ||
		d.PlayerOfTheMatch != nil ||
		len(d.GoalEvents) > 0 ||
		len(d.CardEvents) > 0 ||
		len(d.Ratings) > 0 ||
		len(d.Lineups) > 0
}
