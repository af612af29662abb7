package usecase

import (
	"time"

	"github.com/hafizln/matchprobe/internal/domain/match"
)

// SeasonGate restricts results to a configured competition set and season
// window. It is immutable after construction so alternate seasons can be
// exercised in tests without touching global state.
type SeasonGate struct {
	allowed     map[int64]struct{}
	windowStart time.Time
	windowEnd   time.Time
}

// NewSeasonGate builds a gate for the given competitions and the inclusive
// day window [start, end].
func NewSeasonGate(leagueIDs []int64, start, end time.Time) *SeasonGate {
	allowed := make(map[int64]struct{}, len(leagueIDs))
	for _, id := range leagueIDs {
		allowed[id] = struct{}{}
	}
	return &SeasonGate{
		allowed:     allowed,
		windowStart: start.UTC(),
		windowEnd:   end.UTC().AddDate(0, 0, 1),
	}
}

// AllowsLeagueID reports whether a competition is in the allow-set.
func (g *SeasonGate) AllowsLeagueID(leagueID int64) bool {
	_, ok := g.allowed[leagueID]
	return ok
}

// LeagueAllowed fails closed on an unknown competition.
func (g *SeasonGate) LeagueAllowed(leagueID *int64) bool {
	if leagueID == nil {
		return false
	}
	return g.AllowsLeagueID(*leagueID)
}

// WithinSeason reports whether a kickoff falls inside the season window.
// An unknown kickoff fails closed.
func (g *SeasonGate) WithinSeason(kickoff *time.Time) bool {
	if kickoff == nil {
		return false
	}
	t := kickoff.UTC()
	return !t.Before(g.windowStart) && t.Before(g.windowEnd)
}

// Check evaluates both predicates for one snapshot.
func (g *SeasonGate) Check(data match.Data) (leagueAllowed, withinSeason bool) {
	return g.LeagueAllowed(data.LeagueID), g.WithinSeason(data.KickoffUTC)
}
